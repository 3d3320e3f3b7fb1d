package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/zipserve/zipserve/internal/config"
	"github.com/zipserve/zipserve/internal/logging"
	"github.com/zipserve/zipserve/internal/vfs"
	"github.com/zipserve/zipserve/internal/webserve"
)

type serveOptions struct {
	depth        int
	jobs         int
	listen       string
	port         int
	sslCert      string
	sslKey       string
	landingPage  string
	landWithPath bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   serveHelpTextUse,
		Short: serveHelpTextShort,
		Long:  serveHelpTextLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			return runServe(root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", -1, "directory recursion depth (-1 for unbounded)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "number of indexing worker goroutines")
	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "0.0.0.0", "address to listen on")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 8192, "port to listen on")
	cmd.Flags().StringVar(&opts.sslCert, "ssl-cert", "", "TLS certificate file")
	cmd.Flags().StringVar(&opts.sslKey, "ssl-key", "", "TLS key file")
	cmd.Flags().StringVar(&opts.landingPage, "landing-page", "", "virtual path served at the root URL")
	cmd.Flags().BoolVar(&opts.landWithPath, "land-with-path", false, "redirect \"/\" to --landing-page instead of serving it inline")

	cmd.MarkFlagsRequiredTogether("ssl-cert", "ssl-key")

	return cmd
}

func runServe(root string, opts *serveOptions) error {
	if opts.landWithPath && opts.landingPage == "" {
		return fmt.Errorf("%w: --land-with-path requires --landing-page", config.ErrInvalidInput)
	}

	if err := config.ValidateListenHost(opts.listen); err != nil {
		return err
	}

	logging.Infof("indexing %s...", root)

	db, handles, err := vfs.BuildDatabase(root, opts.depth, opts.jobs)
	if err != nil {
		return fmt.Errorf("failed to build file database: %w", err)
	}

	logging.Infof("indexed %d entries across %d archives.", db.Len(), handles.Len())

	srv, err := webserve.NewServer(db, handles, webserve.Landing{
		Page:         opts.landingPage,
		RedirectPath: opts.landWithPath,
	})
	if err != nil {
		return err
	}

	defer handles.CloseAll()

	addr := net.JoinHostPort(opts.listen, fmt.Sprintf("%d", opts.port))

	return srv.ListenAndServe(addr, opts.sslCert, opts.sslKey)
}
