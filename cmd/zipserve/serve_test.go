package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation: --land-with-path without --landing-page is rejected before
// any indexing work begins.
func Test_RunServe_LandWithPathWithoutLandingPage_Error(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	err := runServe(tmp, &serveOptions{
		listen:       "0.0.0.0",
		port:         8192,
		landWithPath: true,
	})
	require.Error(t, err)
}

// Expectation: an invalid listen address is rejected before indexing.
func Test_RunServe_InvalidListenHost_Error(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	err := runServe(tmp, &serveOptions{
		listen: "not-an-ip",
		port:   8192,
	})
	require.Error(t, err)
}

// Expectation: --ssl-cert and --ssl-key are required together.
func Test_NewServeCmd_SSLRequiredTogether_Error(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	cmd := newServeCmd()
	cmd.SetArgs([]string{filepath.Join(tmp), "--ssl-cert", "cert.pem"})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))

	require.Error(t, cmd.Execute())
}
