package webserve

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/zipserve/zipserve/internal/archidx"
	"github.com/zipserve/zipserve/internal/logging"
	"github.com/zipserve/zipserve/internal/vfs"
)

// errInvalidArgument is for an invalid constructor argument.
var errInvalidArgument = errors.New("invalid argument")

// Server serves a [vfs.Database] over HTTP, answering both content
// requests and a small diagnostics surface.
type Server struct {
	db      *vfs.Database
	handles *vfs.ZipHandleMap
	landing Landing
}

// NewServer returns a [Server] backed by db and handles. landing
// configures root-URL behavior; its zero value disables landing handling.
func NewServer(db *vfs.Database, handles *vfs.ZipHandleMap, landing Landing) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: need database", errInvalidArgument)
	}
	if handles == nil {
		return nil, fmt.Errorf("%w: need zip handle map", errInvalidArgument)
	}

	return &Server{db: db, handles: handles, landing: landing}, nil
}

// Handler builds the [http.Handler] exposed by the server: content
// routes per §4.9 plus a "/_status" diagnostics endpoint.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// X-Content-Type-Options is deliberately never set: the resolver's
	// content-type mapping is coarse (§4.10) and a strict nosniff policy
	// would break archived assets served under a guessed type.
	// "_status" is reserved outside the resolver's own key space: every
	// other path, including one literally named "status", still resolves
	// through §4.9 so indexed content is never shadowed.
	r.HandleFunc("/_status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{path:.*}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{path:.*}", s.handlePost).Methods(http.MethodPost)

	return r
}

// ListenAndServe starts an [http.Server] on addr and blocks until it
// exits with an error other than [http.ErrServerClosed].
func (s *Server) ListenAndServe(addr, certFile, keyFile string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "(webserve) PANIC: %v\n", r)
			debug.PrintStack()
		}
	}()

	logging.Infof("serving on %s", addr)

	var err error
	if certFile != "" && keyFile != "" {
		err = srv.ListenAndServeTLS(certFile, keyFile)
	} else {
		err = srv.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resp := Resolve(s.db, vars["path"], s.landing)

	switch resp.Result {
	case ResponseRedirect:
		http.Redirect(w, r, resp.RedirectTo, http.StatusTemporaryRedirect)
	case ResponseHostFile:
		http.ServeFile(w, r, resp.HostPath)
	case ResponseArchiveBytes:
		if !resp.LastModified.IsZero() {
			w.Header().Set("Last-Modified", resp.LastModified.UTC().Format(http.TimeFormat))
		}

		s.serveArchiveBytes(w, resp)
	case ResponseListing:
		s.serveListing(w, resp)
	case ResponseNotFound:
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handlePost matches the original's placeholder POST route: it accepts
// a body without inspecting it and answers an empty JSON object.
func (s *Server) handlePost(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, "{}")
}

func (s *Server) serveArchiveBytes(w http.ResponseWriter, resp Response) {
	reader, found := s.handles.Get(resp.ArchivePath)
	if !found {
		var err error

		reader, err = archidx.Open(resp.ArchivePath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		s.handles.Put(reader)
	}

	data, err := reader.EntryBytes(resp.ArchiveEntryIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if resp.InjectBaseHref != "" {
		data = injectBaseHref(data, resp.InjectBaseHref)
	}

	w.Header().Set("Content-Type", resp.ContentType)
	_, _ = w.Write(data)
}

// injectBaseHref inserts a <base href="..."> tag right before the first
// closing </head>, so an index.html served at its parent directory's URL
// still resolves its own relative asset links.
func injectBaseHref(html []byte, href string) []byte {
	const marker = "</head>"

	idx := strings.Index(string(html), marker)
	if idx < 0 {
		return html
	}

	tag := fmt.Sprintf(`<base href="%s">`, href)

	out := make([]byte, 0, len(html)+len(tag))
	out = append(out, html[:idx]...)
	out = append(out, tag...)
	out = append(out, html[idx:]...)

	return out
}

// serveListing renders the synthesized directory listing as a
// <pre>-wrapped, <br>-separated sequence of anchors, matching
// serve.rs:file_route's listing format except that anchor hrefs carry a
// plain "/" prefix.
func (s *Server) serveListing(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "text/html")

	label := resp.ListingPrefix
	if label == "" {
		label = "current path"
	}

	anchors := make([]string, 0, len(resp.ListingEntries))
	for _, k := range resp.ListingEntries {
		anchors = append(anchors, fmt.Sprintf(`<a href="/%s">%s</a>`, k, k))
	}

	fmt.Fprintf(w, "<pre>Files under %s:<br>  %s</pre>", label, strings.Join(anchors, "<br>  "))
}

type statusData struct {
	AllocBytes string   `json:"allocBytes"`
	NumGC      uint32   `json:"numGc"`
	Entries    int      `json:"entries"`
	OpenZips   int      `json:"openZips"`
	Logs       []string `json:"logs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	data := statusData{
		AllocBytes: humanize.IBytes(m.Alloc),
		NumGC:      m.NumGC,
		Entries:    s.db.Len(),
		OpenZips:   s.handles.Len(),
		Logs:       logging.Buffer.Lines(),
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "entries=%d openZips=%d alloc=%s numGC=%d\n",
			data.Entries, data.OpenZips, data.AllocBytes, data.NumGC)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("status encode error: %v", err)
	}
}
