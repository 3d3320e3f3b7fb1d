// Package webserve implements the request resolver and the HTTP server
// that exposes the virtual filesystem over the wire.
package webserve

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/zipserve/zipserve/internal/vfs"
)

// State names the resolver's position in the lookup state machine. It is
// exported only for observability (logging, tests); callers never branch
// on it directly.
type State int

// States of request resolution, in the order they may be entered.
const (
	StateStart State = iota
	StateLandingChoice
	StateIndexHTMLProbe
	StateDirectEntryLookup
	StateListingSynthesis
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateLandingChoice:
		return "LandingChoice"
	case StateIndexHTMLProbe:
		return "IndexHtmlProbe"
	case StateDirectEntryLookup:
		return "DirectEntryLookup"
	case StateListingSynthesis:
		return "ListingSynthesis"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// ResponseKind identifies the shape of a resolved [Response].
type ResponseKind int

const (
	ResponseNotFound ResponseKind = iota
	ResponseRedirect
	ResponseHostFile
	ResponseArchiveBytes
	ResponseListing
)

// Response is the outcome of resolving one request path.
type Response struct {
	Kind State

	Result ResponseKind

	// HostPath is set for ResponseHostFile.
	HostPath string

	// ArchivePath/ArchiveEntryIndex are set for ResponseArchiveBytes.
	ArchivePath       string
	ArchiveEntryIndex int

	// ContentType is set for ResponseArchiveBytes and ResponseListing.
	ContentType string

	// InjectBaseHref is set for ResponseArchiveBytes when the entry is an
	// index.html served at its parent directory's URL: the base href
	// that must be injected before </head>.
	InjectBaseHref string

	// RedirectTo is set for ResponseRedirect.
	RedirectTo string

	// LastModified is set for ResponseHostFile and ResponseArchiveBytes
	// when the underlying entry's modification time is known.
	LastModified time.Time

	// ListingEntries is set for ResponseListing: the child keys to render.
	ListingEntries []string

	// ListingPrefix is the path the listing was generated for.
	ListingPrefix string
}

// Landing configures root-URL behavior.
type Landing struct {
	Page         string // virtual path to serve/redirect to at "/"; empty disables landing handling.
	RedirectPath bool   // if true, "/" redirects to Page; otherwise Page's contents are served in place.
}

// Resolve maps a normalized request path (no leading '/') to a [Response],
// implementing the Start -> LandingChoice -> IndexHtmlProbe ->
// DirectEntryLookup -> ListingSynthesis -> Done state machine of §4.9.
func Resolve(db *vfs.Database, reqPath string, landing Landing) Response {
	reqPath = strings.ReplaceAll(reqPath, `\`, "/")
	reqPath = strings.Trim(reqPath, "/")

	if reqPath == "" && landing.Page != "" {
		if landing.RedirectPath {
			return Response{Kind: StateLandingChoice, Result: ResponseRedirect, RedirectTo: "/" + landing.Page}
		}

		reqPath = strings.Trim(landing.Page, "/")
	}

	if resp, ok := probeIndexHTML(db, reqPath); ok {
		return resp
	}

	if resp, ok := directLookup(db, reqPath); ok {
		return resp
	}

	return synthesizeListing(db, reqPath)
}

func probeIndexHTML(db *vfs.Database, reqPath string) (Response, bool) {
	key := reqPath + "/index.html"
	if reqPath == "" {
		key = "index.html"
	}

	fi, found := db.Get(key)
	if !found || fi.Kind != vfs.ArchiveFile {
		return Response{}, false
	}

	base := fmt.Sprintf("/%s/index.html", reqPath)
	if reqPath == "" {
		base = "/index.html"
	}

	return Response{
		Kind:              StateIndexHTMLProbe,
		Result:            ResponseArchiveBytes,
		ArchivePath:       fi.ArchivePath,
		ArchiveEntryIndex: fi.ArchiveEntryIndex,
		ContentType:       "text/html",
		InjectBaseHref:    base,
		LastModified:      fi.ModTime,
	}, true
}

func directLookup(db *vfs.Database, reqPath string) (Response, bool) {
	fi, found := db.Get(reqPath)
	if !found {
		return Response{}, false
	}

	switch fi.Kind {
	case vfs.HostFile:
		return Response{
			Kind:         StateDirectEntryLookup,
			Result:       ResponseHostFile,
			HostPath:     fi.HostPath,
			LastModified: fi.ModTime,
		}, true
	case vfs.ArchiveFile:
		return Response{
			Kind:              StateDirectEntryLookup,
			Result:            ResponseArchiveBytes,
			ArchivePath:       fi.ArchivePath,
			ArchiveEntryIndex: fi.ArchiveEntryIndex,
			ContentType:       contentTypeForEntry(reqPath),
			LastModified:      fi.ModTime,
		}, true
	default:
		// HostDir and ArchiveDir fall through to listing synthesis.
		return Response{}, false
	}
}

func synthesizeListing(db *vfs.Database, reqPath string) Response {
	return Response{
		Kind:           StateListingSynthesis,
		Result:         ResponseListing,
		ListingEntries: db.Children(reqPath),
		ListingPrefix:  reqPath,
		ContentType:    "text/html",
	}
}

// contentTypeForEntry implements §4.10: extension lookup is
// case-sensitive and only these three media types are mapped for
// archive blobs, everything else is octet-stream.
func contentTypeForEntry(entryPath string) string {
	switch path.Ext(entryPath) {
	case ".html":
		return "text/html"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	default:
		return "application/octet-stream"
	}
}
