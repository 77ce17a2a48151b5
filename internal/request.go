package internal

import (
	"strings"
)

// Severity grades a warning. Fatal entries block the success path; the
// rest are informational shades for the UI.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityWarning
	SeverityInfo
	SeveritySuccess
)

// Warning is one entry in the request's warnings ledger.
type Warning struct {
	Severity Severity
	Code     string
	Args     []any
}

// flagMarker prefixes path segments that toggle request modes rather
// than route anywhere, e.g. /=bin/report/7.
const flagMarker = "="

// binaryFlag switches the response to raw binary mode, skipping layout.
const binaryFlag = "bin"

// Request is the kernel's view of one invocation, HTTP or CLI. It
// accumulates routing state and the warnings ledger while handlers run.
type Request struct {
	Lang        string
	DefaultLang string
	// Base is the URL prefix for links: empty for the default language,
	// "/xx" otherwise.
	Base     string
	Segments []string
	Binary   bool
	Host     string
	RemoteIP string

	Status   int
	Redirect string
	Warnings []Warning
}

// ParsePath builds a Request from a URL path. A two-character first
// segment is consumed as the language code; leading "="-flag segments
// toggle modes; whatever remains routes. An empty path routes to main.
func ParsePath(path, defaultLang, host, remoteIP string) *Request {
	req := &Request{
		Lang:        defaultLang,
		DefaultLang: defaultLang,
		Host:        host,
		RemoteIP:    remoteIP,
		Status:      200,
	}

	segments := splitPath(path)
	if len(segments) > 0 && len(segments[0]) == 2 {
		req.Lang = strings.ToLower(segments[0])
		segments = segments[1:]
	}
	if req.Lang != req.DefaultLang {
		req.Base = "/" + req.Lang
	}
	for len(segments) > 0 && strings.HasPrefix(segments[0], flagMarker) {
		if segments[0][len(flagMarker):] == binaryFlag {
			req.Binary = true
		}
		segments = segments[1:]
	}
	if len(segments) == 0 {
		segments = []string{"main"}
	}
	req.Segments = segments
	return req
}

// NewCLIRequest synthesizes the request a command-line trigger runs
// under: no path, default language, loopback peer.
func NewCLIRequest(defaultLang string) *Request {
	return &Request{
		Lang:        defaultLang,
		DefaultLang: defaultLang,
		RemoteIP:    "127.0.0.1",
		Segments:    []string{"main"},
		Status:      200,
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// SetStatus records an HTTP status. Codes outside [100,600) are
// silently ignored and the last accepted value stands.
func (r *Request) SetStatus(code int) {
	if code < 100 || code >= 600 {
		return
	}
	r.Status = code
}

// SetRedirect points the response at another location. The kernel
// answers with 303 See Other when a redirect is set and nothing has
// been written.
func (r *Request) SetRedirect(target string) {
	r.Redirect = target
}

// Warn appends an entry to the warnings ledger.
func (r *Request) Warn(severity Severity, code string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Severity: severity, Code: code, Args: args})
}

// HasNoFatalWarnings reports whether the ledger is free of fatal
// entries. Template code consults it to choose between the success and
// the blocked state of a form.
func (r *Request) HasNoFatalWarnings() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityFatal {
			return false
		}
	}
	return true
}
