package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request ID; the client gets the
// mapped user message from core.MapError. HTMX requests receive an HTML
// alert fragment and everything else receives JSON. The "error" field is
// kept for existing clients of the excel endpoints.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/taller/internal/core"
	"github.com/JonMunkholm/taller/internal/logging"
	"github.com/JonMunkholm/taller/internal/web/templates"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	// errNoFile is returned when a multipart request has no "file" part.
	errNoFile = errors.New("no file provided")

	// errFileTooLarge is returned when the body exceeds the upload limit.
	errFileTooLarge = errors.New("file too large")

	// errNoSession is returned by progress imports sent without a session id.
	errNoSession = errors.New("session id required")
)

// respondError writes err with the status derived from it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondErrorAs(w, r, err, statusFor(err), "")
}

// respondErrorAs writes err with an explicit status. A non-empty summary
// replaces the mapped message in the "error" field.
func (s *Server) respondErrorAs(w http.ResponseWriter, r *http.Request, err error, status int, summary string) {
	msg := core.MapError(err)

	logger := logging.WithFields(r.Context(), "path", r.URL.Path, "method", r.Method)
	attrs := []any{"status", status, "code", msg.Code, "error", err.Error()}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if errors.Is(err, core.ErrTooManyImports) {
		w.Header().Set("Retry-After", retryAfter(s.cfg.Import.MaxWaitTime))
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
			logger.Error("render error alert", "error", err)
		}
		return
	}

	if summary == "" {
		summary = msg.Message
	}
	writeJSON(w, status, ErrorResponse{
		Error:   summary,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var (
		missing  *core.MissingColumnsError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &missing),
		errors.Is(err, errNoFile),
		errors.Is(err, errNoSession),
		errors.Is(err, core.ErrUnreadableFile),
		errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsHTML reports whether the client asked for a page rather than JSON.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
