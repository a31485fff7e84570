// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Consistent response shapes also make life easier for API consumers —
// they always know what error responses look like.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/mustafa-murtaza/studentms/internal/registry"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a list, a
// snapshot…). Error responses always look like:
//
//	{ "status": "error", "error": "marks must be between 0 and 100" }
//
// Validation failures additionally carry the per-field breakdown so a
// form can highlight every offending input at once.
type Response struct {
	Status     string                    `json:"status"`
	Error      string                    `json:"error"`
	Violations []registry.FieldViolation `json:"violations,omitempty"`
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// json.NewEncoder(w) streams directly into w, avoiding an
	// intermediate buffer. Encode() appends a newline after the JSON —
	// handy for CLI testing.
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (storage failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError renders a registry validation failure with the full
// list of violated fields, not just the first one found.
func ValidationError(verr *registry.ValidationError) Response {
	return Response{
		Status:     StatusError,
		Error:      verr.Error(),
		Violations: verr.Violations,
	}
}
