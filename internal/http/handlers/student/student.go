// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the registry.
// To inject dependencies we use a factory function that accepts the
// registry and returns a function with the exact signature the router
// needs. The inner function "closes over" the registry:
//
//	router.HandleFunc("POST /api/students", student.New(reg))
//	//                                      ^^^^^^^^^^^^^^^^
//	//                    New(reg) is called ONCE at startup; the
//	//                    handler it returns runs on EVERY request.
//
// The handlers translate between HTTP and the registry's typed errors —
// validation, uniqueness and existence are enforced in exactly one
// place (the registry), never re-checked here.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mustafa-murtaza/studentms/internal/csvio"
	"github.com/mustafa-murtaza/studentms/internal/registry"
	"github.com/mustafa-murtaza/studentms/internal/types"
	"github.com/mustafa-murtaza/studentms/internal/utils/response"
)

// writeDomainError maps the registry's typed failures onto HTTP status
// codes. Anything unrecognised is a storage/internal failure.
//
//	ValidationError → 400, NotFoundError → 404, DuplicateIDError → 409
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *registry.ValidationError
	if errors.As(err, &verr) {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verr))
		return
	}

	var dup *registry.DuplicateIDError
	if errors.As(err, &dup) {
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(dup))
		return
	}

	var missing *registry.NotFoundError
	if errors.As(err, &missing) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(missing))
		return
	}

	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

// pathID parses the {id} path segment. A non-integer id is a client
// error reported immediately; the bool tells the caller to stop.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "id": 101, "name": "Ali", "age": 17, "grade": "A", "marks": 92 }
//
// Success response (201 Created): the stored record.
//
// Error responses:
//
//	400 Bad Request — empty body, malformed JSON, or failed validation
//	409 Conflict    — id already in use
//	500 Internal    — persistence failure
//
// ─────────────────────────────────────────────────────────────────────────────
func New(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var candidate types.Student
		err := json.NewDecoder(r.Body).Decode(&candidate)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		stored, err := reg.Add(candidate)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		slog.Info("student created", slog.Int("id", stored.ID))
		response.WriteJSON(w, http.StatusCreated, stored)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students in insertion order.
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")
		response.WriteJSON(w, http.StatusOK, reg.All())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	400 Bad Request — id is not a valid integer
//	404 Not Found   — no student holds that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int("id", id))

		student, err := reg.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Merges the supplied fields over the existing record; omitted fields
// keep their stored values. Supplying a new "id" renames the record.
//
// Request body (JSON), any subset of:
//
//	{ "id": 102, "name": "Ali Ahmed", "age": 18, "grade": "B", "marks": 55 }
//
// Success response (200 OK) — the full updated record.
//
// Error responses:
//
//	400 Bad Request — invalid id, empty body, or validation failure
//	404 Not Found   — lookup id does not exist
//	409 Conflict    — new id collides with another record
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int("id", id))

		var patch types.StudentUpdate
		err := json.NewDecoder(r.Body).Decode(&patch)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		updated, err := reg.Update(id, patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		slog.Info("student updated", slog.Int("id", updated.ID))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int("id", id))

		if err := reg.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Available handles GET /api/students/{id}/available
// Quick probe used by forms before submitting a new record.
//
// Success response (200 OK):
//
//	{ "id": 7, "available": true }
//
// ─────────────────────────────────────────────────────────────────────────────
func Available(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"id":        id,
			"available": reg.IDAvailable(id),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles GET /api/students/search?q=...
// Case-insensitive substring match on name, or substring match on the
// decimal id. An empty query returns an empty array, never the full
// roster.
// ─────────────────────────────────────────────────────────────────────────────
func Search(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		slog.Info("searching students", slog.String("query", q))

		response.WriteJSON(w, http.StatusOK, reg.Search(q))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Export handles GET /api/students/export
// Streams the roster as CSV text (header + one row per record).
// ─────────────────────────────────────────────────────────────────────────────
func Export(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("exporting roster to csv")

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="students.csv"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, csvio.Export(reg.All()))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Import handles POST /api/students/import
// The request body is raw CSV text. Every data row is attempted; bad
// rows become warnings, good rows are committed immediately.
//
// Success response (200 OK):
//
//	{ "imported_count": 2, "warnings": [ { "row": 2, "reason": "id 101 already exists" } ] }
//
// Error responses:
//
//	400 Bad Request — missing/malformed header (nothing was imported)
//
// ─────────────────────────────────────────────────────────────────────────────
func Import(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("importing roster from csv")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		summary, err := csvio.Import(reg, string(body))
		if err != nil {
			var ferr *csvio.FormatError
			if errors.As(err, &ferr) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(ferr))
				return
			}
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("csv import finished",
			slog.Int("imported", summary.Imported),
			slog.Int("warnings", len(summary.Warnings)))
		response.WriteJSON(w, http.StatusOK, summary)
	}
}
