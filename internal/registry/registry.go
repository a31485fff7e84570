// Package registry implements the record store: the single owner of the
// student roster. It enforces validation and id uniqueness, keeps the
// collection in insertion order, and persists the whole roster through
// a storage.Persister after every successful mutation.
//
// Every write path — the single-record API and bulk CSV import alike —
// funnels through Add/Update/Delete, so the invariants are checked in
// exactly one place.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mustafa-murtaza/studentms/internal/config"
	"github.com/mustafa-murtaza/studentms/internal/storage"
	"github.com/mustafa-murtaza/studentms/internal/types"
)

// Registry is the canonical student collection.
//
// Concurrency: mutations take the write lock for the whole
// validate → mutate → persist sequence, so two concurrent adds can
// never both pass the duplicate-id check. Reads take the read lock and
// hand out copies, never views into the internal slice.
type Registry struct {
	mu       sync.RWMutex
	students []types.Student

	persist  storage.Persister
	validate *validator.Validate

	minAge int
	maxAge int
}

// New builds a Registry on top of the given persister and loads
// whatever the durable store already holds. A missing or empty store is
// a valid starting point (an empty roster), not an error.
//
// Loaded records pass through the same checkpoint as Add: a record that
// fails validation, or repeats an earlier id (a hand-edited file can
// contain both), is skipped with a warning rather than seeding a roster
// that violates the store's invariants.
func New(cfg *config.Config, persist storage.Persister) (*Registry, error) {
	loaded, err := persist.Load()
	if err != nil {
		return nil, fmt.Errorf("registry.New: load roster: %w", err)
	}

	r := &Registry{
		persist:  persist,
		validate: validator.New(),
		minAge:   cfg.Roster.MinAge,
		maxAge:   cfg.Roster.MaxAge,
	}

	r.students = make([]types.Student, 0, len(loaded))
	for _, st := range loaded {
		st.Name = strings.TrimSpace(st.Name)
		if err := r.check(st); err != nil {
			slog.Warn("skipping invalid roster record",
				slog.Int("id", st.ID),
				slog.String("error", err.Error()))
			continue
		}
		if r.indexOf(st.ID) >= 0 {
			slog.Warn("skipping duplicate roster record", slog.Int("id", st.ID))
			continue
		}
		r.students = append(r.students, st)
	}

	return r, nil
}

// Add validates the candidate, rejects duplicate ids, appends the record
// to the end of the roster and persists. On success it returns the
// record exactly as stored (the name is trimmed).
func (r *Registry) Add(candidate types.Student) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate.Name = strings.TrimSpace(candidate.Name)
	if err := r.check(candidate); err != nil {
		return types.Student{}, err
	}
	if r.indexOf(candidate.ID) >= 0 {
		return types.Student{}, &DuplicateIDError{ID: candidate.ID}
	}

	next := append(slices.Clone(r.students), candidate)
	return r.commit(next, candidate)
}

// All returns the full roster in insertion order.
func (r *Registry) All() []types.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.students)
}

// Len reports the number of records currently stored.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.students)
}

// Get returns the record with the given id.
func (r *Registry) Get(id int) (types.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return types.Student{}, &NotFoundError{ID: id}
	}
	return r.students[i], nil
}

// Update merges the supplied fields over the record identified by id.
// Unsupplied (nil) fields keep their stored values. The merged record is
// re-validated with the same rules as Add; if the patch renames the id,
// the new id must not collide with any other record. The record keeps
// its position in the roster.
func (r *Registry) Update(id int, patch types.StudentUpdate) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return types.Student{}, &NotFoundError{ID: id}
	}

	merged := r.students[i]
	if patch.ID != nil {
		merged.ID = *patch.ID
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Age != nil {
		merged.Age = *patch.Age
	}
	if patch.Grade != nil {
		merged.Grade = *patch.Grade
	}
	if patch.Marks != nil {
		merged.Marks = *patch.Marks
	}

	merged.Name = strings.TrimSpace(merged.Name)
	if err := r.check(merged); err != nil {
		return types.Student{}, err
	}
	if merged.ID != id && r.indexOf(merged.ID) >= 0 {
		return types.Student{}, &DuplicateIDError{ID: merged.ID}
	}

	next := slices.Clone(r.students)
	next[i] = merged
	return r.commit(next, merged)
}

// Delete removes the record with the given id and persists.
func (r *Registry) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}

	next := slices.Delete(slices.Clone(r.students), i, i+1)
	_, err := r.commit(next, types.Student{})
	return err
}

// IDAvailable reports whether no record currently holds the given id.
func (r *Registry) IDAvailable(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.indexOf(id) < 0
}

// Search returns, in roster order, every record whose name contains the
// query (case-insensitively) or whose decimal id contains it. An empty
// or all-whitespace query matches nothing — listing everything is All's
// job, not Search's.
func (r *Registry) Search(query string) []types.Student {
	q := strings.ToLower(strings.TrimSpace(query))

	results := make([]types.Student, 0)
	if q == "" {
		return results
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, st := range r.students {
		if strings.Contains(strconv.Itoa(st.ID), q) ||
			strings.Contains(strings.ToLower(st.Name), q) {
			results = append(results, st)
		}
	}
	return results
}

// commit persists the prospective roster and, only if that succeeds,
// makes it the current one. A failed save leaves the in-memory state
// untouched so memory and disk never diverge.
//
// Callers must hold the write lock.
func (r *Registry) commit(next []types.Student, changed types.Student) (types.Student, error) {
	if err := r.persist.Save(next); err != nil {
		return types.Student{}, fmt.Errorf("persist roster: %w", err)
	}
	r.students = next
	return changed, nil
}

// indexOf returns the position of the record with the given id, or -1.
// Callers must hold at least the read lock.
func (r *Registry) indexOf(id int) int {
	return slices.IndexFunc(r.students, func(st types.Student) bool {
		return st.ID == id
	})
}

// check runs full validation on a candidate record and collects every
// violation. The validate tags on types.Student cover id, name, grade
// and marks; the configured age bounds and the line-format constraint on
// names are checked by hand because neither is expressible as a static
// tag.
func (r *Registry) check(candidate types.Student) error {
	var violations []FieldViolation

	if err := r.validate.Struct(candidate); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			violations = append(violations, violationFor(fe))
		}
	}

	if candidate.Age < r.minAge || candidate.Age > r.maxAge {
		violations = append(violations, FieldViolation{
			Field:  "age",
			Reason: fmt.Sprintf("age must be between %d and %d", r.minAge, r.maxAge),
		})
	}

	// The durable file and the CSV exchange format are unquoted and
	// comma-delimited; a name containing the delimiter or a line break
	// could never round-trip.
	if strings.ContainsAny(candidate.Name, ",\r\n") {
		violations = append(violations, FieldViolation{
			Field:  "name",
			Reason: "name must not contain commas or line breaks",
		})
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// violationFor converts one validator.FieldError into a plain-English
// violation keyed by the record's JSON field name.
func violationFor(fe validator.FieldError) FieldViolation {
	field := strings.ToLower(fe.Field())

	switch field {
	case "id":
		return FieldViolation{Field: field, Reason: "id must be a positive integer"}
	case "name":
		return FieldViolation{Field: field, Reason: "name cannot be empty"}
	case "grade":
		return FieldViolation{
			Field:  field,
			Reason: fmt.Sprintf("grade must be one of %s", strings.Join(types.ValidGrades, ", ")),
		}
	case "marks":
		return FieldViolation{Field: field, Reason: "marks must be between 0 and 100"}
	default:
		return FieldViolation{Field: field, Reason: fmt.Sprintf("field %s is invalid", fe.Field())}
	}
}
