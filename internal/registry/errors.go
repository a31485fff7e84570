package registry

import (
	"fmt"
	"strings"
)

// FieldViolation describes one failed validation rule.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every rule a candidate record violated, not
// just the first one found — the caller (or the human behind it) should
// be able to fix the whole record in one round trip.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		reasons = append(reasons, v.Reason)
	}
	return strings.Join(reasons, ", ")
}

// DuplicateIDError signals an identity collision: the candidate's id is
// already held by a different record.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("id %d already exists", e.ID)
}

// NotFoundError signals that no record holds the requested id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no student found with id %d", e.ID)
}
