// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, registry, storage and analytics can all import types without
// depending on each other.
package types

// Letter grades recognised by the system. Anything else fails validation.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// ValidGrades lists the recognised letter grades in display order.
var ValidGrades = []string{GradeA, GradeB, GradeC, GradeD, GradeF}

// Student represents one student record in the roster.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. The registry runs these on every add and on the merged
//     result of every update, so a record that fails any rule never
//     enters the roster. Age bounds are configuration, not a tag; the
//     registry checks them alongside the tagged rules.
type Student struct {
	ID    int    `json:"id"    validate:"gt=0"`
	Name  string `json:"name"  validate:"required"`
	Age   int    `json:"age"`
	Grade string `json:"grade" validate:"oneof=A B C D F"`
	Marks int    `json:"marks" validate:"gte=0,lte=100"`
}

// StudentUpdate is a partial update payload. Pointer fields distinguish
// "field not supplied" (nil — keep the stored value) from "field set to
// its zero value". Supplying a new ID renames the record's identity,
// subject to the same uniqueness check as creation.
type StudentUpdate struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Grade *string `json:"grade"`
	Marks *int    `json:"marks"`
}
