// Package csvio implements bulk CSV import and export for the roster.
//
// Import never bypasses the registry: every row is committed through
// registry.Add, so a bulk load honours exactly the same validation and
// uniqueness rules as single-record creation. Rows fail independently —
// one bad line becomes a warning with its row number and reason, and the
// rest of the file still imports.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mustafa-murtaza/studentms/internal/registry"
	"github.com/mustafa-murtaza/studentms/internal/types"
)

// columns is the exchange format's header, in export order. Import
// accepts these names in any order and any letter case.
var columns = []string{"id", "name", "age", "grade", "marks"}

// Warning records one skipped import row.
type Warning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the result of a full import pass: how many rows were
// committed and why the others were not. Import always processes every
// row — there is no partial abort.
type ImportSummary struct {
	Imported int       `json:"imported_count"`
	Warnings []Warning `json:"warnings"`
}

// FormatError means the CSV input is structurally unusable — a missing
// or malformed header. It fails the whole import before any row is
// processed; row-level problems become Warnings instead.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "csv format: " + e.Reason
}

// Export serialises the given roster to CSV text: the fixed header
// followed by one row per record in collection order. An empty roster
// yields header-only text; Export cannot fail.
func Export(students []types.Student) string {
	var b strings.Builder

	w := csv.NewWriter(&b)
	w.Write(columns)
	for _, st := range students {
		w.Write([]string{
			strconv.Itoa(st.ID),
			st.Name,
			strconv.Itoa(st.Age),
			st.Grade,
			strconv.Itoa(st.Marks),
		})
	}
	w.Flush()

	return b.String()
}

// Import parses csvText and feeds each data row through reg.Add.
//
// The header is mandatory and checked first — it must contain exactly
// the expected column names (order- and case-insensitive); otherwise the
// whole import fails with *FormatError before touching any row. Column
// positions are taken from the header, so a reordered file imports fine.
//
// Data rows are numbered from 1. A row with the wrong field count,
// non-numeric id/age/marks, a validation failure, or a duplicate id
// (against the store or an earlier row in the same file) is skipped and
// recorded as a warning. Committed rows stay committed regardless of
// later failures — import is atomic per row, not per file.
func Import(reg *registry.Registry, csvText string) (ImportSummary, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1 // field-count problems are per-row warnings, not reader errors
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return ImportSummary{}, &FormatError{Reason: "input is empty, header row required"}
	}
	if err != nil {
		return ImportSummary{}, &FormatError{Reason: fmt.Sprintf("unreadable header: %v", err)}
	}

	colAt, err := columnIndex(header)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{Warnings: []Warning{}}
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			summary.Warnings = append(summary.Warnings, Warning{
				Row:    row,
				Reason: fmt.Sprintf("unparseable row: %v", err),
			})
			continue
		}
		if len(record) != len(columns) {
			summary.Warnings = append(summary.Warnings, Warning{
				Row:    row,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(columns), len(record)),
			})
			continue
		}

		candidate, reason := buildCandidate(record, colAt)
		if reason != "" {
			summary.Warnings = append(summary.Warnings, Warning{Row: row, Reason: reason})
			continue
		}

		// Committing through the registry makes this row subject to
		// the same checkpoint as the single-record API.
		if _, err := reg.Add(candidate); err != nil {
			summary.Warnings = append(summary.Warnings, Warning{Row: row, Reason: err.Error()})
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

// columnIndex maps each expected column name to its position in the
// header. The header must carry exactly the expected names — no
// duplicates, no extras, nothing missing.
func columnIndex(header []string) (map[string]int, error) {
	if len(header) != len(columns) {
		return nil, &FormatError{
			Reason: fmt.Sprintf("header must have the %d columns %s",
				len(columns), strings.Join(columns, ",")),
		}
	}

	colAt := make(map[string]int, len(columns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := colAt[name]; dup {
			return nil, &FormatError{Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		colAt[name] = i
	}
	for _, name := range columns {
		if _, ok := colAt[name]; !ok {
			return nil, &FormatError{Reason: fmt.Sprintf("missing column %q", name)}
		}
	}
	return colAt, nil
}

// buildCandidate assembles a Student from one data row. It only handles
// the type conversions the CSV layer owns; range and enum checks happen
// in the registry.
func buildCandidate(record []string, colAt map[string]int) (types.Student, string) {
	id, err := strconv.Atoi(strings.TrimSpace(record[colAt["id"]]))
	if err != nil {
		return types.Student{}, fmt.Sprintf("id %q is not an integer", record[colAt["id"]])
	}
	age, err := strconv.Atoi(strings.TrimSpace(record[colAt["age"]]))
	if err != nil {
		return types.Student{}, fmt.Sprintf("age %q is not an integer", record[colAt["age"]])
	}
	marks, err := strconv.Atoi(strings.TrimSpace(record[colAt["marks"]]))
	if err != nil {
		return types.Student{}, fmt.Sprintf("marks %q is not an integer", record[colAt["marks"]])
	}

	return types.Student{
		ID:    id,
		Name:  record[colAt["name"]],
		Age:   age,
		Grade: strings.TrimSpace(record[colAt["grade"]]),
		Marks: marks,
	}, ""
}
