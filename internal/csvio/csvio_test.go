package csvio

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-murtaza/studentms/internal/config"
	"github.com/mustafa-murtaza/studentms/internal/registry"
	"github.com/mustafa-murtaza/studentms/internal/types"
)

type memPersister struct {
	students []types.Student
}

func (m *memPersister) Load() ([]types.Student, error) {
	return slices.Clone(m.students), nil
}

func (m *memPersister) Save(students []types.Student) error {
	m.students = slices.Clone(students)
	return nil
}

func setup(t *testing.T) *registry.Registry {
	t.Helper()
	cfg := &config.Config{Roster: config.Roster{MinAge: 3, MaxAge: 100}}
	reg, err := registry.New(cfg, &memPersister{})
	require.NoError(t, err)
	return reg
}

func TestExportEmptyRosterIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "id,name,age,grade,marks\n", Export(nil))
}

func TestExportWritesRowsInCollectionOrder(t *testing.T) {
	out := Export([]types.Student{
		{ID: 2, Name: "Sana", Age: 18, Grade: "B", Marks: 76},
		{ID: 1, Name: "Ali", Age: 17, Grade: "A", Marks: 92},
	})
	assert.Equal(t, "id,name,age,grade,marks\n2,Sana,18,B,76\n1,Ali,17,A,92\n", out)
}

func TestImportMixedFile(t *testing.T) {
	reg := setup(t)

	text := "id,name,age,grade,marks\n" +
		"101,Ali,17,A,92\n" +
		"101,Dup,19,B,80\n" +
		"bad,row\n" +
		"102,Sana,18,B,76"

	summary, err := Import(reg, text)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	require.Len(t, summary.Warnings, 2)
	assert.Equal(t, 2, summary.Warnings[0].Row)
	assert.Contains(t, summary.Warnings[0].Reason, "already exists")
	assert.Equal(t, 3, summary.Warnings[1].Row)
	assert.Contains(t, summary.Warnings[1].Reason, "columns")

	roster := reg.All()
	require.Len(t, roster, 2)
	assert.Equal(t, 101, roster[0].ID)
	assert.Equal(t, 102, roster[1].ID)
}

func TestImportRowsFailIndependently(t *testing.T) {
	reg := setup(t)

	text := "id,name,age,grade,marks\n" +
		"1,Ali,17,A,92\n" +
		"2,Sana,18,Q,76\n" + // bad grade → validation warning
		"3,Omar,sixteen,F,30\n" + // non-numeric age → parse warning
		"4,Zara,20,C,64\n"

	summary, err := Import(reg, text)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	require.Len(t, summary.Warnings, 2)
	assert.Equal(t, 2, summary.Warnings[0].Row)
	assert.Equal(t, 3, summary.Warnings[1].Row)
	assert.Equal(t, 2, reg.Len())
}

func TestImportRequiresHeader(t *testing.T) {
	reg := setup(t)

	_, err := Import(reg, "")
	var ferr *FormatError
	assert.ErrorAs(t, err, &ferr)

	_, err = Import(reg, "id,name,age\n1,Ali,17\n")
	assert.ErrorAs(t, err, &ferr)

	_, err = Import(reg, "id,name,age,grade,score\n1,Ali,17,A,92\n")
	assert.ErrorAs(t, err, &ferr)

	assert.Equal(t, 0, reg.Len(), "a format error must import nothing")
}

func TestImportHeaderIsOrderAndCaseInsensitive(t *testing.T) {
	reg := setup(t)

	text := "Marks,Grade,Age,Name,ID\n" +
		"92,A,17,Ali,101\n"

	summary, err := Import(reg, text)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	got, err := reg.Get(101)
	require.NoError(t, err)
	assert.Equal(t, types.Student{ID: 101, Name: "Ali", Age: 17, Grade: "A", Marks: 92}, got)
}

func TestImportAgainstExistingRoster(t *testing.T) {
	reg := setup(t)
	_, err := reg.Add(types.Student{ID: 1, Name: "Ali", Age: 17, Grade: "A", Marks: 92})
	require.NoError(t, err)

	summary, err := Import(reg, "id,name,age,grade,marks\n1,Clone,17,A,92\n2,Sana,18,B,76\n")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, 1, summary.Warnings[0].Row)

	// The original record must be untouched by the duplicate row.
	got, getErr := reg.Get(1)
	require.NoError(t, getErr)
	assert.Equal(t, "Ali", got.Name)
}

func TestExportImportRoundTrip(t *testing.T) {
	source := setup(t)
	roster := []types.Student{
		{ID: 1, Name: "Ali Ahmed", Age: 17, Grade: "A", Marks: 92},
		{ID: 2, Name: "Sana", Age: 18, Grade: "B", Marks: 76},
		{ID: 3, Name: "Omar", Age: 16, Grade: "F", Marks: 30},
	}
	for _, st := range roster {
		_, err := source.Add(st)
		require.NoError(t, err)
	}

	dest := setup(t)
	summary, err := Import(dest, Export(source.All()))
	require.NoError(t, err)

	assert.Equal(t, len(roster), summary.Imported)
	assert.Empty(t, summary.Warnings)
	assert.Equal(t, roster, dest.All())
}

func TestFormatErrorMatchesWithErrorsAs(t *testing.T) {
	err := error(&FormatError{Reason: "missing column"})
	var ferr *FormatError
	assert.True(t, errors.As(err, &ferr))
}
