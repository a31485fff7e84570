package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-murtaza/studentms/internal/types"
)

func TestComputeEmptyRoster(t *testing.T) {
	snap := Compute(nil)

	assert.Equal(t, 0, snap.TotalStudents)
	assert.Equal(t, 0.0, snap.AverageMarks)
	assert.Equal(t, 0.0, snap.PassPercentage)
	assert.Nil(t, snap.TopPerformer)
	assert.Nil(t, snap.LowestPerformer)
	assert.Empty(t, snap.TopFive)
	assert.Empty(t, snap.ExcellenceStudents)

	// The grade maps always carry all five letters, even for no data.
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}, snap.GradeDistribution)
	assert.Len(t, snap.AverageMarksPerGrade, 5)
	assert.Empty(t, snap.AgeGroupPerformance)
}

func TestComputeThreeStudentScenario(t *testing.T) {
	roster := []types.Student{
		{ID: 1, Name: "Ali", Age: 17, Grade: "A", Marks: 92},
		{ID: 2, Name: "Sana", Age: 18, Grade: "B", Marks: 76},
		{ID: 3, Name: "Omar", Age: 16, Grade: "F", Marks: 30},
	}

	snap := Compute(roster)

	assert.Equal(t, 3, snap.TotalStudents)
	assert.Equal(t, 66.0, snap.AverageMarks)
	assert.Equal(t, 92, snap.HighestMarks)
	assert.Equal(t, 30, snap.LowestMarks)
	assert.Equal(t, 2, snap.PassCount)
	assert.Equal(t, 1, snap.FailCount)
	assert.Equal(t, 66.7, snap.PassPercentage)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 0, "D": 0, "F": 1}, snap.GradeDistribution)

	require.NotNil(t, snap.TopPerformer)
	assert.Equal(t, "Ali", snap.TopPerformer.Name)
	require.NotNil(t, snap.LowestPerformer)
	assert.Equal(t, "Omar", snap.LowestPerformer.Name)

	// Only Omar (30) is below the average of 66.
	assert.Equal(t, 1, snap.BelowAverageCount)

	// Ages 16-18 all land in one bucket averaging 66.0.
	assert.Equal(t, map[string]float64{"16-20": 66.0}, snap.AgeGroupPerformance)

	require.Len(t, snap.ExcellenceStudents, 1)
	assert.Equal(t, "Ali", snap.ExcellenceStudents[0].Name)

	require.Len(t, snap.TopFive, 3)
	assert.Equal(t, []int{92, 76, 30}, []int{
		snap.TopFive[0].Marks, snap.TopFive[1].Marks, snap.TopFive[2].Marks,
	})
}

func TestTieBreaksUseFirstOccurrence(t *testing.T) {
	roster := []types.Student{
		{ID: 1, Name: "First", Age: 17, Grade: "A", Marks: 90},
		{ID: 2, Name: "Second", Age: 17, Grade: "A", Marks: 90},
		{ID: 3, Name: "LowFirst", Age: 17, Grade: "D", Marks: 35},
		{ID: 4, Name: "LowSecond", Age: 17, Grade: "D", Marks: 35},
	}

	snap := Compute(roster)

	require.NotNil(t, snap.TopPerformer)
	assert.Equal(t, "First", snap.TopPerformer.Name)
	require.NotNil(t, snap.LowestPerformer)
	assert.Equal(t, "LowFirst", snap.LowestPerformer.Name)

	// The stable sort keeps roster order among equals.
	assert.Equal(t, "First", snap.TopFive[0].Name)
	assert.Equal(t, "Second", snap.TopFive[1].Name)
}

func TestTopFiveCapsAtFive(t *testing.T) {
	roster := make([]types.Student, 0, 7)
	for i := 1; i <= 7; i++ {
		roster = append(roster, types.Student{
			ID: i, Name: "S", Age: 17, Grade: "C", Marks: 50 + i,
		})
	}

	snap := Compute(roster)

	require.Len(t, snap.TopFive, 5)
	assert.Equal(t, 57, snap.TopFive[0].Marks)
	assert.Equal(t, 53, snap.TopFive[4].Marks)
}

func TestAverageMarksPerGrade(t *testing.T) {
	roster := []types.Student{
		{ID: 1, Name: "A1", Age: 17, Grade: "A", Marks: 95},
		{ID: 2, Name: "A2", Age: 17, Grade: "A", Marks: 90},
		{ID: 3, Name: "B1", Age: 17, Grade: "B", Marks: 71},
	}

	snap := Compute(roster)

	assert.Equal(t, 92.5, snap.AverageMarksPerGrade["A"])
	assert.Equal(t, 71.0, snap.AverageMarksPerGrade["B"])
	assert.Equal(t, 0.0, snap.AverageMarksPerGrade["F"], "empty grades stay at zero")
}

func TestAgeGroupPerformanceBuckets(t *testing.T) {
	roster := []types.Student{
		{ID: 1, Name: "Young", Age: 8, Grade: "B", Marks: 70},
		{ID: 2, Name: "Teen1", Age: 16, Grade: "A", Marks: 90},
		{ID: 3, Name: "Teen2", Age: 20, Grade: "B", Marks: 80},
	}

	snap := Compute(roster)

	assert.Equal(t, map[string]float64{
		"6-10":  70.0,
		"16-20": 85.0,
	}, snap.AgeGroupPerformance)
}

func TestRoundingIsHalfAwayFromZeroToOneDecimal(t *testing.T) {
	// 50+45 = 95 over 2 students → 47.5 exactly; 1 of 3 passing → 33.333… → 33.3
	snap := Compute([]types.Student{
		{ID: 1, Name: "A", Age: 17, Grade: "C", Marks: 50},
		{ID: 2, Name: "B", Age: 17, Grade: "D", Marks: 45},
	})
	assert.Equal(t, 47.5, snap.AverageMarks)

	snap = Compute([]types.Student{
		{ID: 1, Name: "A", Age: 17, Grade: "C", Marks: 80},
		{ID: 2, Name: "B", Age: 17, Grade: "F", Marks: 10},
		{ID: 3, Name: "C", Age: 17, Grade: "F", Marks: 20},
	})
	assert.Equal(t, 33.3, snap.PassPercentage)
	assert.Equal(t, 36.7, snap.AverageMarks)
}
