// Package analytics derives a read-only statistics snapshot from the
// roster. Nothing here is cached or persisted: every call recomputes
// from the collection it is given, so the numbers are automatically
// correct after any mutation. At administrative scale that costs
// microseconds.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/mustafa-murtaza/studentms/internal/types"
)

// PassMark is the pass/fail partition: marks at or above it pass.
const PassMark = 40

// ExcellenceMark is the floor for the excellence list.
const ExcellenceMark = 90

// ageBucketWidth groups ages into five-year ranges for the
// age-performance breakdown.
const ageBucketWidth = 5

// topListSize caps the ranked top-performers list.
const topListSize = 5

// Snapshot is the full analytics result. Percentages and averages are
// rounded half-away-from-zero to one decimal place; that rounding is
// part of the contract (the numbers are display-driven), not a private
// formatting choice.
type Snapshot struct {
	TotalStudents int     `json:"total_students"`
	AverageMarks  float64 `json:"average_marks"`
	HighestMarks  int     `json:"highest_marks"`
	LowestMarks   int     `json:"lowest_marks"`

	PassCount      int     `json:"pass_count"`
	FailCount      int     `json:"fail_count"`
	PassPercentage float64 `json:"pass_percentage"`

	// GradeDistribution always carries all five letter grades, zeroes
	// included, so chart axes stay stable.
	GradeDistribution    map[string]int     `json:"grade_distribution"`
	AverageMarksPerGrade map[string]float64 `json:"average_marks_per_grade"`

	// AgeGroupPerformance maps five-year age buckets ("16-20") to the
	// mean marks of their members. Empty buckets are absent — a mean
	// over zero students is undefined.
	AgeGroupPerformance map[string]float64 `json:"age_group_performance"`

	// Ties on marks are broken by first occurrence in roster order.
	TopPerformer    *types.Student `json:"top_performer"`
	LowestPerformer *types.Student `json:"lowest_performer"`

	TopFive            []types.Student `json:"top_five"`
	ExcellenceStudents []types.Student `json:"excellence_students"`
	BelowAverageCount  int             `json:"below_average_count"`
}

// Compute builds a Snapshot from the given roster. An empty roster
// yields an all-zero snapshot — callers never divide by zero and never
// see nil maps or slices.
func Compute(students []types.Student) Snapshot {
	snap := Snapshot{
		GradeDistribution:    make(map[string]int, len(types.ValidGrades)),
		AverageMarksPerGrade: make(map[string]float64, len(types.ValidGrades)),
		AgeGroupPerformance:  make(map[string]float64),
		TopFive:              []types.Student{},
		ExcellenceStudents:   []types.Student{},
	}
	for _, g := range types.ValidGrades {
		snap.GradeDistribution[g] = 0
		snap.AverageMarksPerGrade[g] = 0
	}

	if len(students) == 0 {
		return snap
	}
	snap.TotalStudents = len(students)

	// One pass for the scalar aggregates. Strict comparisons keep the
	// first occurrence on ties.
	var (
		sum       int
		topIdx    int
		lowIdx    int
		gradeSums = make(map[string]int, len(types.ValidGrades))
		ageSums   = make(map[string]int)
		ageCounts = make(map[string]int)
	)
	for i, st := range students {
		sum += st.Marks
		if st.Marks > students[topIdx].Marks {
			topIdx = i
		}
		if st.Marks < students[lowIdx].Marks {
			lowIdx = i
		}
		if st.Marks >= PassMark {
			snap.PassCount++
		}
		snap.GradeDistribution[st.Grade]++
		gradeSums[st.Grade] += st.Marks

		bucket := ageBucket(st.Age)
		ageSums[bucket] += st.Marks
		ageCounts[bucket]++

		if st.Marks >= ExcellenceMark {
			snap.ExcellenceStudents = append(snap.ExcellenceStudents, st)
		}
	}

	average := float64(sum) / float64(len(students))
	snap.AverageMarks = round1(average)
	snap.FailCount = len(students) - snap.PassCount
	snap.PassPercentage = round1(float64(snap.PassCount) / float64(len(students)) * 100)

	top, low := students[topIdx], students[lowIdx]
	snap.TopPerformer = &top
	snap.LowestPerformer = &low
	snap.HighestMarks = top.Marks
	snap.LowestMarks = low.Marks

	for _, st := range students {
		if float64(st.Marks) < average {
			snap.BelowAverageCount++
		}
	}

	for grade, count := range snap.GradeDistribution {
		if count > 0 {
			snap.AverageMarksPerGrade[grade] = round1(float64(gradeSums[grade]) / float64(count))
		}
	}
	for bucket, count := range ageCounts {
		snap.AgeGroupPerformance[bucket] = round1(float64(ageSums[bucket]) / float64(count))
	}

	snap.TopFive = topPerformers(students, topListSize)

	return snap
}

// topPerformers returns up to n records ordered by marks descending.
// The sort is stable, so equal marks keep roster order.
func topPerformers(students []types.Student, n int) []types.Student {
	ranked := make([]types.Student, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Marks > ranked[j].Marks
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ageBucket labels the five-year range an age falls into, e.g. 17 → "16-20".
func ageBucket(age int) string {
	lo := (age-1)/ageBucketWidth*ageBucketWidth + 1
	return fmt.Sprintf("%d-%d", lo, lo+ageBucketWidth-1)
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
