// Package assignment contains the pure scoring and ordering rules used by the
// daily optimizer. Nothing here touches storage.
package assignment

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/plantops/internal/core/skill"
)

// DefaultMinScore is the score a candidate must exceed to be assigned.
const DefaultMinScore = 0.4

// Score weights.
const (
	skillWeight    = 0.6
	workloadWeight = 0.3
	priorityWeight = 0.1
)

// Task is the slice of a task the scorer needs.
type Task struct {
	ID        string
	AssetID   string // empty when the task has no asset
	AssetType string
	Priority  string
	DueDate   time.Time
}

// Candidate is an engineer eligible for assignment.
type Candidate struct {
	ID     string
	Name   string
	Skills []string
}

// Breakdown is a scored (task, candidate) pair.
type Breakdown struct {
	SkillScore    float64
	WorkloadScore float64
	PriorityScore float64
	Total         float64
}

// PriorityWeight maps a task priority to its weight. Unknown priorities weigh 1.
func PriorityWeight(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// Score combines skill match, workload headroom and priority.
func Score(task Task, c Candidate, currentLoad, ceiling int) Breakdown {
	b := Breakdown{
		SkillScore:    skill.ScoreMatch(task.AssetID != "", task.AssetType, c.Skills),
		PriorityScore: float64(PriorityWeight(task.Priority)),
	}
	if ceiling > 0 {
		b.WorkloadScore = 1 - float64(currentLoad)/float64(ceiling)
	}
	b.Total = skillWeight*b.SkillScore + workloadWeight*b.WorkloadScore + priorityWeight*(b.PriorityScore*0.1)
	return b
}

// LoadFunc reports an engineer's current load.
type LoadFunc func(engineerID string) int

// SelectBest scores every candidate and returns the highest scorer above minScore.
// Candidates are visited in the given order and only a strictly higher total
// replaces the current best, so ties go to the earliest candidate.
func SelectBest(task Task, candidates []Candidate, load LoadFunc, ceiling int, minScore float64) (Candidate, Breakdown, bool) {
	var (
		best      Candidate
		bestScore Breakdown
		found     bool
	)
	for _, c := range candidates {
		b := Score(task, c, load(c.ID), ceiling)
		if !found || b.Total > bestScore.Total {
			best, bestScore, found = c, b, true
		}
	}
	if !found || bestScore.Total <= minScore {
		return Candidate{}, bestScore, false
	}
	return best, bestScore, true
}

// IsOverdue reports whether the task was due before the reference date.
func IsOverdue(task Task, referenceDate time.Time) bool {
	return task.DueDate.Before(referenceDate)
}

// SortForRun orders tasks overdue first, then by descending priority weight,
// then by ascending due date. IDs break remaining ties.
func SortForRun(tasks []Task, referenceDate time.Time) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		ao, bo := IsOverdue(a, referenceDate), IsOverdue(b, referenceDate)
		if ao != bo {
			return ao
		}
		if pa, pb := PriorityWeight(a.Priority), PriorityWeight(b.Priority); pa != pb {
			return pa > pb
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
}

// Reason renders the human-readable note stored on an auto-assigned task.
func Reason(b Breakdown, overdue bool) string {
	note := fmt.Sprintf("Auto-assigned: skill match %.0f%%, workload capacity %.0f%%",
		b.SkillScore*100, b.WorkloadScore*100)
	if overdue {
		note += ", overdue"
	}
	return note
}
