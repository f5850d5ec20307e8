// Package workload tracks how many tasks each engineer holds during an optimizer run.
package workload

// DefaultCeiling is the maximum number of tasks an engineer may hold in one run.
const DefaultCeiling = 8

// Tracker holds per-engineer load for a single optimizer run.
// It is not safe for concurrent use; the optimizer mutates it only in its
// sequential commit step.
type Tracker struct {
	ceiling  int
	initial  map[string]int
	load     map[string]int
	assigned map[string]int
}

// NewTracker seeds a tracker from the pre-run load of each engineer.
// A non-positive ceiling falls back to DefaultCeiling.
func NewTracker(initial map[string]int, ceiling int) *Tracker {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	t := &Tracker{
		ceiling:  ceiling,
		initial:  make(map[string]int, len(initial)),
		load:     make(map[string]int, len(initial)),
		assigned: make(map[string]int),
	}
	for id, n := range initial {
		t.initial[id] = n
		t.load[id] = n
	}
	return t
}

// Ceiling returns the capacity ceiling.
func (t *Tracker) Ceiling() int {
	return t.ceiling
}

// CurrentLoad returns the engineer's load including assignments made this run.
func (t *Tracker) CurrentLoad(engineerID string) int {
	return t.load[engineerID]
}

// InitialLoad returns the engineer's load before the run started.
func (t *Tracker) InitialLoad(engineerID string) int {
	return t.initial[engineerID]
}

// HasCapacity reports whether the engineer is below the ceiling.
func (t *Tracker) HasCapacity(engineerID string) bool {
	return t.load[engineerID] < t.ceiling
}

// Increment records one more assignment for the engineer.
func (t *Tracker) Increment(engineerID string) {
	t.load[engineerID]++
	t.assigned[engineerID]++
}

// Assigned returns how many tasks the engineer received this run.
func (t *Tracker) Assigned(engineerID string) int {
	return t.assigned[engineerID]
}

// AssignedCounts returns a copy of this run's per-engineer assignment counts.
func (t *Tracker) AssignedCounts() map[string]int {
	out := make(map[string]int, len(t.assigned))
	for id, n := range t.assigned {
		out[id] = n
	}
	return out
}
