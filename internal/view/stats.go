package view

import "github.com/idilsaglam/techtrack/internal/model"

// Stats aggregates a collection.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`
	Progress   int `json:"progress"` // percent completed, 0..100
	NotesCount int `json:"notesCount"`
}

// Compute counts statuses and non-blank notes. Progress is
// round(100*completed/total), and 0 for an empty collection.
func Compute(items []model.TrackedItem) Stats {
	var s Stats
	s.Total = len(items)
	for _, it := range items {
		switch it.Status {
		case model.Completed:
			s.Completed++
		case model.InProgress:
			s.InProgress++
		case model.NotStarted:
			s.NotStarted++
		}
		if it.HasNotes() {
			s.NotesCount++
		}
	}
	if s.Total > 0 {
		// integer round-half-up of 100*c/t
		s.Progress = (200*s.Completed + s.Total) / (2 * s.Total)
	}
	return s
}

// Count returns the number of items in status st.
func (s Stats) Count(st model.Status) int {
	switch st {
	case model.Completed:
		return s.Completed
	case model.InProgress:
		return s.InProgress
	case model.NotStarted:
		return s.NotStarted
	}
	return 0
}

// MostCommon is the status with the highest count. Ties go to the later
// status in the order completed, in-progress, not-started.
func (s Stats) MostCommon() model.Status {
	order := []model.Status{model.Completed, model.InProgress, model.NotStarted}
	best := order[0]
	for _, st := range order[1:] {
		if s.Count(best) <= s.Count(st) {
			best = st
		}
	}
	return best
}

// Remaining is how many items are not completed yet.
func (s Stats) Remaining() int { return s.NotStarted + s.InProgress }

// Available is how many items a random pick can choose from.
func (s Stats) Available() int { return s.NotStarted }

// AllCompleted reports whether every item is completed.
func (s Stats) AllCompleted() bool { return s.Total > 0 && s.Completed == s.Total }
