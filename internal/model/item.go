package model

import (
	"fmt"
	"strings"
)

// NotesLimit is the longest notes text the interfaces accept.
// The store itself does not enforce it.
const NotesLimit = 500

// UncategorizedCategory is used for records saved before categories existed.
const UncategorizedCategory = "uncategorized"

// UntitledTitle replaces a missing title on load.
const UntitledTitle = "Untitled"

// Status is the learning progress of a TrackedItem.
type Status string

const (
	NotStarted Status = "not-started"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

// Statuses lists every status in cycle order.
var Statuses = []Status{NotStarted, InProgress, Completed}

// Next returns the following status in the cycle
// not-started -> in-progress -> completed -> not-started.
// An unknown status advances as if it were not-started.
func (s Status) Next() Status {
	switch s {
	case NotStarted:
		return InProgress
	case InProgress:
		return Completed
	case Completed:
		return NotStarted
	}
	return InProgress
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == NotStarted || s == InProgress || s == Completed
}

// Label is the human readable name.
func (s Status) Label() string {
	switch s {
	case NotStarted:
		return "Not started"
	case InProgress:
		return "In progress"
	case Completed:
		return "Completed"
	}
	return "Unknown"
}

// ParseStatus accepts the wire form ("in-progress") as well as the
// constant-style form ("IN_PROGRESS"), case-insensitively.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "_", "-")
	st := Status(v)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want not-started|in-progress|completed)", s)
	}
	return st, nil
}

// TrackedItem is one technology on the learning list.
type TrackedItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Notes       string `json:"notes"`
	Category    string `json:"category"`
}

// HasNotes reports whether the item carries non-blank notes.
func (it TrackedItem) HasNotes() bool {
	return strings.TrimSpace(it.Notes) != ""
}
