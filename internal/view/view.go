// Package view derives what is shown from a collection snapshot plus the
// ephemeral filter and search state. Nothing here is persisted.
package view

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/techtrack/internal/model"
)

// Filter selects items by status. FilterAll keeps everything.
type Filter string

const FilterAll Filter = "all"

// Filters lists every filter in the order the UI cycles through them.
var Filters = []Filter{FilterAll, Filter(model.NotStarted), Filter(model.InProgress), Filter(model.Completed)}

// ParseFilter accepts "all" or any status form model.ParseStatus accepts.
func ParseFilter(s string) (Filter, error) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), string(FilterAll)) {
		return FilterAll, nil
	}
	st, err := model.ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("filter: %w", err)
	}
	return Filter(st), nil
}

// Next returns the filter after f in Filters.
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f Filter) Label() string {
	if f == FilterAll {
		return "All"
	}
	return model.Status(f).Label()
}

// Match reports whether it passes the status filter.
func (f Filter) Match(it model.TrackedItem) bool {
	return f == FilterAll || f == "" || string(it.Status) == string(f)
}

// ByStatus keeps the items matching f, preserving order.
func ByStatus(items []model.TrackedItem, f Filter) []model.TrackedItem {
	out := make([]model.TrackedItem, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether query is a case-insensitive substring of the
// title, description or notes. A blank query matches everything.
func Matches(it model.TrackedItem, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(it.Notes), q)
}

// Search keeps the items matching query, preserving order.
func Search(items []model.TrackedItem, query string) []model.TrackedItem {
	out := make([]model.TrackedItem, 0, len(items))
	for _, it := range items {
		if Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// Apply runs the status filter and then the search.
func Apply(items []model.TrackedItem, f Filter, query string) []model.TrackedItem {
	return Search(ByStatus(items, f), query)
}
