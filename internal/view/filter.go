package view

import (
	"strings"

	"tajawal-cli/internal/model"
)

// Filter narrows a plan for display. The zero value keeps everything.
type Filter struct {
	// Query is matched case-insensitively against title, location and notes.
	Query string `json:"query,omitempty"`
	// OnlyPending drops completed activities.
	OnlyPending bool `json:"onlyPending,omitempty"`
	// Day keeps only days with this day number. 0 means all days.
	Day int `json:"day,omitempty"`
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && !f.OnlyPending && f.Day == 0
}

// Match reports whether a passes the activity-level criteria.
func (f Filter) Match(a model.Activity) bool {
	if f.OnlyPending && a.Done {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{a.Title, a.Location, a.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns a filtered copy of days. Days selected by Day are kept even when none of
// their activities match, so the caller can still show the day header.
func (f Filter) Apply(days []model.Day) []model.Day {
	out := make([]model.Day, 0, len(days))
	for _, d := range days {
		if f.Day != 0 && d.Day != f.Day {
			continue
		}
		acts := make([]model.Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			if f.Match(a) {
				acts = append(acts, model.CloneActivity(a))
			}
		}
		out = append(out, model.Day{Day: d.Day, Activities: acts})
	}
	return out
}

// Count returns the number of activities across days.
func Count(days []model.Day) int {
	n := 0
	for _, d := range days {
		n += len(d.Activities)
	}
	return n
}

// Pending returns the number of activities not marked done.
func Pending(days []model.Day) int {
	n := 0
	for _, d := range days {
		for _, a := range d.Activities {
			if !a.Done {
				n++
			}
		}
	}
	return n
}
