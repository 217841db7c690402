package model

import (
	"fmt"
	"strings"
)

// Activity is one schedulable item within a day. Order inside Day.Activities is the schedule order.
type Activity struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Time     string   `json:"time,omitempty"`
	Location string   `json:"location,omitempty"`
	Cost     *float64 `json:"cost,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Done     bool     `json:"done,omitempty"`

	// Coordinates are only consumed by map rendering.
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// Day is one numbered day of a trip. Day is 1-based.
type Day struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
}

// HasCost reports whether the activity carries an explicit cost (zero included).
func (a Activity) HasCost() bool {
	return a.Cost != nil
}

// CostOrZero returns the cost for summation purposes.
func (a Activity) CostOrZero() float64 {
	if a.Cost == nil {
		return 0
	}
	return *a.Cost
}

// Draft is the add-activity form. Cost is kept in string form, as typed.
type Draft struct {
	Title    string `json:"title"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	Cost     string `json:"cost,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Patch holds field overrides for an existing activity. Nil fields are left untouched.
// ClearCost removes an explicit cost; it wins over Cost.
type Patch struct {
	Title     *string  `json:"title,omitempty"`
	Time      *string  `json:"time,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	ClearCost bool     `json:"clearCost,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	Done      *bool    `json:"done,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// Empty reports whether applying the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Time == nil && p.Location == nil && p.Cost == nil && !p.ClearCost &&
		p.Notes == nil && p.Done == nil && p.Lat == nil && p.Lng == nil
}

// Apply returns a copy of a with the patch merged in.
func (p Patch) Apply(a Activity) Activity {
	out := CloneActivity(a)
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Time != nil {
		out.Time = strings.TrimSpace(*p.Time)
	}
	if p.Location != nil {
		out.Location = strings.TrimSpace(*p.Location)
	}
	if p.Notes != nil {
		out.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.ClearCost {
		out.Cost = nil
	} else if p.Cost != nil {
		out.Cost = Float(*p.Cost)
	}
	if p.Done != nil {
		out.Done = *p.Done
	}
	if p.Lat != nil {
		out.Lat = Float(*p.Lat)
	}
	if p.Lng != nil {
		out.Lng = Float(*p.Lng)
	}
	return out
}

// Float returns a pointer to a fresh copy of v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

// CloneActivity copies a so that no pointer field is shared with the original.
func CloneActivity(a Activity) Activity {
	a.Cost = cloneFloat(a.Cost)
	a.Lat = cloneFloat(a.Lat)
	a.Lng = cloneFloat(a.Lng)
	return a
}

// CloneDays returns a deep copy of days. Mutating the copy never affects the input.
func CloneDays(days []Day) []Day {
	if days == nil {
		return nil
	}
	out := make([]Day, len(days))
	for i, d := range days {
		out[i].Day = d.Day
		if d.Activities == nil {
			out[i].Activities = []Activity{}
			continue
		}
		acts := make([]Activity, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = CloneActivity(a)
		}
		out[i].Activities = acts
	}
	return out
}

// FindActivity returns the position of the activity with id in d, or -1.
func (d Day) FindActivity(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range d.Activities {
		if d.Activities[i].ID == id {
			return i
		}
	}
	return -1
}

// ValidateDays reports the first day whose number is not positive or repeats an earlier one.
func ValidateDays(days []Day) error {
	seen := make(map[int]bool, len(days))
	for i, d := range days {
		if d.Day < 1 {
			return fmt.Errorf("day at position %d has number %d", i+1, d.Day)
		}
		if seen[d.Day] {
			return fmt.Errorf("day %d appears more than once", d.Day)
		}
		seen[d.Day] = true
	}
	return nil
}

// DayIndex returns the position of the day numbered number, or -1.
func DayIndex(days []Day, number int) int {
	for i := range days {
		if days[i].Day == number {
			return i
		}
	}
	return -1
}
