package store

import (
	"strings"

	"tajawal-cli/internal/model"

	"github.com/google/uuid"
)

const activityIDPrefix = "act"

// NewActivityID returns act-<uuid>. UUIDv7 mixes a millisecond clock reading with random bits,
// so ids generated in one session are ordered by creation and practically never collide.
func NewActivityID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return activityIDPrefix + "-" + id.String()
}

// IDGen produces activity ids. Tests swap it for a deterministic sequence.
type IDGen func() string

func idExists(days []model.Day, id string) bool {
	for _, d := range days {
		if d.FindActivity(id) >= 0 {
			return true
		}
	}
	return false
}

// uniqueID draws from gen until the id is not already used anywhere in days.
func uniqueID(gen IDGen, days []model.Day) string {
	if gen == nil {
		gen = NewActivityID
	}
	for i := 0; ; i++ {
		id := strings.TrimSpace(gen())
		if id != "" && !idExists(days, id) {
			return id
		}
		if i >= 8 {
			// A misbehaving generator must not stall the caller.
			gen = NewActivityID
		}
	}
}

// BackfillIDs assigns fresh ids in place to activities with a blank id or an id repeated
// earlier in the same day. It reports whether anything changed.
func BackfillIDs(days []model.Day, gen IDGen) bool {
	changed := false
	for i := range days {
		seen := map[string]bool{}
		for j := range days[i].Activities {
			a := &days[i].Activities[j]
			id := strings.TrimSpace(a.ID)
			if id == "" || seen[id] {
				a.ID = uniqueID(gen, days)
				changed = true
			} else if id != a.ID {
				a.ID = id
				changed = true
			}
			seen[a.ID] = true
		}
		if days[i].Activities == nil {
			days[i].Activities = []model.Activity{}
		}
	}
	return changed
}

// NewID returns an id that is unused in days.
func NewID(gen IDGen, days []model.Day) string {
	return uniqueID(gen, days)
}
