package store

import (
	"strings"
	"testing"

	"tajawal-cli/internal/model"
)

func TestNewActivityID_Format(t *testing.T) {
	t.Parallel()

	id := NewActivityID()
	if !strings.HasPrefix(id, "act-") {
		t.Fatalf("expected act prefix, got %q", id)
	}
	if got, want := len(strings.TrimPrefix(id, "act-")), 36; got != want {
		t.Fatalf("expected uuid suffix len %d, got %d (%q)", want, got, id)
	}
	if NewActivityID() == id {
		t.Fatalf("expected distinct ids")
	}
}

func TestNewID_SkipsTakenIDs(t *testing.T) {
	t.Parallel()

	days := []model.Day{{Day: 1, Activities: []model.Activity{{ID: "gen-1"}, {ID: "gen-2"}}}}
	if got := NewID(seqIDs(), days); got != "gen-3" {
		t.Fatalf("expected first free id gen-3, got %q", got)
	}
}

func TestNewID_StuckGeneratorFallsBack(t *testing.T) {
	t.Parallel()

	days := []model.Day{{Day: 1, Activities: []model.Activity{{ID: "same"}}}}
	got := NewID(func() string { return "same" }, days)
	if got == "same" || !strings.HasPrefix(got, "act-") {
		t.Fatalf("expected fallback to random ids, got %q", got)
	}
}

func TestBackfillIDs_TrimsAndReportsChanges(t *testing.T) {
	t.Parallel()

	days := []model.Day{{Day: 1, Activities: []model.Activity{{ID: " a "}, {ID: "b"}}}}
	if !BackfillIDs(days, seqIDs()) {
		t.Fatalf("expected trimming to count as a change")
	}
	if days[0].Activities[0].ID != "a" {
		t.Fatalf("expected trimmed id, got %q", days[0].Activities[0].ID)
	}
	if BackfillIDs(days, seqIDs()) {
		t.Fatalf("second backfill should be a no-op")
	}
}

func TestBackfillIDs_SameIDAcrossDaysIsKept(t *testing.T) {
	t.Parallel()

	days := []model.Day{
		{Day: 1, Activities: []model.Activity{{ID: "x"}}},
		{Day: 2, Activities: []model.Activity{{ID: "x"}}},
	}
	if BackfillIDs(days, seqIDs()) {
		t.Fatalf("ids only need to be unique within a day")
	}
}
