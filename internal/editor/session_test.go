package editor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"tajawal-cli/internal/model"
	"tajawal-cli/internal/store"
)

func seqIDs() store.IDGen {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func newStore() *store.Itineraries {
	return store.New(store.NewMemorySlots(), store.WithIDGen(seqIDs()))
}

func plan(ids ...string) []model.Day {
	acts := make([]model.Activity, 0, len(ids))
	for _, id := range ids {
		acts = append(acts, model.Activity{ID: id, Title: "Title " + id})
	}
	return []model.Day{
		{Day: 1, Activities: acts},
		{Day: 2, Activities: []model.Activity{{ID: "z", Title: "Other day"}}},
	}
}

func ids(d model.Day) []string {
	out := make([]string, 0, len(d.Activities))
	for _, a := range d.Activities {
		out = append(out, a.ID)
	}
	return out
}

func openPlan(t *testing.T, ids ...string) *Session {
	t.Helper()
	return Open(context.Background(), newStore(), "trip", plan(ids...))
}

// flakyStore fails saves while broken is set.
type flakyStore struct {
	*store.Itineraries
	broken bool
}

var errUnavailable = errors.New("storage unavailable")

func (f *flakyStore) Save(ctx context.Context, tripID string, days []model.Day) error {
	if f.broken {
		return errUnavailable
	}
	return f.Itineraries.Save(ctx, tripID, days)
}

func TestOpen_InitialState(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b")
	if s.Selected() != 0 || s.HistoryLen() != 0 || s.Dirty() || s.Closed() {
		t.Fatalf("unexpected initial state: selected=%d history=%d dirty=%v closed=%v",
			s.Selected(), s.HistoryLen(), s.Dirty(), s.Closed())
	}
	if s.TripID() != "trip" {
		t.Fatalf("unexpected trip id %q", s.TripID())
	}
	if got := ids(s.Days()[0]); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected activities %v", got)
	}
}

func TestOpen_UsesPersistedPlanOverFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore()
	if err := st.Save(ctx, "trip", plan("saved")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s := Open(ctx, st, "trip", model.DemoPlan())
	if got := ids(s.Days()[0]); !reflect.DeepEqual(got, []string{"saved"}) {
		t.Fatalf("expected persisted plan, got %v", got)
	}
}

func TestReorderActivities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		want     []string
		applied  bool
	}{
		{name: "forward", from: 0, to: 2, want: []string{"b", "c", "a", "d"}, applied: true},
		{name: "backward", from: 3, to: 1, want: []string{"a", "d", "b", "c"}, applied: true},
		{name: "to end", from: 0, to: 3, want: []string{"b", "c", "d", "a"}, applied: true},
		{name: "same position", from: 1, to: 1, want: []string{"a", "b", "c", "d"}},
		{name: "from out of range", from: 4, to: 0, want: []string{"a", "b", "c", "d"}},
		{name: "negative to", from: 0, to: -1, want: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := openPlan(t, "a", "b", "c", "d")
			if got := s.ReorderActivities(0, tt.from, tt.to); got != tt.applied {
				t.Fatalf("applied = %v, want %v", got, tt.applied)
			}
			if got := ids(s.Days()[0]); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
			wantHistory := 0
			if tt.applied {
				wantHistory = 1
			}
			if s.HistoryLen() != wantHistory || s.Dirty() != tt.applied {
				t.Fatalf("history=%d dirty=%v, want %d/%v", s.HistoryLen(), s.Dirty(), wantHistory, tt.applied)
			}
		})
	}
}

func TestReorderActivities_OtherDaysUntouched(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b")
	s.ReorderActivities(0, 0, 1)
	if got := ids(s.Days()[1]); !reflect.DeepEqual(got, []string{"z"}) {
		t.Fatalf("day 2 changed: %v", got)
	}
	if s.ReorderActivities(5, 0, 1) {
		t.Fatalf("expected out-of-range day to be a no-op")
	}
}

func TestMoveActivity(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b", "c", "d")
	if !s.MoveActivity(0, "a", "c") {
		t.Fatalf("expected move applied")
	}
	if got := ids(s.Days()[0]); !reflect.DeepEqual(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("order = %v", got)
	}
	for _, tc := range [][2]string{{"a", "a"}, {"a", "missing"}, {"missing", "a"}} {
		if s.MoveActivity(0, tc[0], tc[1]) {
			t.Fatalf("expected no-op for %v", tc)
		}
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("no-op moves must not push history, got %d", s.HistoryLen())
	}
}

func TestUndo_InvertsLastMutation(t *testing.T) {
	t.Parallel()

	ops := map[string]func(s *Session) bool{
		"reorder": func(s *Session) bool { return s.ReorderActivities(0, 0, 2) },
		"edit": func(s *Session) bool {
			return s.EditActivity(0, "b", model.Patch{Title: model.String("Renamed"), Cost: model.Float(3)})
		},
		"delete": func(s *Session) bool { return s.DeleteActivity(0, "c") },
		"add": func(s *Session) bool {
			_, ok := s.AddActivity(1, model.Draft{Title: "New"})
			return ok
		},
		"toggle": func(s *Session) bool { return s.ToggleDone(0, "a") },
	}

	for name, op := range ops {
		name, op := name, op
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := openPlan(t, "a", "b", "c", "d")
			before := s.Days()
			if !op(s) {
				t.Fatalf("expected op applied")
			}
			if reflect.DeepEqual(before, s.Days()) {
				t.Fatalf("op did not change the plan")
			}
			if !s.Undo() {
				t.Fatalf("expected undo applied")
			}
			if !reflect.DeepEqual(before, s.Days()) {
				t.Fatalf("undo did not restore:\nwant: %#v\ngot:  %#v", before, s.Days())
			}
			if !s.Dirty() {
				t.Fatalf("undo must leave the session dirty")
			}
			if s.HistoryLen() != 0 {
				t.Fatalf("expected history popped, got %d", s.HistoryLen())
			}
		})
	}
}

func TestUndo_EmptyHistoryIsNoop(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a")
	if s.Undo() {
		t.Fatalf("expected undo no-op")
	}
	if s.Dirty() {
		t.Fatalf("no-op undo must not dirty the session")
	}
}

func TestHistory_IsBounded(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b")
	for i := 0; i < 35; i++ {
		if !s.ReorderActivities(0, 0, 1) {
			t.Fatalf("op %d not applied", i)
		}
	}
	if s.HistoryLen() != MaxHistory {
		t.Fatalf("history = %d, want %d", s.HistoryLen(), MaxHistory)
	}
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != MaxHistory {
		t.Fatalf("undid %d, want %d", undone, MaxHistory)
	}
	// 35 swaps minus 30 undos leaves 5 swaps applied: odd, so swapped.
	if got := ids(s.Days()[0]); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected order after undo chain: %v", got)
	}
}

func TestSnapshots_DoNotAlias(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b")
	s.EditActivity(0, "a", model.Patch{Cost: model.Float(10)})
	s.EditActivity(0, "a", model.Patch{Cost: model.Float(20)})
	s.Undo()
	if c := s.Days()[0].Activities[0].Cost; c == nil || *c != 10 {
		t.Fatalf("expected cost 10 after undo, got %v", c)
	}

	days := s.Days()
	days[0].Activities[0].Title = "mutated outside"
	if s.Days()[0].Activities[0].Title == "mutated outside" {
		t.Fatalf("Days must return a copy")
	}
}

func TestEditActivity(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a")
	if s.EditActivity(0, "a", model.Patch{Title: model.String("   ")}) {
		t.Fatalf("blank title must be rejected")
	}
	if s.EditActivity(0, "missing", model.Patch{Title: model.String("x")}) {
		t.Fatalf("missing activity must be a no-op")
	}
	if s.EditActivity(0, "a", model.Patch{}) {
		t.Fatalf("empty patch must be a no-op")
	}
	if s.EditActivity(0, "a", model.Patch{Cost: model.Float(-1)}) {
		t.Fatalf("negative cost must be rejected")
	}
	if s.HistoryLen() != 0 || s.Dirty() {
		t.Fatalf("rejected edits must not touch history")
	}

	if !s.EditActivity(0, "a", model.Patch{Title: model.String(" Museum "), Location: model.String("Centre"), Cost: model.Float(0)}) {
		t.Fatalf("expected edit applied")
	}
	a := s.Days()[0].Activities[0]
	if a.Title != "Museum" || a.Location != "Centre" || !a.HasCost() || a.CostOrZero() != 0 {
		t.Fatalf("unexpected activity %#v", a)
	}

	if !s.EditActivity(0, "a", model.Patch{ClearCost: true}) {
		t.Fatalf("expected clear applied")
	}
	if s.Days()[0].Activities[0].HasCost() {
		t.Fatalf("expected cost cleared")
	}
}

func TestDeleteActivity(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a", "b", "c")
	if !s.DeleteActivity(0, "b") {
		t.Fatalf("expected delete applied")
	}
	if got := ids(s.Days()[0]); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if s.DeleteActivity(0, "b") || s.DeleteActivity(9, "a") {
		t.Fatalf("expected no-op deletes")
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("history = %d, want 1", s.HistoryLen())
	}
}

func TestAddActivity(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a")
	if _, ok := s.AddActivity(0, model.Draft{Title: "  "}); ok {
		t.Fatalf("blank title must be rejected")
	}
	if _, ok := s.AddActivity(3, model.Draft{Title: "x"}); ok {
		t.Fatalf("out-of-range day must be rejected")
	}
	if s.HistoryLen() != 0 {
		t.Fatalf("rejected adds must not touch history")
	}

	id, ok := s.AddActivity(0, model.Draft{Title: " Dinner ", Time: " 19:00 ", Location: "  ", Cost: "12.5", Notes: " book "})
	if !ok {
		t.Fatalf("expected add applied")
	}
	acts := s.Days()[0].Activities
	got := acts[len(acts)-1]
	want := model.Activity{ID: id, Title: "Dinner", Time: "19:00", Cost: model.Float(12.5), Notes: "book"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("added activity mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
	if id == "" || id == "a" {
		t.Fatalf("expected fresh id, got %q", id)
	}
}

func TestParseCost(t *testing.T) {
	t.Parallel()

	tests := map[string]*float64{
		"":      nil,
		"  ":    nil,
		"abc":   nil,
		"-3":    nil,
		"NaN":   nil,
		"Inf":   nil,
		"0":     model.Float(0),
		" 7.25": model.Float(7.25),
	}
	for in, want := range tests {
		if got := ParseCost(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseCost(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSelectDay(t *testing.T) {
	t.Parallel()

	s := openPlan(t, "a")
	if !s.SelectDay(1) || s.Selected() != 1 {
		t.Fatalf("expected day 1 selected")
	}
	if s.SelectDay(2) || s.SelectDay(-1) {
		t.Fatalf("expected out-of-range selection ignored")
	}
	if s.Selected() != 1 || s.HistoryLen() != 0 || s.Dirty() {
		t.Fatalf("selection must not be a mutation")
	}
}

func TestSelectDay_EmptyPlan(t *testing.T) {
	t.Parallel()

	s := Open(context.Background(), newStore(), "empty", nil)
	if s.Selected() != 0 || s.SelectDay(0) {
		t.Fatalf("expected selection pinned at 0 for an empty plan")
	}
	if _, ok := s.AddActivity(0, model.Draft{Title: "x"}); ok {
		t.Fatalf("expected add on empty plan to be a no-op")
	}
}

func TestSave_SuccessClearsDirtyKeepsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore()
	s := Open(ctx, st, "trip", plan("a", "b"))
	s.ReorderActivities(0, 0, 1)

	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() || s.HistoryLen() != 1 {
		t.Fatalf("dirty=%v history=%d after save", s.Dirty(), s.HistoryLen())
	}
	got, _ := st.Load(ctx, "trip")
	if !reflect.DeepEqual(got, s.Days()) {
		t.Fatalf("persisted plan differs from session plan")
	}
}

func TestSave_FailureKeepsDirty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := &flakyStore{Itineraries: newStore()}
	s := Open(ctx, st, "trip", plan("a", "b"))
	s.DeleteActivity(0, "a")

	st.broken = true
	if err := s.Save(ctx); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("failed save must keep the session dirty")
	}

	st.broken = false
	if err := s.Save(ctx); err != nil {
		t.Fatalf("retry Save: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("successful retry must clear dirty")
	}
}

func TestCancel_ClosesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore()
	s := Open(ctx, st, "trip", plan("a", "b"))
	s.DeleteActivity(0, "a")
	s.Cancel()

	if !s.Closed() || s.Dirty() || s.HistoryLen() != 0 || len(s.Days()) != 0 {
		t.Fatalf("unexpected state after cancel")
	}
	if s.ToggleDone(0, "b") || s.Undo() {
		t.Fatalf("mutations after cancel must be no-ops")
	}
	if err := s.Save(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	got, _ := st.Load(ctx, "trip")
	if gotIDs := ids(got[0]); !reflect.DeepEqual(gotIDs, []string{"a", "b"}) {
		t.Fatalf("cancel must not persist edits, stored %v", gotIDs)
	}
}

func TestUndo_ClampsSelection(t *testing.T) {
	t.Parallel()

	// No mutation adds days, so seed a one-day snapshot directly.
	s := openPlan(t, "a")
	s.SelectDay(1)
	s.history = append(s.history, []model.Day{{Day: 1, Activities: []model.Activity{}}})
	if !s.Undo() {
		t.Fatalf("expected undo applied")
	}
	if s.Selected() != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", s.Selected())
	}
}
