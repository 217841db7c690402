package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"tajawal-cli/internal/model"
)

// MaxHistory bounds the undo stack. The oldest snapshot is evicted first.
const MaxHistory = 30

// ErrClosed is returned by Save after the session was cancelled.
var ErrClosed = errors.New("editor session closed")

// Store is the persistence a session needs. *store.Itineraries satisfies it.
type Store interface {
	Ensure(ctx context.Context, tripID string, fallback []model.Day) []model.Day
	Save(ctx context.Context, tripID string, days []model.Day) error
	NewID(days []model.Day) string
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is the working copy of one trip's plan.
//
// A session is driven from a single goroutine (the CLI command or the TUI event loop); it does
// no locking. Every applied mutation pushes a snapshot of the previous plan and marks the
// session dirty. Rejected input leaves both the plan and the history untouched.
type Session struct {
	store  Store
	tripID string
	log    *slog.Logger

	days     []model.Day
	selected int
	history  [][]model.Day
	dirty    bool
	closed   bool
}

// Open starts a session on the persisted plan for tripID, materialising fallback if none exists.
func Open(ctx context.Context, st Store, tripID string, fallback []model.Day, opts ...Option) *Session {
	s := &Session{
		store:  st,
		tripID: tripID,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.days = st.Ensure(ctx, tripID, fallback)
	if s.days == nil {
		s.days = []model.Day{}
	}
	return s
}

func (s *Session) TripID() string { return s.tripID }

// Days returns a copy of the current plan.
func (s *Session) Days() []model.Day {
	return model.CloneDays(s.days)
}

// Selected returns the selected day index. It is 0 for an empty plan.
func (s *Session) Selected() int { return s.selected }

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) HistoryLen() int { return len(s.history) }

func (s *Session) Closed() bool { return s.closed }

// SelectDay changes the selected day. Out-of-range indexes are ignored. Selection is not a
// mutation and never touches history.
func (s *Session) SelectDay(i int) bool {
	if s.closed || i < 0 || i >= len(s.days) {
		return false
	}
	s.selected = i
	return true
}

// ReorderActivities moves the activity at from to position to within one day, shifting the
// ones in between.
func (s *Session) ReorderActivities(dayIndex, from, to int) bool {
	day, ok := s.day(dayIndex)
	if !ok || from == to {
		return false
	}
	n := len(day.Activities)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	s.push()
	acts := s.days[dayIndex].Activities
	moved := acts[from]
	if from < to {
		copy(acts[from:to], acts[from+1:to+1])
	} else {
		copy(acts[to+1:from+1], acts[to:from])
	}
	acts[to] = moved
	return true
}

// MoveActivity drops activityID onto the position currently held by overID.
func (s *Session) MoveActivity(dayIndex int, activityID, overID string) bool {
	day, ok := s.day(dayIndex)
	if !ok {
		return false
	}
	from := day.FindActivity(activityID)
	to := day.FindActivity(overID)
	if from < 0 || to < 0 {
		return false
	}
	return s.ReorderActivities(dayIndex, from, to)
}

// EditActivity merges patch into one activity. A patch that would leave the title blank is
// rejected.
func (s *Session) EditActivity(dayIndex int, activityID string, patch model.Patch) bool {
	day, ok := s.day(dayIndex)
	if !ok || patch.Empty() {
		return false
	}
	pos := day.FindActivity(activityID)
	if pos < 0 {
		return false
	}
	next := patch.Apply(day.Activities[pos])
	if next.Title == "" {
		return false
	}
	if next.Cost != nil && !validCost(*next.Cost) {
		return false
	}
	s.push()
	s.days[dayIndex].Activities[pos] = next
	return true
}

func (s *Session) DeleteActivity(dayIndex int, activityID string) bool {
	day, ok := s.day(dayIndex)
	if !ok {
		return false
	}
	pos := day.FindActivity(activityID)
	if pos < 0 {
		return false
	}
	s.push()
	acts := s.days[dayIndex].Activities
	s.days[dayIndex].Activities = append(acts[:pos:pos], acts[pos+1:]...)
	return true
}

// AddActivity appends a new activity built from draft to the end of a day and returns its id.
func (s *Session) AddActivity(dayIndex int, draft model.Draft) (string, bool) {
	if _, ok := s.day(dayIndex); !ok {
		return "", false
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return "", false
	}
	a := model.Activity{
		ID:       s.store.NewID(s.days),
		Title:    title,
		Time:     strings.TrimSpace(draft.Time),
		Location: strings.TrimSpace(draft.Location),
		Notes:    strings.TrimSpace(draft.Notes),
		Cost:     ParseCost(draft.Cost),
	}
	s.push()
	s.days[dayIndex].Activities = append(s.days[dayIndex].Activities, a)
	return a.ID, true
}

// ToggleDone flips the completion flag of one activity.
func (s *Session) ToggleDone(dayIndex int, activityID string) bool {
	day, ok := s.day(dayIndex)
	if !ok {
		return false
	}
	pos := day.FindActivity(activityID)
	if pos < 0 {
		return false
	}
	s.push()
	a := &s.days[dayIndex].Activities[pos]
	a.Done = !a.Done
	return true
}

// Undo restores the plan as it was before the last applied mutation.
func (s *Session) Undo() bool {
	if s.closed || len(s.history) == 0 {
		return false
	}
	last := len(s.history) - 1
	s.days = s.history[last]
	s.history[last] = nil
	s.history = s.history[:last]
	s.dirty = true
	s.clampSelection()
	return true
}

// Save persists the plan. The session stays dirty when the store fails; history is kept
// either way.
func (s *Session) Save(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.store.Save(ctx, s.tripID, s.days); err != nil {
		s.log.Warn("save failed; keeping unsaved changes", "trip", s.tripID, "err", err)
		return fmt.Errorf("save %s: %w", s.tripID, err)
	}
	s.dirty = false
	s.log.Debug("saved itinerary", "trip", s.tripID, "days", len(s.days))
	return nil
}

// Cancel discards the in-memory plan and closes the session.
func (s *Session) Cancel() {
	if s.closed {
		return
	}
	s.closed = true
	s.days = []model.Day{}
	s.history = nil
	s.selected = 0
	s.dirty = false
}

// ParseCost converts typed cost input. Anything that is not a finite non-negative number
// yields no cost.
func ParseCost(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validCost(v) {
		return nil
	}
	return model.Float(v)
}

func validCost(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (s *Session) day(i int) (model.Day, bool) {
	if s.closed || i < 0 || i >= len(s.days) {
		return model.Day{}, false
	}
	return s.days[i], true
}

func (s *Session) push() {
	s.history = append(s.history, model.CloneDays(s.days))
	if over := len(s.history) - MaxHistory; over > 0 {
		for i := 0; i < over; i++ {
			s.history[i] = nil
		}
		s.history = append(s.history[:0], s.history[over:]...)
	}
	s.dirty = true
}

func (s *Session) clampSelection() {
	if s.selected >= len(s.days) {
		s.selected = len(s.days) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}
