package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tajawal-cli/internal/model"
)

// DefaultKeyPrefix namespaces itinerary slots. Trip deletion must use the same scheme.
const DefaultKeyPrefix = "tajawal:itinerary:"

// Itineraries maps trip ids to persisted day plans.
//
// Reads are forgiving: missing, unreadable or corrupt data is reported as "not found" so callers
// fall back to a default plan. Writes are best-effort: failures are logged and returned as values,
// never panics, so an editing session survives an unavailable backend.
type Itineraries struct {
	slots  Slots
	prefix string
	newID  IDGen
	log    *slog.Logger
}

type Option func(*Itineraries)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Itineraries) {
		if strings.TrimSpace(prefix) != "" {
			s.prefix = prefix
		}
	}
}

// WithIDGen overrides NewActivityID.
func WithIDGen(gen IDGen) Option {
	return func(s *Itineraries) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Itineraries) {
		if l != nil {
			s.log = l
		}
	}
}

func New(slots Slots, opts ...Option) *Itineraries {
	s := &Itineraries{
		slots:  slots,
		prefix: DefaultKeyPrefix,
		newID:  NewActivityID,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key for tripID.
func (s *Itineraries) Key(tripID string) string {
	return s.prefix + tripID
}

// Key returns the slot key for tripID under DefaultKeyPrefix.
func Key(tripID string) string {
	return DefaultKeyPrefix + tripID
}

// NewID returns an activity id unused in days.
func (s *Itineraries) NewID(days []model.Day) string {
	return NewID(s.newID, days)
}

// Load returns the saved plan for tripID. ok is false when nothing usable is stored.
// Activities without an id (or repeating one) get fresh ids; Load never writes them back.
func (s *Itineraries) Load(ctx context.Context, tripID string) (days []model.Day, ok bool) {
	days, ok, _ = s.load(ctx, tripID)
	return days, ok
}

// Resolve is Load for callers that hand activity ids out. Backfilled ids are saved, so the
// next process that loads the plan sees the same ids. A failed save is logged only.
func (s *Itineraries) Resolve(ctx context.Context, tripID string) (days []model.Day, ok bool) {
	days, ok, backfilled := s.load(ctx, tripID)
	if ok && backfilled {
		_ = s.Save(ctx, tripID, days)
	}
	return days, ok
}

func (s *Itineraries) load(ctx context.Context, tripID string) (days []model.Day, ok, backfilled bool) {
	raw, err := s.slots.Get(ctx, s.Key(tripID))
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			s.log.Warn("itinerary load failed", "trip", tripID, "err", err)
		}
		return nil, false, false
	}
	days, err = decodeDays(raw)
	if err != nil {
		s.log.Warn("discarding unreadable itinerary", "trip", tripID, "err", err)
		return nil, false, false
	}
	backfilled = BackfillIDs(days, s.newID)
	if backfilled {
		s.log.Debug("backfilled activity ids", "trip", tripID)
	}
	return days, true, backfilled
}

// Save replaces the stored plan for tripID.
func (s *Itineraries) Save(ctx context.Context, tripID string, days []model.Day) error {
	b, err := encodeDays(days)
	if err != nil {
		s.log.Warn("itinerary encode failed", "trip", tripID, "err", err)
		return fmt.Errorf("encode itinerary %s: %w", tripID, err)
	}
	if err := s.slots.Put(ctx, s.Key(tripID), b); err != nil {
		s.log.Warn("itinerary save failed", "trip", tripID, "err", err)
		return fmt.Errorf("save itinerary %s: %w", tripID, err)
	}
	return nil
}

// Ensure returns the stored plan, or persists and returns fallback (with ids assigned) when
// none exists. Once a plan exists, later calls return it regardless of fallback.
func (s *Itineraries) Ensure(ctx context.Context, tripID string, fallback []model.Day) []model.Day {
	if days, ok := s.Resolve(ctx, tripID); ok {
		return days
	}
	days := model.CloneDays(fallback)
	if days == nil {
		days = []model.Day{}
	}
	BackfillIDs(days, s.newID)
	// Failure is already logged; the caller still gets a usable plan.
	_ = s.Save(ctx, tripID, days)
	return days
}

// Delete removes the stored plan for tripID. Deleting a missing plan is not an error.
func (s *Itineraries) Delete(ctx context.Context, tripID string) error {
	if err := s.slots.Delete(ctx, s.Key(tripID)); err != nil {
		return fmt.Errorf("delete itinerary %s: %w", tripID, err)
	}
	return nil
}

// List returns the ids of trips with a stored plan, sorted.
func (s *Itineraries) List(ctx context.Context) ([]string, error) {
	keys, err := s.slots.Keys(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if id := strings.TrimPrefix(k, s.prefix); id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

// ToggleDone flips the completion flag of one activity and persists immediately.
// It reports whether an activity was toggled.
func (s *Itineraries) ToggleDone(ctx context.Context, tripID string, dayIndex int, activityID string) (bool, error) {
	days, ok := s.Load(ctx, tripID)
	if !ok || dayIndex < 0 || dayIndex >= len(days) {
		return false, nil
	}
	pos := days[dayIndex].FindActivity(activityID)
	if pos < 0 {
		return false, nil
	}
	days[dayIndex].Activities[pos].Done = !days[dayIndex].Activities[pos].Done
	if err := s.Save(ctx, tripID, days); err != nil {
		return false, err
	}
	return true, nil
}

func encodeDays(days []model.Day) ([]byte, error) {
	if days == nil {
		days = []model.Day{}
	}
	return json.Marshal(days)
}

func decodeDays(raw []byte) ([]model.Day, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("empty value")
	}
	var days []model.Day
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, err
	}
	if days == nil {
		// JSON null.
		return nil, errors.New("null plan")
	}
	if err := model.ValidateDays(days); err != nil {
		return nil, err
	}
	return days, nil
}
