// Package store owns the tracked collection and its durability.
//
// Every mutating operation updates memory and then synchronously writes
// the whole collection back through the Backend (write-through). A Store
// is meant to be driven from a single goroutine.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/techtrack/internal/model"
)

// Store is the single source of truth for the tracked collection.
type Store struct {
	backend Backend
	key     string
	log     *zap.Logger
	now     func() time.Time
	intn    func(n int) int

	items []model.TrackedItem

	subs    map[int]func([]model.TrackedItem)
	nextSub int
}

// Option customizes a Store.
type Option func(*Store)

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load fallbacks and persists.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now (export timestamps).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand overrides the random source used by PickRandomUnstarted.
// intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Store) {
		if intn != nil {
			s.intn = intn
		}
	}
}

// New creates a Store over backend. Call Load before using it.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		log:     zap.NewNop(),
		now:     time.Now,
		intn:    rand.IntN,
		subs:    map[int]func([]model.TrackedItem){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Read decodes and normalizes what is stored under key without writing
// anything back. It returns ErrNotFound when nothing is stored.
func Read(backend Backend, key string) ([]model.TrackedItem, error) {
	raw, err := backend.Get(key)
	if err != nil {
		return nil, err
	}
	res, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return res.items, nil
}

// Load reads the persisted collection, falling back to the default set
// when nothing is stored or the stored document cannot be parsed. It never
// fails: problems are logged and the defaults are used instead.
func (s *Store) Load() {
	raw, err := s.backend.Get(s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Debug("no saved data, seeding defaults", zap.String("key", s.key))
		s.items = model.Defaults()
		s.persistQuietly()
		return
	case err != nil:
		// Keep whatever is on disk untouched; it may be readable later.
		s.log.Error("read stored collection", zap.String("key", s.key), zap.Error(err))
		s.items = model.Defaults()
		return
	}

	res, err := decode(raw)
	if err != nil {
		s.log.Warn("stored collection is malformed, using defaults",
			zap.String("key", s.key), zap.Error(err))
		s.items = model.Defaults()
		s.persistQuietly()
		return
	}
	if res.dropped > 0 {
		s.log.Warn("dropped malformed records", zap.Int("count", res.dropped))
	}
	s.items = res.items
	s.log.Debug("collection loaded", zap.Int("items", len(s.items)), zap.Bool("normalized", res.changed))
	if res.changed {
		s.persistQuietly()
	}
}

// Items returns a copy of the collection in stored order.
func (s *Store) Items() []model.TrackedItem {
	out := make([]model.TrackedItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with id.
func (s *Store) Get(id int) (model.TrackedItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return model.TrackedItem{}, false
}

// CycleStatus advances the status of item id one step along the cycle.
// An unknown id is a silent no-op (ok == false, nothing written).
func (s *Store) CycleStatus(id int) (model.TrackedItem, bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.TrackedItem{}, false, nil
	}
	s.items[i].Status = s.items[i].Status.Next()
	return s.items[i], true, s.persist()
}

// SetNotes replaces the notes of item id. An unknown id is a silent no-op.
func (s *Store) SetNotes(id int, text string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items[i].Notes = text
	return true, s.persist()
}

// MarkAllCompleted sets every item to completed.
func (s *Store) MarkAllCompleted() error {
	return s.setAll(model.Completed)
}

// ResetAll sets every item back to not-started.
func (s *Store) ResetAll() error {
	return s.setAll(model.NotStarted)
}

func (s *Store) setAll(st model.Status) error {
	for i := range s.items {
		s.items[i].Status = st
	}
	return s.persist()
}

// PickRandomUnstarted returns a uniformly random not-started item. It
// does not change anything; ok is false when no item is eligible.
func (s *Store) PickRandomUnstarted() (model.TrackedItem, bool) {
	var pool []model.TrackedItem
	for _, it := range s.items {
		if it.Status == model.NotStarted {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		return model.TrackedItem{}, false
	}
	return pool[s.intn(len(pool))], true
}

// StartRandom picks a random not-started item and advances it to
// in-progress.
func (s *Store) StartRandom() (model.TrackedItem, bool, error) {
	it, ok := s.PickRandomUnstarted()
	if !ok {
		return model.TrackedItem{}, false, nil
	}
	return s.CycleStatus(it.ID)
}

// ExportSnapshot returns the export document for the current collection.
func (s *Store) ExportSnapshot() Snapshot {
	at := s.now().UTC()
	return Snapshot{
		ExportedAt:   at.Format(ExportTimeLayout),
		Technologies: s.Items(),
		at:           at,
	}
}

// Clear erases durable storage and reseeds the default collection.
func (s *Store) Clear() error {
	if err := s.backend.Remove(s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("remove %s: %w", s.key, err)
	}
	s.items = model.Defaults()
	return s.persist()
}

// Subscribe registers fn to be called with the collection after every
// successful write. The returned func removes the subscription.
func (s *Store) Subscribe(fn func([]model.TrackedItem)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) indexOf(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist() error {
	b, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.backend.Set(s.key, b); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	s.log.Debug("collection saved", zap.Int("items", len(s.items)))
	for _, fn := range s.subs {
		fn(s.Items())
	}
	return nil
}

// persistQuietly is used while loading, where failures are only logged.
func (s *Store) persistQuietly() {
	if err := s.persist(); err != nil {
		s.log.Error("write back collection", zap.Error(err))
	}
}
