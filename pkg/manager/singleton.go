package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

// Singleton manages a collection that holds at most one row, such as the
// contact details or the home page copy.
type Singleton[T any] struct {
	table gateway.Table[T]

	// writeMu serializes Save so two writers never both insert.
	writeMu sync.Mutex

	mu      sync.RWMutex
	row     *T
	loaded  bool
	lastErr error
	gen     uint64
	closed  bool
}

func NewSingleton[T any](table gateway.Table[T]) *Singleton[T] {
	return &Singleton[T]{table: table}
}

func (s *Singleton[T]) Name() string { return s.table.Name() }

func (s *Singleton[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Singleton[T]) commit(gen uint64, row *T, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return ErrStale
	}
	if err != nil {
		s.lastErr = err
		log.Error(err, "load failed, keeping previous row", "collection", s.table.Name())
		return err
	}
	s.row = row
	s.loaded = true
	s.lastErr = nil
	return nil
}

func (s *Singleton[T]) single(ctx context.Context) (*T, error) {
	row, err := s.table.Single(ctx)
	if errors.Is(err, gateway.ErrNoRows) {
		// an empty collection is a blank form, not a failure
		return nil, nil
	}
	return row, err
}

func (s *Singleton[T]) Load(ctx context.Context) error {
	gen := s.begin()
	row, err := s.single(ctx)
	return s.commit(gen, row, err)
}

func (s *Singleton[T]) fetch(ctx context.Context) (settle, error) {
	gen := s.begin()
	row, err := s.single(ctx)
	return func(joinErr error) error {
		if joinErr != nil {
			return s.commit(gen, nil, joinErr)
		}
		return s.commit(gen, row, nil)
	}, err
}

// Get returns the loaded row; ok is false when the collection is empty.
func (s *Singleton[T]) Get() (row T, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.row == nil {
		return row, false
	}
	return *s.row, true
}

// Save updates the existing row, or inserts one when there is none, then
// reloads. updated_at is stamped on update. A failed reload is kept in Status
// and does not fail the save.
func (s *Singleton[T]) Save(ctx context.Context, row T) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.write(ctx, row); err != nil {
		log.Error(err, "save failed", "collection", s.table.Name())
		return err
	}
	if err := s.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		log.V(2).Info("reload after save failed", "collection", s.table.Name(), "err", err.Error())
	}
	return nil
}

// write decides between insert and update on a fresh read, not the snapshot,
// so a save never trusts a row list that is stale or failed to load.
func (s *Singleton[T]) write(ctx context.Context, row T) error {
	current, err := s.single(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return s.table.Insert(ctx, &row)
	}
	id := int64(0)
	if r, ok := any(*current).(interface{ RowID() int64 }); ok {
		id = r.RowID()
	}
	patch := gateway.PatchOf(row, "id", "created_at")
	if _, ok := patch["updated_at"]; ok {
		patch["updated_at"] = time.Now().UTC()
	}
	return s.table.Update(ctx, id, patch)
}

func (s *Singleton[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Collection: s.table.Name(), Phase: PhaseLoading}
	if s.loaded {
		st.Phase = PhaseIdle
	}
	if s.row != nil {
		st.Rows = 1
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Singleton[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.gen++
}
