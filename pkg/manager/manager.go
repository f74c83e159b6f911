// Package manager keeps the last fetched snapshot of a collection and applies
// writes by round-tripping through the gateway: every successful write is
// followed by a fresh list, never by a local edit.
package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/logutils"
)

var (
	ErrNotConfirmed = errors.New("delete not confirmed")
	// ErrStale reports a fetch that resolved after a newer one began or
	// after the manager was closed. Its result is discarded.
	ErrStale = errors.New("stale response discarded")
)

var log = logutils.Named("manager")

// Confirm asks the operator to approve a destructive action.
type Confirm func() bool

// Confirmed is a Confirm that always approves.
func Confirmed() bool { return true }

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseIdle    Phase = "idle"
)

// Status is the observable outcome of the latest fetch.
type Status struct {
	Collection string     `json:"collection"`
	Phase      Phase      `json:"phase"`
	Rows       int        `json:"rows"`
	LastError  string     `json:"lastError,omitempty"`
	LoadedAt   *time.Time `json:"loadedAt,omitempty"`
}

// Options configure a Manager.
type Options[T any] struct {
	// Order is applied to every list.
	Order []gateway.Order
	// Fields returns the text a search term is matched against.
	Fields func(T) []string
}

type Manager[T any] struct {
	table  gateway.Table[T]
	order  []gateway.Order
	fields func(T) []string

	mu       sync.RWMutex
	rows     []T
	loadedAt time.Time
	lastErr  error
	gen      uint64
	closed   bool
}

func New[T any](table gateway.Table[T], opts Options[T]) *Manager[T] {
	return &Manager[T]{
		table:  table,
		order:  opts.Order,
		fields: opts.Fields,
		rows:   []T{},
	}
}

func (m *Manager[T]) Name() string { return m.table.Name() }

// begin starts a fetch generation.
func (m *Manager[T]) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen
}

// commit applies the outcome of fetch gen. On error the previous snapshot is
// kept and the error recorded.
func (m *Manager[T]) commit(gen uint64, rows []T, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		log.V(4).Info("discarding stale fetch", "collection", m.table.Name(), "generation", gen)
		return ErrStale
	}
	if err != nil {
		m.lastErr = err
		log.Error(err, "list failed, keeping previous rows", "collection", m.table.Name())
		return err
	}
	m.rows = rows
	m.lastErr = nil
	m.loadedAt = time.Now()
	return nil
}

// List replaces the snapshot with a fresh, ordered fetch.
func (m *Manager[T]) List(ctx context.Context) error {
	gen := m.begin()
	rows, err := m.table.Select(ctx, m.order...)
	return m.commit(gen, rows, err)
}

func (m *Manager[T]) fetch(ctx context.Context) (settle, error) {
	gen := m.begin()
	rows, err := m.table.Select(ctx, m.order...)
	return func(joinErr error) error {
		if joinErr != nil {
			return m.commit(gen, nil, joinErr)
		}
		return m.commit(gen, rows, nil)
	}, err
}

func (m *Manager[T]) Create(ctx context.Context, row *T) error {
	if err := m.table.Insert(ctx, row); err != nil {
		log.Error(err, "create failed", "collection", m.table.Name())
		return err
	}
	m.relist(ctx)
	return nil
}

func (m *Manager[T]) Update(ctx context.Context, id int64, patch gateway.Patch) error {
	if err := m.table.Update(ctx, id, patch); err != nil {
		log.Error(err, "update failed", "collection", m.table.Name(), "id", id)
		return err
	}
	m.relist(ctx)
	return nil
}

// Delete removes a row once confirm approves. A nil confirm never approves.
func (m *Manager[T]) Delete(ctx context.Context, id int64, confirm Confirm) error {
	if confirm == nil || !confirm() {
		return ErrNotConfirmed
	}
	if err := m.table.Delete(ctx, id); err != nil {
		log.Error(err, "delete failed", "collection", m.table.Name(), "id", id)
		return err
	}
	m.relist(ctx)
	return nil
}

// relist refreshes the snapshot after a write that already landed. A failed
// fetch stays in Status and a superseded one is left to the newer fetch.
func (m *Manager[T]) relist(ctx context.Context) {
	if err := m.List(ctx); err != nil && !errors.Is(err, ErrStale) {
		log.V(2).Info("relist after write failed", "collection", m.table.Name(), "err", err.Error())
	}
}

// Rows returns a copy of the current snapshot.
func (m *Manager[T]) Rows() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Find looks a row up by id in the snapshot.
func (m *Manager[T]) Find(id int64) (T, bool) {
	return lo.Find(m.Rows(), func(r T) bool {
		row, ok := any(r).(interface{ RowID() int64 })
		return ok && row.RowID() == id
	})
}

// Filter returns the rows whose search fields contain term, ignoring case.
// An empty term returns the whole snapshot.
func (m *Manager[T]) Filter(term string) []T {
	return m.FilterBy(term, nil)
}

// FilterBy is Filter narrowed further by keep.
func (m *Manager[T]) FilterBy(term string, keep func(T) bool) []T {
	return lo.Filter(m.Rows(), func(r T, _ int) bool {
		if keep != nil && !keep(r) {
			return false
		}
		if term == "" || m.fields == nil {
			return true
		}
		return Matches(term, m.fields(r)...)
	})
}

// Matches reports whether any field contains term, ignoring case.
func Matches(term string, fields ...string) bool {
	term = strings.ToLower(term)
	return lo.SomeBy(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), term)
	})
}

func (m *Manager[T]) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Status{Collection: m.table.Name(), Phase: PhaseLoading, Rows: len(m.rows)}
	if !m.loadedAt.IsZero() {
		st.Phase = PhaseIdle
		at := m.loadedAt
		st.LoadedAt = &at
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	return st
}

// Close discards every fetch still in flight.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.gen++
}

func (m *Manager[T]) String() string {
	return fmt.Sprintf("manager(%s)", m.table.Name())
}
