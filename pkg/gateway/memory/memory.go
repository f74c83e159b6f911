// Package memory is an in-process gateway driver. Rows are kept as JSON
// objects so that any model type round-trips the way it would through the
// hosted REST API.
package memory

import (
	"sync"
	"time"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/objstore"
)

const DefaultPublicBase = "http://localhost:8080/storage/v1/object/public"

type Backend struct {
	mu      sync.Mutex
	tables  map[string]*Table
	storage gateway.Storage
	auth    *Auth
	now     func() time.Time
}

type Option func(*Backend)

// WithStorage replaces the default in-memory "images" bucket.
func WithStorage(s gateway.Storage) Option {
	return func(b *Backend) { b.storage = s }
}

// WithClock sets the clock used for created_at and updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		tables: make(map[string]*Table),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.storage == nil {
		b.storage = objstore.NewBucket(objstore.NewMemory(), "images", DefaultPublicBase)
	}
	b.auth = newAuth(b.now)
	return b
}

func (b *Backend) Table(name string) gateway.RawTable { return b.Collection(name) }

// Collection returns the concrete table for name, creating it on first use.
func (b *Backend) Collection(name string) *Table {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[name]
	if !ok {
		t = newTable(name, b.now)
		b.tables[name] = t
	}
	return t
}

func (b *Backend) Storage() gateway.Storage { return b.storage }

func (b *Backend) Auth() gateway.Auth { return b.auth }

// Users exposes the account registry of the in-process auth service.
func (b *Backend) Users() *Auth { return b.auth }
