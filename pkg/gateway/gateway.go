// Package gateway describes the hosted backend the console talks to: row
// storage addressed by collection name, object storage for uploaded images,
// and an auth service. Drivers live in the sub-packages rest, orm and memory.
package gateway

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRows is returned by Single when the collection is empty.
	ErrNoRows = errors.New("gateway: no rows")
	// ErrInvalidCredentials is returned by SignInWithPassword.
	ErrInvalidCredentials = errors.New("gateway: invalid login credentials")
	// ErrNoSession is returned by auth calls that need a signed-in session.
	ErrNoSession = errors.New("gateway: no active session")
)

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Patch is a partial row keyed by column name.
type Patch map[string]any

// RawTable is the untyped per-collection surface a driver implements. dst
// and row arguments are pointers to model values (or slices of them), the
// same way gorm's Find and Create take them.
type RawTable interface {
	Select(ctx context.Context, dst any, orders ...Order) error
	Single(ctx context.Context, dst any) error
	Insert(ctx context.Context, row any) error
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// Storage is the object storage namespace uploaded images go to.
type Storage interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
}

// Backend is the Data Gateway.
type Backend interface {
	Table(name string) RawTable
	Storage() Storage
	Auth() Auth
}
