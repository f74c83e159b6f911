package gateway

import (
	"context"
	"sync"
	"time"
)

// Principal is the authenticated identity of a session.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Principal `json:"user"`
}

type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

// AuthChange is delivered to OnAuthStateChange listeners. Session is nil
// after sign-out.
type AuthChange struct {
	Event   AuthEvent
	Session *Session
}

// Principal returns the user of the change, or nil when signed out.
func (c AuthChange) Principal() *Principal {
	if c.Session == nil {
		return nil
	}
	p := c.Session.User
	return &p
}

// Auth is the session/token service of the backend. Like the hosted
// client it mirrors, an Auth value holds at most one current session.
type Auth interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// GetUser returns nil without error when no session exists.
	GetUser(ctx context.Context) (*Principal, error)
	// OnAuthStateChange registers fn and returns its unsubscribe function.
	OnAuthStateChange(fn func(AuthChange)) (unsubscribe func())
}

// Notifier is the listener registry shared by the Auth drivers.
type Notifier struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(AuthChange)
}

func (n *Notifier) Subscribe(fn func(AuthChange)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func(AuthChange))
	}
	id := n.next
	n.next++
	n.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Emit calls every listener synchronously, outside the registry lock.
func (n *Notifier) Emit(change AuthChange) {
	n.mu.Lock()
	fns := make([]func(AuthChange), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}
