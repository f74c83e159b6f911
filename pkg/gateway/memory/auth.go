package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

const sessionTTL = time.Hour

type account struct {
	principal gateway.Principal
	hash      []byte
}

// Auth is an in-process password auth service holding one current session.
type Auth struct {
	mu       sync.Mutex
	now      func() time.Time
	cost     int
	accounts map[string]account
	session  *gateway.Session
	notifier gateway.Notifier
}

func newAuth(now func() time.Time) *Auth {
	return &Auth{now: now, cost: bcrypt.DefaultCost, accounts: make(map[string]account)}
}

// AddUser registers an account, replacing the password of an existing one.
func (a *Auth) AddUser(email, password string) (gateway.Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return gateway.Principal{}, err
	}
	key := strings.ToLower(strings.TrimSpace(email))
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[key]
	if !ok {
		acc.principal = gateway.Principal{ID: uuid.NewString(), Email: key}
	}
	acc.hash = hash
	a.accounts[key] = acc
	return acc.principal, nil
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	acc, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	a.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, gateway.ErrInvalidCredentials
	}
	session := &gateway.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    a.now().Add(sessionTTL),
		User:         acc.principal,
	}
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	cp := *session
	a.notifier.Emit(gateway.AuthChange{Event: gateway.EventSignedIn, Session: &cp})
	return session, nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	a.notifier.Emit(gateway.AuthChange{Event: gateway.EventSignedOut})
	return ctx.Err()
}

func (a *Auth) GetUser(ctx context.Context) (*gateway.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || a.now().After(a.session.ExpiresAt) {
		return nil, nil
	}
	p := a.session.User
	return &p, nil
}

func (a *Auth) OnAuthStateChange(fn func(gateway.AuthChange)) func() {
	return a.notifier.Subscribe(fn)
}
