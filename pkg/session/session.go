// Package session holds the operator's authentication state for the
// lifetime of the console process.
package session

import (
	"context"
	"sync"

	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

// State is a snapshot of the holder.
type State struct {
	Principal *gateway.Principal `json:"user"`
	Loading   bool               `json:"loading"`
}

func (s State) SignedIn() bool { return s.Principal != nil }

// Holder tracks the current principal. Writers draw a ticket when they are
// issued; a write lands only if its ticket is newer than the last applied
// one, so the most recently issued write wins whatever order they resolve in.
type Holder struct {
	auth gateway.Auth

	mu          sync.RWMutex
	principal   *gateway.Principal
	token       string
	loading     bool
	issued      uint64
	applied     uint64
	unsubscribe func()
}

func NewHolder(auth gateway.Auth) *Holder {
	return &Holder{auth: auth, loading: true}
}

func (h *Holder) ticket() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.issued++
	return h.issued
}

// apply stores principal and token if t is the newest write so far.
func (h *Holder) apply(t uint64, principal *gateway.Principal, token string) bool {
	if t <= h.applied {
		return false
	}
	h.applied = t
	h.principal = principal
	h.token = token
	return true
}

// Init subscribes to auth changes and resolves the current principal.
// Loading ends once that fetch resolves, with or without an error.
func (h *Holder) Init(ctx context.Context) error {
	unsubscribe := h.auth.OnAuthStateChange(h.onChange)
	h.mu.Lock()
	h.unsubscribe = unsubscribe
	h.mu.Unlock()

	t := h.ticket()
	principal, err := h.auth.GetUser(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if err != nil {
		klog.Errorf("resolve current user: %v", err)
		principal = nil
	}
	if !h.apply(t, principal, h.token) {
		klog.V(4).Info("initial user fetch superseded by an auth event")
	}
	return err
}

func (h *Holder) onChange(change gateway.AuthChange) {
	t := h.ticket()
	token := ""
	if change.Session != nil {
		token = change.Session.AccessToken
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.apply(t, change.Principal(), token)
	klog.Infof("auth state changed: %s", change.Event)
}

// SignIn delegates to the gateway; the state follows from its change event.
func (h *Holder) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	return h.auth.SignInWithPassword(ctx, email, password)
}

// SignOut signs out at the gateway and clears the principal without waiting
// for the change event. The principal is cleared even when the gateway fails.
func (h *Holder) SignOut(ctx context.Context) error {
	err := h.auth.SignOut(ctx)
	t := h.ticket()
	h.mu.Lock()
	h.apply(t, nil, "")
	h.mu.Unlock()
	if err != nil {
		klog.Errorf("sign out: %v", err)
	}
	return err
}

func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var p *gateway.Principal
	if h.principal != nil {
		cp := *h.principal
		p = &cp
	}
	return State{Principal: p, Loading: h.loading}
}

// AccessToken is the token of the session signed in through this holder.
func (h *Holder) AccessToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Close releases the auth subscription.
func (h *Holder) Close() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
