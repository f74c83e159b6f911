package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

// Auth drives the GoTrue endpoints and keeps the current session in memory.
type Auth struct {
	backend  *Backend
	mu       sync.Mutex
	session  *gateway.Session
	notifier gateway.Notifier
}

type tokenResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"`
	ExpiresAt    int64             `json:"expires_at"`
	User         gateway.Principal `json:"user"`
}

func (a *Auth) accessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error) {
	var tok tokenResponse
	resp, err := a.backend.client.R().
		SetContext(ctx).
		SetBearerAuthToken(a.backend.anonKey).
		SetQueryParam("grant_type", "password").
		SetBodyJsonMarshal(map[string]string{"email": email, "password": password}).
		SetSuccessResult(&tok).
		Post("/auth/v1/token")
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, gateway.ErrInvalidCredentials
	case !resp.IsSuccessState():
		return nil, apiError(resp)
	}

	expiresAt := time.Unix(tok.ExpiresAt, 0)
	if tok.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	session := &gateway.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         tok.User,
	}
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	cp := *session
	a.notifier.Emit(gateway.AuthChange{Event: gateway.EventSignedIn, Session: &cp})
	return session, nil
}

// SignOut revokes the session at the backend. The local session is dropped
// whatever the backend answers.
func (a *Auth) SignOut(ctx context.Context) error {
	token := a.accessToken()
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	a.notifier.Emit(gateway.AuthChange{Event: gateway.EventSignedOut})
	if token == "" {
		return nil
	}

	resp, err := a.backend.client.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		Post("/auth/v1/logout")
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() && resp.StatusCode != http.StatusUnauthorized {
		return apiError(resp)
	}
	return nil
}

func (a *Auth) GetUser(ctx context.Context) (*gateway.Principal, error) {
	token := a.accessToken()
	if token == "" {
		return nil, nil
	}
	var user gateway.Principal
	resp, err := a.backend.client.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetSuccessResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if !resp.IsSuccessState() {
		return nil, apiError(resp)
	}
	return &user, nil
}

func (a *Auth) OnAuthStateChange(fn func(gateway.AuthChange)) func() {
	return a.notifier.Subscribe(fn)
}
