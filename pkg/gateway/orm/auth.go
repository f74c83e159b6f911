package orm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/util"
)

// Auth checks passwords against the users table and issues JWT sessions.
type Auth struct {
	db       *gorm.DB
	tokens   *util.TokenManager
	mu       sync.Mutex
	session  *gateway.Session
	notifier gateway.Notifier
}

func NewAuth(db *gorm.DB, tokens *util.TokenManager) *Auth {
	return &Auth{db: db, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser adds an operator account, or resets the password of an existing one.
func (a *Auth) CreateUser(ctx context.Context, email, password string) (*model.User, error) {
	if password == "" {
		return nil, fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	var user model.User
	err = a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case isNotFound(err):
		user = model.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
		if err := a.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := a.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error) {
	var user model.User
	err := a.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if isNotFound(err) {
		return nil, gateway.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, gateway.ErrInvalidCredentials
	}

	msg := &util.JWTMessage{UID: user.ID, Email: user.Email}
	access, refresh, err := a.tokens.CreateTokens(msg)
	if err != nil {
		klog.Errorf("create tokens for %s: %v", user.Email, err)
		return nil, err
	}
	session := &gateway.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    a.tokens.AccessExpiry(),
		User:         gateway.Principal{ID: user.ID, Email: user.Email},
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
	session := a.session
	a.mu.Unlock()
	if session == nil {
		return nil, nil
	}
	msg, err := a.tokens.CheckToken(session.AccessToken)
	if err != nil {
		// an expired session reads as signed out
		return nil, nil
	}
	return &gateway.Principal{ID: msg.UID, Email: msg.Email}, nil
}

func (a *Auth) OnAuthStateChange(fn func(gateway.AuthChange)) func() {
	return a.notifier.Subscribe(fn)
}
