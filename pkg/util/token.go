package util

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("token expired")

type JWTClaims struct {
	UID   string `json:"uid"`   // User ID
	Email string `json:"email"` // Login email
	jwt.RegisteredClaims
}

type JWTMessage struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type TokenManager struct {
	secretKey       string
	accessTokenTTL  int
	refreshTokenTTL int
	now             func() time.Time
}

// NewTokenManager signs HS256 tokens; TTLs are in hours.
func NewTokenManager(secretKey string, accessTokenTTL, refreshTokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey:       secretKey,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		now:             time.Now,
	}
}

// AccessExpiry is the expiry of an access token issued now.
func (tm *TokenManager) AccessExpiry() time.Time {
	return tm.now().Add(time.Hour * time.Duration(tm.accessTokenTTL))
}

func (tm *TokenManager) createToken(msg *JWTMessage, ttl int) (string, error) {
	expiresAt := tm.now().Add(time.Hour * time.Duration(ttl))

	claims := &JWTClaims{
		UID:   msg.UID,
		Email: msg.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(tm.now()),
			Subject:   msg.UID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// CreateTokens creates a new access token and a new refresh token
func (tm *TokenManager) CreateTokens(msg *JWTMessage) (
	accessToken string, refreshToken string, err error) {
	accessToken, err = tm.createToken(msg, tm.accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = tm.createToken(msg, tm.refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// CheckToken validates the signature and expiry of requestToken.
func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(tm.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return JWTMessage{}, ErrTokenExpired
	}
	if err != nil {
		return JWTMessage{}, err
	}
	return JWTMessage{UID: claims.UID, Email: claims.Email}, nil
}
