package token

import (
	"errors"
	"time"

	autherrors "github.com/rinov1/WorkWave/internal/auth/errors"
	"github.com/rinov1/WorkWave/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	Kind      Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 tokens with an injected secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Manager)

func WithTTL(access, refresh time.Duration) Option {
	return func(m *Manager) {
		if access > 0 {
			m.accessTTL = access
		}
		if refresh > 0 {
			m.refreshTTL = refresh
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL(kind Kind) time.Duration {
	if kind == Refresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

func (m *Manager) Issue(accountID int64, role string, kind Kind) (string, error) {
	now := m.now()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", apperror.WrapWith(autherrors.ErrTokenGenerationFailed, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and kind.
func (m *Manager) Parse(raw string, kind Kind) (*Claims, error) {
	if raw == "" {
		return nil, autherrors.ErrTokenNotFound
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}
	if !tok.Valid || claims.Kind != kind || claims.AccountID <= 0 {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
