package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// DefaultTokenTTL is the session lifetime used when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

const bearerPrefix = "Bearer "

// sessionClaims is the signed payload: {id, email, iat, exp}.
type sessionClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies stateless HS256 session tokens.
// Verification trusts the signature alone; the user store is never consulted.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token bound to the user's id and email.
func (m *SessionManager) Issue(user *domain.User) (string, error) {
	now := m.now()
	claims := sessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks the raw Authorization header value. A header that is not
// exactly "Bearer <token>" yields domain.ErrMissingBearer; a token that fails
// signature, algorithm or expiry checks yields domain.ErrInvalidToken.
func (m *SessionManager) Verify(authorizationHeader string) (domain.Principal, error) {
	raw, ok := strings.CutPrefix(authorizationHeader, bearerPrefix)
	if !ok || raw == "" || strings.ContainsAny(raw, " \t") {
		return domain.Principal{}, domain.ErrMissingBearer
	}
	return m.parse(raw)
}

func (m *SessionManager) parse(raw string) (domain.Principal, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return domain.Principal{}, errors.Join(domain.ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	return domain.Principal{ID: claims.UserID, Email: claims.Email}, nil
}
