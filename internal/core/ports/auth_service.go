package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  domain.PublicUser
	Token string
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// SessionIssuer mints signed session tokens.
type SessionIssuer interface {
	Issue(user *domain.User) (string, error)
}

// SessionVerifier turns a raw Authorization header value into a principal.
// Every failure wraps domain.ErrUnauthenticated.
type SessionVerifier interface {
	Verify(authorizationHeader string) (domain.Principal, error)
}
