package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/handler"
	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/service"
)

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	sessions := service.NewSessionManager("secret", time.Hour)
	token, err := sessions.Issue(&domain.User{ID: "u-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, rec := newContext("Bearer " + token)

	called := false
	h := Auth(sessions)(func(c echo.Context) error {
		called = true
		p, ok := c.Get(handler.PrincipalKey).(domain.Principal)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.ID != "u-1" || p.Email != "alice@example.com" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	sessions := service.NewSessionManager("secret", time.Hour)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingBearer},
		{"invalid header format", "Token abc", domain.ErrMissingBearer},
		{"invalid token", "Bearer not-a-token", domain.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(tc.header)
			h := Auth(sessions)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := h(c)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}
