package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/handler"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// Auth verifies the bearer token and injects the principal into the context.
// Failures are returned unchanged so the error handler renders them as 401.
func Auth(verifier ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := verifier.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			c.Set(handler.PrincipalKey, principal)
			return next(c)
		}
	}
}
