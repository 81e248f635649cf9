package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// PrincipalKey is the echo.Context key under which the Auth middleware stores
// the authenticated domain.Principal.
const PrincipalKey = "principal"

// principalFrom returns the principal injected by the Auth middleware.
// A missing principal means the route was wired without the middleware.
func principalFrom(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	if !ok || p.ID == "" {
		return domain.Principal{}, domain.ErrMissingBearer
	}
	return p, nil
}
