package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/middleware"
	"github.com/plantlife/plantlife-backend/internal/models"
)

// userIDFromContext returns the authenticated user's id, or "" for anonymous
// requests that passed through the optional auth middleware.
func userIDFromContext(c echo.Context) string {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// requireUserID returns the authenticated user's id or a 401.
func requireUserID(c echo.Context) (string, error) {
	id := userIDFromContext(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}

// httpError translates service and storage errors into HTTP responses.
func httpError(err error) error {
	var status int
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindInvalidOperation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindForbidden:
		status = http.StatusForbidden
	case apperrors.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
	}
	return echo.NewHTTPError(status, err.Error())
}
