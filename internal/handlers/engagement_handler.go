package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/metrics"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// EngagementHandler handles HTTP requests for likes and shares
type EngagementHandler struct {
	svc     *service.Service
	metrics *metrics.Metrics
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(svc *service.Service, m *metrics.Metrics) *EngagementHandler {
	return &EngagementHandler{svc: svc, metrics: m}
}

// RegisterEngagementRoutes registers like and share routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.Like)
	g.DELETE("/posts/:id/like", h.Unlike)
	g.POST("/posts/:id/share", h.Share)
	g.DELETE("/posts/:id/share", h.Unshare)
}

// Like marks the post as liked by the caller. Repeats are no-op successes.
func (h *EngagementHandler) Like(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Like(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	h.metrics.LikeRequests.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": true})
}

// Unlike removes the caller's like, if any.
func (h *EngagementHandler) Unlike(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Unlike(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": false})
}

// Share marks the post as shared by the caller. Repeats are no-op successes.
func (h *EngagementHandler) Share(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Share(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	h.metrics.ShareRequests.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "shared": true})
}

// Unshare removes the caller's share, if any.
func (h *EngagementHandler) Unshare(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Unshare(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "shared": false})
}
