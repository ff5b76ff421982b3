package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/metrics"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// FollowHandler handles HTTP requests for the social graph
type FollowHandler struct {
	svc     *service.Service
	metrics *metrics.Metrics
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(svc *service.Service, m *metrics.Metrics) *FollowHandler {
	return &FollowHandler{svc: svc, metrics: m}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follows", h.Follow)
	g.DELETE("/follows/:userId", h.Unfollow)
	g.GET("/follows/:userId/status", h.FollowStatus)
}

// Follow makes the caller follow another user. Repeating the request is a
// no-op success.
func (h *FollowHandler) Follow(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.svc.Follow(c.Request().Context(), userID, req.FollowingID); err != nil {
		return httpError(err)
	}
	h.metrics.FollowRequests.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": true})
}

// Unfollow removes the follow edge, if any.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Unfollow(c.Request().Context(), userID, c.Param("userId")); err != nil {
		return httpError(err)
	}
	h.metrics.UnfollowRequests.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": false})
}

// FollowStatus reports whether the caller follows the given user.
func (h *FollowHandler) FollowStatus(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	following, err := h.svc.IsFollowing(c.Request().Context(), userID, c.Param("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
