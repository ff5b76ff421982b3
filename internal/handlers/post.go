package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/metrics"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// PostHandler handles HTTP requests for posts and replies
type PostHandler struct {
	svc     *service.Service
	metrics *metrics.Metrics
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(svc *service.Service, m *metrics.Metrics) *PostHandler {
	return &PostHandler{svc: svc, metrics: m}
}

// RegisterPostRoutes registers routes that require authentication.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/posts/timeline", h.Timeline)
}

// RegisterPublicRoutes registers routes readable without authentication.
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/replies", h.GetReplies)
}

// CreatePost creates a new post or, when reply_to_id is set, a reply.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.svc.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	h.metrics.PostsCreated.Inc()
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns one post with its author and the caller's engagement flags.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.svc.GetPost(c.Request().Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetReplies returns a post's direct replies, oldest first.
func (h *PostHandler) GetReplies(c echo.Context) error {
	replies, err := h.svc.GetReplies(c.Request().Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, replies)
}

// Timeline returns the caller's home feed.
func (h *PostHandler) Timeline(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	posts, err := h.svc.Timeline(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// DeletePost deletes the caller's own post.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePost(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
