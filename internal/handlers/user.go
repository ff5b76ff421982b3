package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	svc *service.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *service.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterProfileRoutes registers routes that require authentication.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
}

// RegisterPublicRoutes registers routes readable without authentication.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetUserByUsername)
	g.GET("/users/:username/posts", h.GetUserPosts)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserByUsername retrieves a public profile by username.
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	user, err := h.svc.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserPosts retrieves a user's posts, newest first.
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.svc.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	posts, err := h.svc.GetPostsByUser(ctx, userIDFromContext(c), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetFollowers lists the users following the given user.
func (h *UserHandler) GetFollowers(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.svc.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	followers, err := h.svc.GetFollowers(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, followers)
}

// GetFollowing lists the users the given user follows.
func (h *UserHandler) GetFollowing(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.svc.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	following, err := h.svc.GetFollowing(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, following)
}

// SearchUsers finds users by partial username or name.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.svc.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
