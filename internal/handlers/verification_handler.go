package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// VerificationHandler handles the verified-badge workflow
type VerificationHandler struct {
	svc *service.Service
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(svc *service.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// RegisterVerificationRoutes registers user-facing verification routes
func (h *VerificationHandler) RegisterVerificationRoutes(g *echo.Group) {
	g.POST("/verification/submit", h.Submit)
	g.GET("/verification/status", h.Status)
	g.GET("/verification/requests", h.MyRequests)
}

// RegisterAdminRoutes registers the review endpoints.
func (h *VerificationHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/verification/pending", h.Pending)
	g.PUT("/admin/verification/:requestId/review", h.Review)
}

// Submit files a verification request for the caller.
func (h *VerificationHandler) Submit(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.SubmitVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vr, err := h.svc.SubmitVerification(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, vr)
}

// Status summarizes the caller's verification standing.
func (h *VerificationHandler) Status(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	status, err := h.svc.VerificationStatus(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, status)
}

// MyRequests lists the caller's verification requests, newest first.
func (h *VerificationHandler) MyRequests(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	requests, err := h.svc.GetVerificationRequests(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Pending lists all requests awaiting review.
func (h *VerificationHandler) Pending(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	requests, err := h.svc.GetPendingVerificationRequests(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Review approves or rejects a pending request.
func (h *VerificationHandler) Review(c echo.Context) error {
	reviewerID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.ReviewVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vr, err := h.svc.ReviewVerification(c.Request().Context(), reviewerID, c.Param("requestId"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, vr)
}
