package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

const (
	otpLength   = 6
	otpLifetime = 5 * time.Minute
	jwtLifetime = 72 * time.Hour
)

// AuthHandler handles authentication-related HTTP requests. Login is phone
// based: the client requests a one-time code, then exchanges it for a JWT.
// Firebase ID token login is available when a Firebase project is configured.
type AuthHandler struct {
	svc          *service.Service
	firebaseAuth *auth.Client
	jwtSecret    string
	devMode      bool
}

// NewAuthHandler creates a new AuthHandler. firebaseAuthClient may be nil,
// which disables the firebase-login route.
func NewAuthHandler(svc *service.Service, firebaseAuthClient *auth.Client, jwtSecret string, devMode bool) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		firebaseAuth: firebaseAuthClient,
		jwtSecret:    jwtSecret,
		devMode:      devMode,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/send-otp", h.SendOTP)
	g.POST("/verify-otp-register", h.VerifyOTPRegister)
	g.POST("/verify-login-otp", h.VerifyLoginOTP)
	g.POST("/logout", h.Logout)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// RegisterSessionRoutes registers routes that need an authenticated session.
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

// SendOTP issues a one-time login code for a phone number. In development
// mode the code is echoed back; in production it would go out via SMS.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	code, err := generateOTPCode()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash code")
	}

	otp := &models.OTP{
		Phone:     req.Phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(otpLifetime),
	}
	if err := h.svc.Store().SaveOTP(c.Request().Context(), otp); err != nil {
		return httpError(err)
	}

	resp := echo.Map{"success": true, "message": "OTP sent"}
	if h.devMode {
		resp["otp"] = code
	}
	return c.JSON(http.StatusOK, resp)
}

// VerifyOTPRegister completes registration: it checks the code, creates the
// account, and returns a JWT for the new user.
func (h *AuthHandler) VerifyOTPRegister(c echo.Context) error {
	var req models.VerifyOTPRegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.consumeOTP(ctx, req.Phone, req.OTP); err != nil {
		return err
	}

	user, err := h.svc.RegisterUser(ctx, &models.User{
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		Email:       req.Email,
		AccountType: models.AccountType(req.AccountType),
	})
	if err != nil {
		return httpError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// VerifyLoginOTP exchanges a valid code for a JWT on an existing account.
func (h *AuthHandler) VerifyLoginOTP(c echo.Context) error {
	var req models.VerifyLoginOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.svc.Store().GetUserByPhone(ctx, req.Phone)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No account for this phone number")
		}
		return httpError(err)
	}

	if err := h.consumeOTP(ctx, req.Phone, req.OTP); err != nil {
		return err
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c echo.Context) error {
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

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// FirebaseLogin handles Firebase ID token verification and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	phone, _ := token.Claims["phone_number"].(string)
	if phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase token carries no phone number")
	}

	user, err := h.svc.Store().GetUserByPhone(ctx, phone)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No account for this phone number, register first")
		}
		return httpError(err)
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "user": user})
}

// consumeOTP checks the submitted code against the newest active one for the
// phone and burns it on success.
func (h *AuthHandler) consumeOTP(ctx context.Context, phone, code string) error {
	otp, err := h.svc.Store().GetActiveOTP(ctx, phone)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Code expired or never sent, request a new one")
		}
		return httpError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid code")
	}
	if err := h.svc.Store().MarkOTPUsed(ctx, otp.ID); err != nil {
		return httpError(err)
	}
	return nil
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateOTPCode draws a uniformly random numeric code.
func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n), nil
}
