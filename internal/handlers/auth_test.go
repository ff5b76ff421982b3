package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/handlers"
	"github.com/plantlife/plantlife-backend/internal/middleware"
	"github.com/plantlife/plantlife-backend/internal/service"
	"github.com/plantlife/plantlife-backend/internal/storage/memory"
	"github.com/plantlife/plantlife-backend/validators"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.New()
	svc := service.New(store, nil, nil, log, service.Options{})

	e := echo.New()
	e.Validator = validators.NewValidator()

	authHandler := handlers.NewAuthHandler(svc, nil, testSecret, true)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(testSecret))
	userHandler := handlers.NewUserHandler(svc)
	userHandler.RegisterProfileRoutes(api)

	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func requestOTP(t *testing.T, e *echo.Echo, phone string) string {
	t.Helper()
	rec, body := doJSON(t, e, http.MethodPost, "/api/v1/auth/send-otp", `{"phone":"`+phone+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	code, ok := body["otp"].(string)
	require.True(t, ok, "development mode must echo the code")
	return code
}

func TestOTPRegistrationAndLogin(t *testing.T) {
	e := newTestServer(t)

	code := requestOTP(t, e, "+15550100")
	require.Len(t, code, 6)

	rec, body := doJSON(t, e, http.MethodPost, "/api/v1/auth/verify-otp-register",
		`{"phone":"+15550100","otp":"`+code+`","first_name":"Alice","last_name":"Green","username":"alice","account_type":"enthusiast"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// The token works on a protected route.
	rec, profile := doJSON(t, e, http.MethodGet, "/api/v1/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", profile["username"])

	// A used code cannot be replayed for login.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/auth/verify-login-otp",
		`{"phone":"+15550100","otp":"`+code+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A fresh code logs the existing user in.
	code = requestOTP(t, e, "+15550100")
	rec, body = doJSON(t, e, http.MethodPost, "/api/v1/auth/verify-login-otp",
		`{"phone":"+15550100","otp":"`+code+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])
}

func TestVerifyWithWrongCode(t *testing.T) {
	e := newTestServer(t)

	requestOTP(t, e, "+15550100")
	rec, _ := doJSON(t, e, http.MethodPost, "/api/v1/auth/verify-otp-register",
		`{"phone":"+15550100","otp":"000000","first_name":"Alice","last_name":"Green","username":"alice","account_type":"enthusiast"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownPhone(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/v1/auth/verify-login-otp",
		`{"phone":"+15550999","otp":"123456"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/api/v1/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/profile", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
