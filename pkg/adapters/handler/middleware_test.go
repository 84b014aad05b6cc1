package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
)

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "testservlet",
	}
	log, _ := test.NewNullLogger()
	mw := NewMiddleware(cfg, log)

	tests := []struct {
		name           string
		path           string
		cookieValue    string
		expectedStatus int
		expectedUser   string
	}{
		{
			name:           "No Cookie - API",
			path:           "/api/v1/places",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "No Cookie - Browser",
			path:           "/dashboard",
			expectedStatus: http.StatusTemporaryRedirect,
		},
		{
			name:           "Invalid Cookie - API",
			path:           "/api/v1/places",
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret - API",
			path:           "/api/v1/places",
			cookieValue:    generateTestToken(t, "other", "test@example.com", time.Now().Add(5*time.Minute)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Cookie - API",
			path:           "/api/v1/places",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, "test@example.com", time.Now().Add(-time.Minute)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Cookie - API",
			path:           "/api/v1/places",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, "test@example.com", time.Now().Add(5*time.Minute)),
			expectedStatus: http.StatusOK,
			expectedUser:   "test@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: authCookieName, Value: tt.cookieValue})
			}

			var gotUser string
			rr := httptest.NewRecorder()
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = CurrentUser(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedUser, gotUser)
		})
	}
}

func TestIsAllowed(t *testing.T) {
	log, _ := test.NewNullLogger()
	open := NewAuthHandler(&config.Config{}, log)
	assert.True(t, open.isAllowed("anyone@example.com"))

	closed := NewAuthHandler(&config.Config{AllowedEmails: []string{"Owner@Example.com"}}, log)
	assert.True(t, closed.isAllowed("owner@example.com"))
	assert.False(t, closed.isAllowed("guest@example.com"))
}

func TestIssueTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	log, _ := test.NewNullLogger()
	h := NewAuthHandler(cfg, log)

	token, expires, err := h.issueToken("owner@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(sessionTTL), expires, time.Minute)

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rr := httptest.NewRecorder()
	NewMiddleware(cfg, log).AuthMiddleware(http.HandlerFunc(h.Me)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"owner@example.com"}`, rr.Body.String())
}

func TestLoginSetsStateCookie(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewAuthHandler(&config.Config{GoogleClientID: "client"}, log)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest("GET", "/auth/google/login", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookieName, cookies[0].Name)
	loc, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewAuthHandler(&config.Config{}, log)

	req := httptest.NewRequest("GET", "/auth/google/callback?state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "expected"})
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewAuthHandler(&config.Config{FrontendURL: "http://localhost:3000"}, log)

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest("GET", "/auth/logout", nil))

	assert.Equal(t, "http://localhost:3000/login", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func generateTestToken(t *testing.T, secret, subject string, expires time.Time) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}
