package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
)

const authCookieName = "auth_token"

type contextKey string

const userContextKey contextKey = "user_email"

// CurrentUser returns the signed-in owner email, or "" for visitors.
func CurrentUser(ctx context.Context) string {
	email, _ := ctx.Value(userContextKey).(string)
	return email
}

// WithUser stores the owner email the auth middleware verified.
func WithUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userContextKey, email)
}

type Middleware struct {
	jwtSecret []byte
	log       logrus.FieldLogger
}

func NewMiddleware(cfg *config.Config, log logrus.FieldLogger) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
		log:       log,
	}
}

// AuthMiddleware verifies the JWT from the auth cookie. API calls get a JSON
// 401, browser navigations are sent to the Google sign-in.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			m.reject(w, r)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
			return m.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			m.log.WithError(err).Debug("rejected auth token")
			m.reject(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.Subject)))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeError(m.log, w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized", "")
		return
	}
	http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
