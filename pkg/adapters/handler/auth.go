package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookieName = "oauthstate"
	sessionTTL      = 24 * time.Hour
	userInfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthHandler signs place owners in with Google and issues the session cookie.
type AuthHandler struct {
	oauthConfig   *oauth2.Config
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	log           logrus.FieldLogger
	now           func() time.Time
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		log:           log,
		now:           time.Now,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.generateStateOauthCookie(w)
	if err != nil {
		h.log.WithError(err).Error("failed to generate oauth state")
		writeError(h.log, w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", "")
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie(stateCookieName)
	if err != nil {
		h.log.WithError(err).Warn("callback without oauth state cookie")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	if r.FormValue("state") != oauthState.Value {
		h.log.Warn("callback with mismatched oauth state")
		writeError(h.log, w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid oauth state", "")
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.WithError(err).Warn("oauth code exchange failed")
		writeError(h.log, w, http.StatusUnauthorized, ErrCodeUnauthorized, "Sign in failed", "")
		return
	}

	user, err := h.fetchUser(r, token)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch google user")
		writeError(h.log, w, http.StatusBadGateway, ErrCodeInternal, "Sign in failed", "")
		return
	}

	if !h.isAllowed(user.Email) {
		h.log.WithField("email", user.Email).Warn("email not in allowlist")
		writeError(h.log, w, http.StatusForbidden, ErrCodeForbidden, "Access denied: your email is not in the allowlist", "")
		return
	}

	tokenString, expires, err := h.issueToken(user.Email)
	if err != nil {
		h.log.WithError(err).Error("failed to sign session token")
		writeError(h.log, w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", "")
		return
	}
	http.SetCookie(w, h.cookie(authCookieName, tokenString, expires))

	h.log.WithField("email", user.Email).Info("owner signed in")
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie(authCookieName, "", h.now().Add(-time.Hour)))
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

// Me reports the signed-in owner.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	WriteJSON(h.log, w, http.StatusOK, map[string]string{"email": CurrentUser(r.Context())})
}

func (h *AuthHandler) fetchUser(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %s", resp.Status)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("userinfo without email")
	}
	return &user, nil
}

// isAllowed is true for everyone when no allowlist is configured.
func (h *AuthHandler) isAllowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return true
	}
	return slices.ContainsFunc(h.allowedEmails, func(allowed string) bool {
		return strings.EqualFold(allowed, email)
	})
}

func (h *AuthHandler) issueToken(email string) (string, time.Time, error) {
	expires := h.now().Add(sessionTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(h.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	return signed, expires, err
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, h.cookie(stateCookieName, state, h.now().Add(20*time.Minute)))
	return state, nil
}
