package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"github.com/wadjakorntonsri/booking-bridge/pkg/metrics"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// Services are the application services the router dispatches to.
type Services struct {
	Places      ports.PlaceService
	Tracking    ports.TrackingService
	Analytics   ports.AnalyticsService
	Subscribers ports.SubscriberService
	Limiter     ports.RateLimiter
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, log logrus.FieldLogger) http.Handler {
	ph := NewPlaceHandler(svc.Places, log)
	pub := NewPublicHandler(svc.Places, svc.Tracking, svc.Subscribers, svc.Limiter, log)
	ah := NewAnalyticsHandler(svc.Analytics, svc.Subscribers, log)
	authHandler := NewAuthHandler(cfg, log)
	mw := NewMiddleware(cfg, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(log, w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /p/{placeId}", pub.View)
	mux.HandleFunc("GET /p/{placeId}/go/{type}/{linkId}", pub.Redirect)
	mux.HandleFunc("POST /p/{placeId}/subscribe", pub.Subscribe)
	mux.HandleFunc("GET /api/v1/catalog/platforms", pub.Platforms)
	mux.HandleFunc("GET /api/v1/catalog/themes", pub.Themes)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected routes are wrapped one by one so the mux still records the
	// matched pattern for the metrics middleware.
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, mw.AuthMiddleware(h))
	}
	protected("GET /api/v1/me", authHandler.Me)

	protected("POST /api/v1/places", ph.Create)
	protected("GET /api/v1/places", ph.List)
	protected("POST /api/v1/places/import", ph.ImportNew)
	protected("GET /api/v1/places/{id}", ph.Get)
	protected("PUT /api/v1/places/{id}", ph.Update)
	protected("DELETE /api/v1/places/{id}", ph.Delete)

	// Links
	protected("POST /api/v1/places/{id}/links", ph.AddLink)
	protected("POST /api/v1/places/{id}/links/{type}/{linkId}/toggle-active", ph.ToggleLinkActive)
	protected("POST /api/v1/places/{id}/links/{type}/{linkId}/toggle-icon", ph.ToggleLinkIcon)
	protected("PUT /api/v1/places/{id}/links/{type}/{linkId}/display-name", ph.UpdateLinkDisplayName)
	protected("DELETE /api/v1/places/{id}/links/{type}/{linkId}", ph.RemoveLink)

	// Page settings
	protected("POST /api/v1/places/{id}/icons/toggle", ph.ToggleIcons)
	protected("PUT /api/v1/places/{id}/sections/{key}/label", ph.UpdateSectionLabel)
	protected("POST /api/v1/places/{id}/sections/{key}/toggle", ph.ToggleSection)
	protected("POST /api/v1/places/{id}/theme/{themeId}", ph.ApplyTheme)

	// Transfer
	protected("GET /api/v1/places/{id}/export", ph.Export)
	protected("POST /api/v1/places/{id}/import", ph.Import)

	protected("GET /api/v1/places/{id}/analytics", ah.Summary)
	protected("GET /api/v1/places/{id}/subscribers", ah.Subscribers)

	return metrics.Middleware(mux)
}
