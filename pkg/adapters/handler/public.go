package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// PublicHandler serves the visitor facing routes. None of them require a session.
type PublicHandler struct {
	places      ports.PlaceService
	tracking    ports.TrackingService
	subscribers ports.SubscriberService
	limiter     ports.RateLimiter
	log         logrus.FieldLogger
	now         func() time.Time
	async       func(func())
}

func NewPublicHandler(places ports.PlaceService, tracking ports.TrackingService, subscribers ports.SubscriberService, limiter ports.RateLimiter, log logrus.FieldLogger) *PublicHandler {
	return &PublicHandler{
		places:      places,
		tracking:    tracking,
		subscribers: subscribers,
		limiter:     limiter,
		log:         log,
		now:         time.Now,
		async:       func(f func()) { go f() },
	}
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// View renders the public profile. The view is recorded after the response
// unless no_stat is set, which the dashboard preview uses.
func (h *PublicHandler) View(w http.ResponseWriter, r *http.Request) {
	placeID := r.PathValue("placeId")
	view, err := h.places.GetPublicView(r.Context(), placeID, h.now())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if r.URL.Query().Get("no_stat") == "" {
		ctx, ua, ref := r.Context(), r.UserAgent(), r.Referer()
		h.async(func() { h.tracking.TrackProfileView(ctx, placeID, ua, ref) })
	}
	WriteJSON(h.log, w, http.StatusOK, view)
}

// Redirect sends the visitor to a link target and records the click.
func (h *PublicHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "go") {
		return
	}

	placeID := r.PathValue("placeId")
	event, err := h.tracking.ResolveLink(r.Context(), placeID, domain.LinkType(r.PathValue("type")), r.PathValue("linkId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if r.URL.Query().Get("no_stat") == "" {
		ev := *event
		ev.UserAgent = r.UserAgent()
		ev.Referrer = r.Referer()
		ctx := r.Context()
		h.async(func() { h.tracking.TrackLinkClick(ctx, ev) })
	}
	http.Redirect(w, r, event.LinkURL, http.StatusFound)
}

func (h *PublicHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "subscribe") {
		return
	}

	var req SubscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	sub, err := h.subscribers.Subscribe(r.Context(), r.PathValue("placeId"), req.Email)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusCreated, map[string]any{
		"message":      "Subscribed",
		"subscribedAt": sub.SubscribedAt,
	})
}

func (h *PublicHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	out := map[domain.LinkType][]domain.PlatformTemplate{}
	for _, t := range domain.LinkTypes() {
		out[t] = domain.Platforms(t)
	}
	WriteJSON(h.log, w, http.StatusOK, out)
}

func (h *PublicHandler) Themes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(h.log, w, http.StatusOK, domain.Themes())
}

// allow applies the per client rate limit. A limiter failure lets the
// request through.
func (h *PublicHandler) allow(w http.ResponseWriter, r *http.Request, scope string) bool {
	key := scope + ":" + clientIP(r)
	ok, err := h.limiter.Allow(r.Context(), key)
	if err != nil {
		h.log.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
		return true
	}
	if !ok {
		w.Header().Set("Retry-After", "60")
		writeError(h.log, w, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests", "")
		return false
	}
	return true
}
