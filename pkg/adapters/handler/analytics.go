package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

type AnalyticsHandler struct {
	analytics   ports.AnalyticsService
	subscribers ports.SubscriberService
	log         logrus.FieldLogger
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, subscribers ports.SubscriberService, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, subscribers: subscribers, log: log}
}

// Summary reports the place analytics for the last ?days=N days. A missing or
// malformed value falls back to the configured default.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	summary, err := h.analytics.Summary(r.Context(), CurrentUser(r.Context()), r.PathValue("id"), days)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subscribers.List(r.Context(), CurrentUser(r.Context()), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, map[string]any{
		"data":  subs,
		"total": len(subs),
	})
}
