package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// PlaceHandler serves the owner dashboard API.
type PlaceHandler struct {
	places ports.PlaceService
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewPlaceHandler(places ports.PlaceService, log logrus.FieldLogger) *PlaceHandler {
	return &PlaceHandler{places: places, log: log, now: time.Now}
}

func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.PlaceInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	place, err := h.places.CreatePlace(r.Context(), CurrentUser(r.Context()), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.log.WithField("place_id", place.ID).Info("place created")
	WriteJSON(h.log, w, http.StatusCreated, place)
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.ListPlaces(r.Context(), CurrentUser(r.Context()))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, map[string]any{
		"data":  places,
		"total": len(places),
	})
}

func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.GetPlace(r.Context(), CurrentUser(r.Context()), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, place)
}

func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.PlaceInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	place, err := h.places.UpdatePlace(r.Context(), CurrentUser(r.Context()), r.PathValue("id"), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, place)
}

func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.places.DeletePlace(r.Context(), CurrentUser(r.Context()), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.log.WithField("place_id", id).Info("place deleted")
	w.WriteHeader(http.StatusNoContent)
}

// edit runs one editor operation on the place named by the path and
// responds with the saved place.
func (h *PlaceHandler) edit(w http.ResponseWriter, r *http.Request, op ports.EditFunc) {
	place, err := h.places.Edit(r.Context(), CurrentUser(r.Context()), r.PathValue("id"), op)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	WriteJSON(h.log, w, http.StatusOK, place)
}
