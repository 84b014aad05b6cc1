package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/editor"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/services"
)

// AddLinkRequest payload
type AddLinkRequest struct {
	Type     string `json:"type" validate:"required"`
	Platform string `json:"platform" validate:"required,max=100"`
	URL      string `json:"url" validate:"required,httpurl,max=2048"`
	Icon     string `json:"icon" validate:"omitempty,max=2048"`
}

type DisplayNameRequest struct {
	DisplayName string `json:"displayName" validate:"max=100"`
}

type SectionLabelRequest struct {
	Label string `json:"label" validate:"max=100"`
}

func (h *PlaceHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req AddLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := services.Validate(req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	t, err := domain.ParseLinkType(req.Type)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		return editor.AddLink(p, t, req.Platform, req.URL, req.Icon)
	})
}

func (h *PlaceHandler) ToggleLinkActive(w http.ResponseWriter, r *http.Request) {
	h.editLink(w, r, editor.ToggleLinkActive)
}

func (h *PlaceHandler) ToggleLinkIcon(w http.ResponseWriter, r *http.Request) {
	h.editLink(w, r, editor.ToggleLinkIconVisibility)
}

func (h *PlaceHandler) UpdateLinkDisplayName(w http.ResponseWriter, r *http.Request) {
	var req DisplayNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := services.Validate(req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.editLink(w, r, func(p domain.Place, t domain.LinkType, i int) (domain.Place, error) {
		return editor.UpdateLinkDisplayName(p, t, i, req.DisplayName)
	})
}

func (h *PlaceHandler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	h.editLink(w, r, editor.RemoveLink)
}

// editLink resolves {type}/{linkId} against the freshly loaded place, so
// the positional editor operation always hits the link the owner picked.
func (h *PlaceHandler) editLink(w http.ResponseWriter, r *http.Request, op func(domain.Place, domain.LinkType, int) (domain.Place, error)) {
	t, err := domain.ParseLinkType(r.PathValue("type"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	linkID := r.PathValue("linkId")

	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		i, err := editor.IndexOf(p, t, linkID)
		if err != nil {
			return domain.Place{}, err
		}
		return op(p, t, i)
	})
}

func (h *PlaceHandler) ToggleIcons(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		return editor.ToggleGlobalIconVisibility(p), nil
	})
}

func (h *PlaceHandler) UpdateSectionLabel(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseSectionKey(r.PathValue("key"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req SectionLabelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := services.Validate(req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		return editor.UpdateSectionLabel(p, key, req.Label)
	})
}

func (h *PlaceHandler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseSectionKey(r.PathValue("key"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		return editor.ToggleSectionVisibility(p, key)
	})
}

func (h *PlaceHandler) ApplyTheme(w http.ResponseWriter, r *http.Request) {
	themeID := r.PathValue("themeId")
	h.edit(w, r, func(p domain.Place) (domain.Place, error) {
		return editor.ApplyTheme(p, themeID)
	})
}
