package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/transfer"
)

const maxUploadBytes = 5 << 20

type exportFormat struct {
	contentType string
	suffix      string
	write       func(io.Writer, domain.Place) error
}

// ImportResponse is returned by both import routes.
type ImportResponse struct {
	Place    *domain.Place `json:"place"`
	Imported int           `json:"imported"`
	Warnings []string      `json:"warnings"`
}

func (h *PlaceHandler) exportFormats() map[string]exportFormat {
	return map[string]exportFormat{
		"json": {"application/json", "export", func(w io.Writer, p domain.Place) error {
			return transfer.ExportJSON(w, p, h.now())
		}},
		"csv":  {"text/csv; charset=utf-8", "links", transfer.ExportCSV},
		"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "links", transfer.ExportXLSX},
	}
}

// Export downloads the place as ?format=json (default), csv or xlsx.
func (h *PlaceHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.URL.Query().Get("format"))
	if name == "" {
		name = "json"
	}
	format, ok := h.exportFormats()[name]
	if !ok {
		handleError(h.log, w, r, fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, name))
		return
	}

	place, err := h.places.GetPlace(r.Context(), CurrentUser(r.Context()), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := format.write(&buf, *place); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	filename := transfer.Filename(place.Name, format.suffix, name, h.now())
	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.WithError(err).WithField("place_id", place.ID).Warn("export write failed")
	}
}

// Import applies an uploaded file to an existing place. JSON replaces the
// editable fields and links, CSV appends its links.
func (h *PlaceHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		im, err := transfer.ImportJSON(bytes.NewReader(data))
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		h.respondImport(w, r, im.Links.Len(), im.Warnings, func(p domain.Place) (domain.Place, error) {
			return im.Apply(p), nil
		})
	case "csv":
		set, warnings, err := transfer.ImportCSV(bytes.NewReader(data))
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		h.respondImport(w, r, set.Len(), warnings, func(p domain.Place) (domain.Place, error) {
			return set.AppendTo(p), nil
		})
	default:
		handleError(h.log, w, r, fmt.Errorf("%w: unsupported import format", domain.ErrValidation))
	}
}

func (h *PlaceHandler) respondImport(w http.ResponseWriter, r *http.Request, imported int, warnings []string, op func(domain.Place) (domain.Place, error)) {
	place, err := h.places.Edit(r.Context(), CurrentUser(r.Context()), r.PathValue("id"), op)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.log.WithField("place_id", place.ID).WithField("links", imported).Info("place imported")
	WriteJSON(h.log, w, http.StatusOK, ImportResponse{Place: place, Imported: imported, Warnings: nonNil(warnings)})
}

// ImportNew creates a place from a JSON export.
func (h *PlaceHandler) ImportNew(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	im, err := transfer.ImportJSON(bytes.NewReader(data))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	place, err := h.places.ImportPlace(r.Context(), CurrentUser(r.Context()), im)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.log.WithField("place_id", place.ID).Info("place created from import")
	WriteJSON(h.log, w, http.StatusCreated, ImportResponse{Place: place, Imported: im.Links.Len(), Warnings: nonNil(im.Warnings)})
}

// readUpload accepts either a multipart "file" field or the raw request body.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, bodyError(err, `missing upload field "file"`)
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, bodyError(err, "could not read upload")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrValidation)
	}
	return data, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
