package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/geo"
	mw "github.com/deskhub/offices-api/internal/http/middleware"
	"github.com/deskhub/offices-api/internal/http/response"
	"github.com/deskhub/offices-api/internal/service"
	"github.com/deskhub/offices-api/pkg/logger"
)

type OfficeHandler struct {
	svc     service.OfficeService
	baseURL string
}

func NewOfficeHandler(svc service.OfficeService, baseURL string) *OfficeHandler {
	return &OfficeHandler{svc: svc, baseURL: baseURL}
}

// List handles GET /offices. Malformed filter parameters are rejected with
// 422 rather than silently ignored.
func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	offices, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list offices", "error", err)
		response.InternalError(w, "failed to list offices")
		return
	}

	dtos := toOfficeDTOs(offices, filter.Near)
	writeJSON(w, http.StatusOK, newCollection(dtos, total, filter, h.baseURL, r.URL.Path))
}

// Show handles GET /offices/{id}.
func (h *OfficeHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	office, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get office")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": toOfficeDTO(office, nil)})
}

// Create handles POST /offices. The router guards it with RequireJWT and
// RequireScope(office.create), so a missing grant is rejected before any
// persistence happens.
func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	var in domain.OfficeCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	office, err := h.svc.Create(r.Context(), claims.UserID, &in)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create office")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": toOfficeDTO(office, nil)})
}

// Update handles PUT /offices/{id}. Owner-only; any change besides the
// hidden flag sends the office back to pending approval.
func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := parseID(r)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	var patch domain.OfficePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	office, err := h.svc.Update(r.Context(), claims.UserID, id, patch)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update office")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": toOfficeDTO(office, nil)})
}

func (h *OfficeHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "office not found")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, "forbidden")
	case errors.Is(err, domain.ErrValidation):
		response.UnprocessableEntity(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), msg, "error", err)
		response.InternalError(w, msg)
	}
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid office id %q", raw)
	}
	return id, nil
}

func parseListFilter(r *http.Request) (domain.OfficeFilter, error) {
	var f domain.OfficeFilter
	q := r.URL.Query()

	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid user_id %q", v)
		}
		f.UserID = &id
	}

	if v := q.Get("visitor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid visitor_id %q", v)
		}
		f.VisitorID = &id
	}

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if (latRaw == "") != (lngRaw == "") {
		return f, fmt.Errorf("lat and lng must be supplied together")
	}
	if latRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return f, fmt.Errorf("invalid lat %q", latRaw)
		}
		lng, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil {
			return f, fmt.Errorf("invalid lng %q", lngRaw)
		}
		p := geo.Point{Lat: lat, Lng: lng}
		if !p.Valid() {
			return f, fmt.Errorf("coordinates out of range")
		}
		f.Near = &p
	}

	f.Page = 1
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return f, fmt.Errorf("invalid page %q", v)
		}
		f.Page = page
	}

	return f, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
