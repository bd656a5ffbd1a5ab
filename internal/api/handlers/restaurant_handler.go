package handlers

import (
	"net/http"
	"strings"

	"github.com/zatekoja/zomavan/internal/application/services"
	"github.com/zatekoja/zomavan/internal/domain/entities"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/zomavan/pkg/errors"
)

const maxBatchSubzones = 20

// RestaurantHandler serves restaurant lookups
type RestaurantHandler struct {
	service services.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

// SubzoneRestaurantsResponse is the body of a single subzone lookup
type SubzoneRestaurantsResponse struct {
	SubzoneID   string                    `json:"subzone_id"`
	Restaurants []entities.RestaurantView `json:"restaurants"`
	Count       int                       `json:"count"`
	Error       string                    `json:"error,omitempty"`
}

// BatchRestaurantsResponse is the body of a multi-subzone lookup
type BatchRestaurantsResponse struct {
	Subzones []SubzoneRestaurantsResponse `json:"subzones"`
}

// ListSubzoneRestaurants handles GET /api/subzones/{id}/restaurants
func (h *RestaurantHandler) ListSubzoneRestaurants(w http.ResponseWriter, r *http.Request) {
	subzoneID := strings.TrimSpace(r.PathValue("id"))
	if subzoneID == "" {
		respondWithError(w, http.StatusBadRequest, "subzone id is required")
		return
	}

	restaurants, err := h.service.ListRestaurants(r.Context(), subzoneID)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("subzone_id", subzoneID).Msg("Restaurant lookup failed")
		respondWithError(w, statusForError(err), messageForError(err))
		return
	}

	views := entities.RestaurantViews(restaurants)
	respondWithJSON(w, http.StatusOK, SubzoneRestaurantsResponse{
		SubzoneID:   subzoneID,
		Restaurants: views,
		Count:       len(views),
	})
}

// ListRestaurants handles GET /api/restaurants?subzone_id=...&subzone_id=...
// Repeated ids count once toward the batch cap. Per-subzone failures are
// reported inline; the request itself succeeds.
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	var ids []string
	seen := make(map[string]struct{})
	for _, raw := range r.URL.Query()["subzone_id"] {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		respondWithError(w, http.StatusBadRequest, "at least one subzone_id parameter is required")
		return
	}
	if len(ids) > maxBatchSubzones {
		respondWithError(w, http.StatusBadRequest, "too many subzone_id values")
		return
	}

	results := h.service.ListRestaurantsForSubzones(r.Context(), ids)
	body := BatchRestaurantsResponse{Subzones: make([]SubzoneRestaurantsResponse, 0, len(results))}
	for _, result := range results {
		entry := SubzoneRestaurantsResponse{SubzoneID: result.SubzoneID, Restaurants: []entities.RestaurantView{}}
		if result.Err != nil {
			entry.Error = messageForError(result.Err)
		} else {
			entry.Restaurants = entities.RestaurantViews(result.Restaurants)
			entry.Count = len(entry.Restaurants)
		}
		body.Subzones = append(body.Subzones, entry)
	}

	respondWithJSON(w, http.StatusOK, body)
}

func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeDecoding, apperrors.ErrorTypeExternal, apperrors.ErrorTypeUpstreamStatus, apperrors.ErrorTypeUnauthorized:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeDecoding:
		return "unexpected response from restaurant provider"
	case apperrors.ErrorTypeExternal, apperrors.ErrorTypeUpstreamStatus, apperrors.ErrorTypeUnauthorized:
		return "restaurant provider unavailable"
	case apperrors.ErrorTypeValidation:
		return err.Error()
	default:
		return "failed to list restaurants"
	}
}
