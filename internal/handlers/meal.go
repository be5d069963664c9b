package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dailydiet/apiserver/internal/services"
	"github.com/dailydiet/apiserver/internal/store"
	"github.com/dailydiet/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MealHandler provides HTTP handlers for a user's meals. Every handler reads
// the authenticated identity bound by RequireAuth and scopes its queries by
// it; a meal owned by someone else is indistinguishable from one that does
// not exist.
type MealHandler struct {
	mealService *services.MealService
}

// NewMealHandler constructs a handler with the provided service.
func NewMealHandler(mealService *services.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// MealRouter registers meal routes on the given router. All routes require
// authentication.
func MealRouter(r chi.Router, mealService *services.MealService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewMealHandler(mealService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListMeals)
	r.Post("/", handler.CreateMeal)
	r.Get("/metrics", handler.MealMetrics)
	r.Route("/{mealID}", func(r chi.Router) {
		r.Get("/", handler.GetMeal)
		r.Put("/", handler.UpdateMeal)
		r.Delete("/", handler.DeleteMeal)
	})
}

func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	meals, err := h.mealService.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("meal list failed")
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}

	writeJSON(w, http.StatusOK, MealListResponse{Meals: meals})
}

func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseMealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.mealService.FindOwned(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Meal not found!")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch meal")
		return
	}

	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := parseMealBody(r, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.mealService.Create(r.Context(), types.Meal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsDiet:      *req.IsDiet,
	})
	if err != nil {
		log.Error().Err(err).Msg("meal insert failed")
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseMealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := parseMealBody(r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	createdAt, err := time.Parse(time.RFC3339, req.CreatedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid created_at")
		return
	}

	// A zero match (missing id or someone else's meal) is deliberately not
	// reported; the response is the same either way.
	_, err = h.mealService.UpdateOwned(r.Context(), types.Meal{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsDiet:      *req.IsDiet,
		CreatedAt:   createdAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("meal update failed")
		writeError(w, http.StatusInternalServerError, "failed to update meal")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := parseMealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.mealService.DeleteOwned(r.Context(), id, userID); err != nil {
		log.Error().Err(err).Msg("meal delete failed")
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}

	// Confirmed whether or not a row existed.
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Content deleted"})
}

func (h *MealHandler) MealMetrics(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	metrics, err := h.mealService.Metrics(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("meal metrics failed")
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// MealListResponse wraps the owner's meals.
type MealListResponse struct {
	Meals []types.Meal `json:"meals"`
}

// MealUpsertRequest is the JSON body for create and update. IsDiet is a
// pointer so a missing field can be told apart from false.
type MealUpsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDiet      *bool  `json:"isDiet"`
	CreatedAt   string `json:"created_at"`
}

func parseMealID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "mealID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errors.New("invalid meal id")
	}
	return id.String(), nil
}

func parseMealBody(r *http.Request, requireCreatedAt bool) (MealUpsertRequest, error) {
	var req MealUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return MealUpsertRequest{}, errors.New("invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.Description == "" || req.IsDiet == nil {
		return MealUpsertRequest{}, errors.New("missing required fields")
	}
	if requireCreatedAt && strings.TrimSpace(req.CreatedAt) == "" {
		return MealUpsertRequest{}, errors.New("missing required fields")
	}

	return req, nil
}
