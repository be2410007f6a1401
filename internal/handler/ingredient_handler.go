package handler

import (
	"net/http"
	"net/url"

	"dish-analyzer/internal/model"
	"dish-analyzer/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// IngredientHandler handles reference catalogue requests.
type IngredientHandler struct {
	service service.IngredientService
	logger  zerolog.Logger
}

// NewIngredientHandler creates a new ingredient handler.
func NewIngredientHandler(service service.IngredientService, logger zerolog.Logger) *IngredientHandler {
	return &IngredientHandler{
		service: service,
		logger:  logger.With().Str("handler", "ingredient").Logger(),
	}
}

// List handles GET /api/ingredients.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}

	writeJSON(w, r, http.StatusOK, ingredients)
}

// Upsert handles PUT /api/ingredients/{name}.
func (h *IngredientHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.IngredientRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid JSON request body"), h.logger)
		return
	}

	ingredient, err := h.service.Upsert(r.Context(), nameParam(r), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, ingredient)
}

// Delete handles DELETE /api/ingredients/{name}.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), nameParam(r)); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
