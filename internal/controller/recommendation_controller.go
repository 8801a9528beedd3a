package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfagundes/storefront/internal/application/recommendation"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

// RecommendationController handles product suggestion requests.
type RecommendationController struct {
	suggestUC *recommendation.SuggestUseCase
}

// NewRecommendationController creates a new RecommendationController.
func NewRecommendationController(suggestUC *recommendation.SuggestUseCase) *RecommendationController {
	return &RecommendationController{suggestUC: suggestUC}
}

// Suggest handles GET /api/v1/recommendations/{user_id}
func (h *RecommendationController) Suggest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		writeError(w, domainErrors.NewValidationError("user_id", "cannot be empty"))
		return
	}

	recs, err := h.suggestUC.Suggest(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromRecommendations(userID, recs))
}
