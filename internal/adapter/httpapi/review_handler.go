package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"github.com/debeshghorui/Roomsy/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewHandler exposes review operations over HTTP.
type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewReviewHandler(reviews *usecase.ReviewUsecase, m *metrics.Manager, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, metrics: m, logger: log.Named("ReviewHandler")}
}

type createReviewRequest struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int32  `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Invalid request body for review creation", zap.Error(err))
		respondError(w, h.logger, h.metrics, "create_review", domain.NewValidationError("body", "invalid request body"))
		return
	}

	review, err := h.reviews.Create(r.Context(), principalFrom(r.Context()), listingID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.logger, h.metrics, "create_review", err)
		return
	}

	h.metrics.ReviewsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, toReviewDTO(review))
}

func (h *ReviewHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, h.metrics, "update_review", domain.NewValidationError("body", "invalid request body"))
		return
	}

	review, err := h.reviews.Update(r.Context(), principalFrom(r.Context()), reviewID, domain.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(w, h.logger, h.metrics, "update_review", err)
		return
	}
	respondJSON(w, http.StatusOK, toReviewDTO(review))
}

func (h *ReviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "reviewId")

	if err := h.reviews.Delete(r.Context(), principalFrom(r.Context()), listingID, reviewID); err != nil {
		respondError(w, h.logger, h.metrics, "delete_review", err)
		return
	}

	h.metrics.ReviewDeletesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) HandleListByListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	reviews, err := h.reviews.ListByListing(r.Context(), listingID)
	if err != nil {
		respondError(w, h.logger, h.metrics, "list_reviews", err)
		return
	}

	dtos := make([]reviewDTO, 0, len(reviews))
	for _, review := range reviews {
		dtos = append(dtos, toReviewDTO(review))
	}
	respondJSON(w, http.StatusOK, dtos)
}
