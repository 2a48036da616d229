package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/service"
)

type SummaryHandler struct {
	svc    *service.SummaryService
	logger *zap.Logger
}

func NewSummaryHandler(svc *service.SummaryService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{svc: svc, logger: logger}
}

type summaryRequest struct {
	Reviews        []domain.ReviewDigest `json:"reviews"`
	RestaurantName string                `json:"restaurantName"`
}

func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.svc.Summarize(r.Context(), req.RestaurantName, req.Reviews)
	if err != nil {
		if !domain.IsInvalidInput(err) {
			h.logger.Error("review summary failed", zap.Error(err))
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
