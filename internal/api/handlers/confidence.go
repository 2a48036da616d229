package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/api/middleware"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/service"
)

type ConfidenceHandler struct {
	svc     *service.ConfidenceService
	metrics *middleware.Metrics
	logger  *zap.Logger
}

func NewConfidenceHandler(svc *service.ConfidenceService, metrics *middleware.Metrics, logger *zap.Logger) *ConfidenceHandler {
	return &ConfidenceHandler{svc: svc, metrics: metrics, logger: logger}
}

func (h *ConfidenceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.ScoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Calculate(r.Context(), &req)
	if err != nil {
		if !domain.IsInvalidInput(err) {
			h.logger.Error("confidence calculation failed",
				zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
				zap.Error(err),
			)
		}
		writeDomainError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveScore(result.Source)
	}
	writeJSON(w, http.StatusOK, result)
}
