package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/service"
	"github.com/tastechain/reviewscore/internal/store"
)

type ScoreHandler struct {
	svc *service.ScoreService
}

func NewScoreHandler(svc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

func (h *ScoreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid score id")
		return
	}

	rec, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLedgerDisabled):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrScoreNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to get score")
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type listScoresResponse struct {
	Scores []domain.ScoreRecord `json:"scores"`
	Count  int                  `json:"count"`
}

func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := domain.ScoreListOpts{RestaurantName: r.URL.Query().Get("restaurant")}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > store.MaxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		opts.Limit = limit
	}

	records, err := h.svc.ListRecent(r.Context(), opts)
	if err != nil {
		if errors.Is(err, service.ErrLedgerDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list scores")
		return
	}

	writeJSON(w, http.StatusOK, listScoresResponse{Scores: records, Count: len(records)})
}
