package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

// PoolService описывает операции над пулами матчей
type PoolService interface {
	GenerateMatchPool(ctx context.Context, sessionID, gender string) (*domain.Pool, error)
	GetPool(ctx context.Context, poolID string) (*domain.Pool, error)
	AddParticipant(ctx context.Context, poolID, entryID, team string) (*domain.Pool, error)
	RemoveParticipant(ctx context.Context, participantID string) (*domain.QueueEntry, error)
}

// PoolHandler обрабатывает эндпоинты пулов
type PoolHandler struct {
	poolService PoolService
}

// NewPoolHandler создает новый PoolHandler
func NewPoolHandler(poolService PoolService) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// GeneratePoolRequest представляет необязательное тело запроса на формирование пула
type GeneratePoolRequest struct {
	Gender string `json:"gender"`
}

// GeneratePool обрабатывает POST /sessions/{sessionID}/pools
func (h *PoolHandler) GeneratePool(w http.ResponseWriter, r *http.Request) {
	var req GeneratePoolRequest
	if err := decodeJSON(r, &req, true); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Gender == "" {
		req.Gender = r.URL.Query().Get("gender")
	}

	pool, err := h.poolService.GenerateMatchPool(r.Context(), chi.URLParam(r, "sessionID"), req.Gender)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "match pool generated", pool)
}

// GetPool обрабатывает GET /pools/{poolID}
func (h *PoolHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.poolService.GetPool(r.Context(), chi.URLParam(r, "poolID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "match pool retrieved", pool)
}

// AddParticipantRequest представляет тело запроса на ручное добавление в пул
type AddParticipantRequest struct {
	QueueEntryID string `json:"queue_entry_id"`
	Team         string `json:"team"`
}

// AddParticipant обрабатывает POST /pools/{poolID}/participants
func (h *PoolHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req AddParticipantRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.QueueEntryID == "" || req.Team == "" {
		badRequest(w, r, "queue_entry_id and team are required")
		return
	}

	pool, err := h.poolService.AddParticipant(r.Context(), chi.URLParam(r, "poolID"), req.QueueEntryID, req.Team)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "participant added to match pool", pool)
}

// RemoveParticipant обрабатывает DELETE /pool-participants/{participantID}
func (h *PoolHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	entry, err := h.poolService.RemoveParticipant(r.Context(), chi.URLParam(r, "participantID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "participant returned to queue", entry)
}
