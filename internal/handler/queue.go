package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/middleware"
)

// QueueService описывает операции над очередью сессии
type QueueService interface {
	Enqueue(ctx context.Context, sessionID, memberID string) (*domain.QueueEntry, error)
	Dequeue(ctx context.Context, entryID string) (*domain.QueueEntry, error)
	ListOrdered(ctx context.Context, sessionID string) ([]*domain.QueueEntry, error)
}

// QueueHandler обрабатывает эндпоинты очереди
type QueueHandler struct {
	queueService QueueService
}

// NewQueueHandler создает новый QueueHandler
func NewQueueHandler(queueService QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// EnqueueRequest представляет тело запроса на вход в очередь.
// Без member_id в очередь встает аутентифицированный участник
type EnqueueRequest struct {
	MemberID string `json:"member_id"`
}

// Enqueue обрабатывает POST /sessions/{sessionID}/queue
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := decodeJSON(r, &req, true); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	memberID := req.MemberID
	if memberID == "" {
		memberID = middleware.GetMemberIDFromContext(r.Context())
	}
	if memberID == "" {
		badRequest(w, r, "member_id is required")
		return
	}

	entry, err := h.queueService.Enqueue(r.Context(), chi.URLParam(r, "sessionID"), memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "joined session queue", entry)
}

// Dequeue обрабатывает DELETE /queue-entries/{entryID}
func (h *QueueHandler) Dequeue(w http.ResponseWriter, r *http.Request) {
	entry, err := h.queueService.Dequeue(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "left session queue", entry)
}

// ListQueue обрабатывает GET /sessions/{sessionID}/queue
func (h *QueueHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queueService.ListOrdered(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	page, limit := pagination(r)
	items, meta := paginate(entries, page, limit)
	RespondWithList(w, r, "queue retrieved", items, meta)
}
