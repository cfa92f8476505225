package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/service"
)

// SessionService описывает операции над сессиями, нужные обработчикам
type SessionService interface {
	CreateSession(ctx context.Context, in service.CreateSessionInput) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string) (*domain.Session, error)
	AssignCourt(ctx context.Context, sessionID, courtID string) (*domain.SessionCourt, error)
}

// SessionHandler обрабатывает эндпоинты сессий
type SessionHandler struct {
	sessionService SessionService
}

// NewSessionHandler создает новый SessionHandler
func NewSessionHandler(sessionService SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest представляет тело запроса на создание сессии
type CreateSessionRequest struct {
	ClubID    string    `json:"club_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Type      string    `json:"type"`
	Capacity  int       `json:"capacity"`
}

// CreateSession обрабатывает POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	if req.ClubID == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		badRequest(w, r, "club_id, start_time and end_time are required")
		return
	}

	session, err := h.sessionService.CreateSession(r.Context(), service.CreateSessionInput{
		ClubID:    req.ClubID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      req.Type,
		Capacity:  req.Capacity,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "session created", session)
}

// GetSession обрабатывает GET /sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "session retrieved", session)
}

// EndSession обрабатывает POST /sessions/{sessionID}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "session ended", session)
}

// AssignCourtRequest представляет тело запроса на закрепление корта
type AssignCourtRequest struct {
	CourtID string `json:"court_id"`
}

// AssignCourt обрабатывает POST /sessions/{sessionID}/courts
func (h *SessionHandler) AssignCourt(w http.ResponseWriter, r *http.Request) {
	var req AssignCourtRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.CourtID == "" {
		badRequest(w, r, "court_id is required")
		return
	}

	sc, err := h.sessionService.AssignCourt(r.Context(), chi.URLParam(r, "sessionID"), req.CourtID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "court assigned", sc)
}
