package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/service"
)

// MatchService описывает операции жизненного цикла матча
type MatchService interface {
	CreateMatch(ctx context.Context, in service.CreateMatchInput) (*domain.Match, error)
	PromotePool(ctx context.Context, poolID, courtID string) (*domain.Match, error)
	FinishMatch(ctx context.Context, matchID string, teamAPoints, teamBPoints int) (*service.FinishOutcome, error)
	CancelMatch(ctx context.Context, matchID string) (*service.FinishOutcome, error)
	GetMatch(ctx context.Context, matchID string) (*domain.Match, error)
}

// MatchHandler обрабатывает эндпоинты матчей
type MatchHandler struct {
	matchService MatchService
}

// NewMatchHandler создает новый MatchHandler
func NewMatchHandler(matchService MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ParticipantRequest описывает игрока и его команду
type ParticipantRequest struct {
	MemberID string `json:"member_id"`
	Team     string `json:"team"`
}

// CreateMatchRequest представляет тело запроса на создание матча
type CreateMatchRequest struct {
	ClubID       string               `json:"club_id"`
	CourtID      string               `json:"court_id"`
	SessionID    string               `json:"session_id,omitempty"`
	Type         string               `json:"type,omitempty"`
	Participants []ParticipantRequest `json:"participants"`
}

// CreateMatch обрабатывает POST /matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.ClubID == "" || req.CourtID == "" || len(req.Participants) == 0 {
		badRequest(w, r, "club_id, court_id and participants are required")
		return
	}

	in := service.CreateMatchInput{
		ClubID:    req.ClubID,
		CourtID:   req.CourtID,
		SessionID: req.SessionID,
		Type:      req.Type,
	}
	for _, p := range req.Participants {
		in.Participants = append(in.Participants, service.ParticipantInput{MemberID: p.MemberID, Team: p.Team})
	}

	match, err := h.matchService.CreateMatch(r.Context(), in)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "match created", match)
}

// PromotePoolRequest представляет тело запроса на запуск матча из пула
type PromotePoolRequest struct {
	CourtID string `json:"court_id"`
}

// PromotePool обрабатывает POST /pools/{poolID}/promote
func (h *MatchHandler) PromotePool(w http.ResponseWriter, r *http.Request) {
	var req PromotePoolRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.CourtID == "" {
		badRequest(w, r, "court_id is required")
		return
	}

	match, err := h.matchService.PromotePool(r.Context(), chi.URLParam(r, "poolID"), req.CourtID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, "match created from pool", match)
}

// GetMatch обрабатывает GET /matches/{matchID}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "match retrieved", match)
}

// FinishMatchRequest представляет тело запроса на завершение матча
type FinishMatchRequest struct {
	TeamAPoints *int `json:"team_a_points"`
	TeamBPoints *int `json:"team_b_points"`
}

// FinishMatch обрабатывает POST /matches/{matchID}/finish
func (h *MatchHandler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	var req FinishMatchRequest
	if err := decodeJSON(r, &req, false); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.TeamAPoints == nil || req.TeamBPoints == nil {
		badRequest(w, r, "team_a_points and team_b_points are required")
		return
	}

	outcome, err := h.matchService.FinishMatch(r.Context(), chi.URLParam(r, "matchID"), *req.TeamAPoints, *req.TeamBPoints)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "match finished", outcome)
}

// CancelMatch обрабатывает POST /matches/{matchID}/cancel
func (h *MatchHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.matchService.CancelMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "match cancelled", outcome)
}
