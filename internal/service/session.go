package service

import (
	"context"
	"time"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/repository"
)

// CreateSessionInput describes a new session
type CreateSessionInput struct {
	ClubID    string
	StartTime time.Time
	EndTime   time.Time
	Type      string
	Capacity  int
}

// SessionService handles business logic for sessions and their court assignments
type SessionService struct {
	Deps
}

// NewSessionService creates a new SessionService
func NewSessionService(deps Deps) *SessionService {
	return &SessionService{Deps: deps.withDefaults()}
}

// CreateSession creates an active session together with its empty queue
func (s *SessionService) CreateSession(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	if in.ClubID == "" {
		return nil, domain.ErrMissingID
	}
	matchType, err := domain.ParseMatchType(in.Type)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:                    newID(),
		ClubID:                in.ClubID,
		StartTime:             in.StartTime.UTC().Truncate(time.Microsecond),
		EndTime:               in.EndTime.UTC().Truncate(time.Microsecond),
		Type:                  matchType,
		IsActive:              true,
		RemainingParticipants: in.Capacity,
		CreatedAt:             s.now(),
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		// club lock serializes overlap checks for the same club
		if _, err := tx.Roster().LockClub(ctx, session.ClubID); err != nil {
			return err
		}

		active, err := tx.Sessions().ListActiveByClub(ctx, session.ClubID)
		if err != nil {
			return err
		}
		for _, other := range active {
			if other.Overlaps(session.StartTime, session.EndTime) {
				return domain.ErrSessionOverlap
			}
		}

		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}
		return tx.Queues().Create(ctx, &domain.Queue{ID: newID(), SessionID: session.ID})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("session created",
		"session_id", session.ID,
		"club_id", session.ClubID,
		"type", session.Type,
		"capacity", session.RemainingParticipants,
	)
	return session, nil
}

// GetSession returns a session by ID
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.Store.Sessions().GetByID(ctx, sessionID)
}

// EndSession deactivates the session. Matches already in progress are left untouched.
func (s *SessionService) EndSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session *domain.Session
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		session, err = tx.Sessions().GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive {
			return domain.ErrSessionInactive
		}
		if err := tx.Sessions().Deactivate(ctx, sessionID); err != nil {
			return err
		}
		session.IsActive = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("session ended", "session_id", sessionID)
	return session, nil
}

// AssignCourt makes a club court bookable within the session
func (s *SessionService) AssignCourt(ctx context.Context, sessionID, courtID string) (*domain.SessionCourt, error) {
	if courtID == "" {
		return nil, domain.ErrMissingID
	}

	sc := &domain.SessionCourt{
		ID:        newID(),
		SessionID: sessionID,
		CourtID:   courtID,
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		session, err := tx.Sessions().GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		court, err := tx.Roster().GetCourt(ctx, courtID)
		if err != nil {
			return err
		}
		if court.ClubID != session.ClubID {
			return domain.ErrCourtNotInClub
		}
		return tx.Sessions().AssignCourt(ctx, sc)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("court assigned to session", "session_id", sessionID, "court_id", courtID)
	return sc, nil
}
