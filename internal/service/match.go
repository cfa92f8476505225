package service

import (
	"context"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/events"
	"github.com/aidar/courtmatch/internal/repository"
)

// ParticipantInput places a member on a team
type ParticipantInput struct {
	MemberID string
	Team     string
}

// CreateMatchInput describes a match formed directly from a known lineup
type CreateMatchInput struct {
	ClubID       string
	CourtID      string
	SessionID    string // optional
	Type         string // defaults to the session type, or DOUBLES without a session
	Participants []ParticipantInput
}

// FinishOutcome is the match after finishing together with the re-queued entries
type FinishOutcome struct {
	Match    *domain.Match        `json:"match"`
	Winner   domain.Team          `json:"winner,omitempty"`
	Requeued []*domain.QueueEntry `json:"requeued"`
}

// MatchService handles the match lifecycle
type MatchService struct {
	Deps
}

// NewMatchService creates a new MatchService
func NewMatchService(deps Deps) *MatchService {
	return &MatchService{Deps: deps.withDefaults()}
}

// CreateMatch forms a match on a court from an explicit lineup
func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (*domain.Match, error) {
	if in.ClubID == "" || in.CourtID == "" {
		return nil, domain.ErrMissingID
	}

	match := &domain.Match{
		ID:        newID(),
		ClubID:    in.ClubID,
		CourtID:   in.CourtID,
		Status:    domain.MatchStatusFormed,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	if in.SessionID != "" {
		sessionID := in.SessionID
		match.SessionID = &sessionID
	}

	positions := map[domain.Team]int{}
	for _, p := range in.Participants {
		if p.MemberID == "" {
			return nil, domain.ErrMissingID
		}
		team, err := domain.ParseTeam(p.Team)
		if err != nil {
			return nil, err
		}
		match.Participants = append(match.Participants, &domain.MatchParticipant{
			ID:       newID(),
			MatchID:  match.ID,
			MemberID: p.MemberID,
			Team:     team,
			Position: positions[team],
		})
		positions[team]++
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if match.SessionID != nil {
			session, err := tx.Sessions().GetForUpdate(ctx, *match.SessionID)
			if err != nil {
				return err
			}
			if in.Type == "" {
				match.Type = session.Type
			}
		}
		if match.Type == "" {
			t, err := domain.ParseMatchType(in.Type)
			if err != nil {
				return err
			}
			match.Type = t
		}
		if err := domain.ValidateLineup(match.Type, match.Participants); err != nil {
			return err
		}

		if id, err := tx.Pools().FindOpenParticipation(ctx, match.MemberIDs()); err != nil {
			return err
		} else if id != "" {
			return domain.ErrMemberAlreadyInPool
		}

		return s.formInTx(ctx, tx, match)
	})
	if err != nil {
		return nil, err
	}

	s.matchCreated(ctx, match)
	return match, nil
}

// PromotePool turns a complete open pool into a match on the given court
func (s *MatchService) PromotePool(ctx context.Context, poolID, courtID string) (*domain.Match, error) {
	if poolID == "" || courtID == "" {
		return nil, domain.ErrMissingID
	}

	pool, err := s.Store.Pools().GetByID(ctx, poolID)
	if err != nil {
		return nil, err
	}

	var match *domain.Match
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		session, err := tx.Sessions().GetForUpdate(ctx, pool.SessionID)
		if err != nil {
			return err
		}
		if _, err := ensureQueue(ctx, tx, pool.SessionID); err != nil {
			return err
		}
		locked, err := tx.Pools().GetForUpdate(ctx, poolID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			return domain.ErrPoolClosed
		}
		if !locked.IsComplete() {
			return domain.ErrInvalidTeamSize
		}

		sessionID, lockedPoolID := session.ID, locked.ID
		match = &domain.Match{
			ID:        newID(),
			ClubID:    session.ClubID,
			CourtID:   courtID,
			SessionID: &sessionID,
			PoolID:    &lockedPoolID,
			Type:      locked.Type,
			Status:    domain.MatchStatusFormed,
			IsActive:  true,
			CreatedAt: s.now(),
		}
		for _, team := range []domain.Team{domain.TeamA, domain.TeamB} {
			for i, pp := range locked.TeamMembers(team) {
				match.Participants = append(match.Participants, &domain.MatchParticipant{
					ID:       newID(),
					MatchID:  match.ID,
					MemberID: pp.MemberID,
					Team:     team,
					Position: i,
				})
			}
		}

		if err := s.formInTx(ctx, tx, match); err != nil {
			return err
		}
		return tx.Pools().SetStatus(ctx, poolID, domain.PoolStatusPromoted)
	})
	if err != nil {
		return nil, err
	}

	s.matchCreated(ctx, match)
	return match, nil
}

// formInTx validates the court and the lineup availability, books the session court
// and stores the match. Session and queue rows are locked by the caller.
func (s *MatchService) formInTx(ctx context.Context, tx repository.Store, match *domain.Match) error {
	if _, err := tx.Roster().GetClub(ctx, match.ClubID); err != nil {
		return err
	}
	court, err := tx.Roster().GetCourt(ctx, match.CourtID)
	if err != nil {
		return err
	}
	if court.ClubID != match.ClubID {
		return domain.ErrCourtNotInClub
	}

	var queue *domain.Queue
	if match.SessionID != nil {
		session, err := tx.Sessions().GetForUpdate(ctx, *match.SessionID)
		if err != nil {
			return err
		}
		if session.ClubID != match.ClubID {
			return domain.ErrSessionNotInClub
		}
		if queue, err = ensureQueue(ctx, tx, session.ID); err != nil {
			return err
		}
	}

	memberIDs := match.MemberIDs()
	if _, err := tx.Roster().LockMembers(ctx, memberIDs); err != nil {
		return err
	}
	if id, err := tx.Matches().FindActiveParticipation(ctx, memberIDs); err != nil {
		return err
	} else if id != "" {
		return domain.ErrMemberInActiveMatch
	}

	busy, err := tx.Matches().CourtHasActiveMatch(ctx, match.CourtID)
	if err != nil {
		return err
	}
	if busy {
		return domain.ErrCourtBusy
	}

	if queue != nil {
		sc, err := tx.Sessions().GetCourtForUpdate(ctx, queue.SessionID, match.CourtID)
		if err != nil {
			return err
		}
		if sc.IsBooked {
			return domain.ErrCourtBusy
		}
		if err := tx.Sessions().SetCourtBooked(ctx, queue.SessionID, match.CourtID, true); err != nil {
			return err
		}
		// players committed to the match leave the queue
		if _, err := tx.Queues().DeleteMembers(ctx, queue.ID, memberIDs); err != nil {
			return err
		}
	}

	return tx.Matches().Create(ctx, match)
}

func (s *MatchService) matchCreated(ctx context.Context, match *domain.Match) {
	sessionID := ""
	if match.SessionID != nil {
		sessionID = *match.SessionID
	}

	s.Metrics.IncMatchesCreated()
	s.Logger.Info("match created",
		"match_id", match.ID,
		"court_id", match.CourtID,
		"session_id", sessionID,
		"type", match.Type,
	)
	s.publish(ctx, events.EventMatchCreated, sessionID, match)
}

// FinishMatch records the score, frees the court and re-queues every participant,
// winners first, all in one transaction
func (s *MatchService) FinishMatch(ctx context.Context, matchID string, teamAPoints, teamBPoints int) (*FinishOutcome, error) {
	if matchID == "" {
		return nil, domain.ErrMissingID
	}

	outcome := &FinishOutcome{}
	err := s.close(ctx, matchID, func(m *domain.Match) ([]*domain.MatchParticipant, error) {
		result, err := m.Finish(teamAPoints, teamBPoints, s.now())
		if err != nil {
			return nil, err
		}
		outcome.Winner = result.Winner
		return result.Requeue, nil
	}, outcome)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncMatchesFinished()
	s.Logger.Info("match finished",
		"match_id", matchID,
		"winner", outcome.Winner,
		"team_a_points", teamAPoints,
		"team_b_points", teamBPoints,
		"requeued", len(outcome.Requeued),
	)
	s.publish(ctx, events.EventMatchFinished, sessionOf(outcome.Match), outcome)
	return outcome, nil
}

// CancelMatch ends a formed match without a result, frees the court and re-queues participants
func (s *MatchService) CancelMatch(ctx context.Context, matchID string) (*FinishOutcome, error) {
	if matchID == "" {
		return nil, domain.ErrMissingID
	}

	outcome := &FinishOutcome{}
	err := s.close(ctx, matchID, func(m *domain.Match) ([]*domain.MatchParticipant, error) {
		return m.Cancel(s.now())
	}, outcome)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncMatchesCancelled()
	s.Logger.Info("match cancelled", "match_id", matchID, "requeued", len(outcome.Requeued))
	s.publish(ctx, events.EventMatchCancelled, sessionOf(outcome.Match), outcome)
	return outcome, nil
}

// close applies a terminal transition and its side effects in one transaction.
// transition returns the participants to re-queue in order.
func (s *MatchService) close(
	ctx context.Context,
	matchID string,
	transition func(m *domain.Match) ([]*domain.MatchParticipant, error),
	outcome *FinishOutcome,
) error {
	snapshot, err := s.Store.Matches().GetByID(ctx, matchID)
	if err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var queue *domain.Queue
		if snapshot.SessionID != nil {
			if _, err := tx.Sessions().GetForUpdate(ctx, *snapshot.SessionID); err != nil {
				return err
			}
			if queue, err = ensureQueue(ctx, tx, *snapshot.SessionID); err != nil {
				return err
			}
		}

		match, err := tx.Matches().GetForUpdate(ctx, matchID)
		if err != nil {
			return err
		}

		requeueOrder, err := transition(match)
		if err != nil {
			return err
		}
		if err := tx.Matches().SaveOutcome(ctx, match); err != nil {
			return err
		}

		if queue != nil {
			if err := tx.Sessions().SetCourtBooked(ctx, queue.SessionID, match.CourtID, false); err != nil {
				return err
			}

			memberIDs := make([]string, len(requeueOrder))
			for i, p := range requeueOrder {
				memberIDs[i] = p.MemberID
			}
			if outcome.Requeued, err = requeue(ctx, tx, queue, memberIDs, s.now()); err != nil {
				return err
			}
		}

		outcome.Match = match
		return nil
	})
}

// GetMatch returns a match with its participants
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	return s.Store.Matches().GetByID(ctx, matchID)
}

func sessionOf(m *domain.Match) string {
	if m == nil || m.SessionID == nil {
		return ""
	}
	return *m.SessionID
}
