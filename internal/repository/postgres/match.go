package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

// MatchRepository реализует repository.MatchRepository для PostgreSQL
type MatchRepository struct {
	db DBTX
}

// NewMatchRepository создает новый экземпляр MatchRepository
func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create создает матч вместе с участниками
func (r *MatchRepository) Create(ctx context.Context, m *domain.Match) error {
	query := `
		INSERT INTO matches (id, club_id, court_id, session_id, pool_id, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query, m.ID, m.ClubID, m.CourtID, m.SessionID, m.PoolID, m.Type, m.Status, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == "matches_one_active_per_court" {
			return domain.ErrCourtBusy
		}
		if isForeignKeyViolation(err) {
			switch violatedConstraint(err) {
			case "matches_club_id_fkey":
				return domain.ErrClubNotFound
			case "matches_session_id_fkey":
				return domain.ErrSessionNotFound
			case "matches_pool_id_fkey":
				return domain.ErrPoolNotFound
			}
			return domain.ErrCourtNotFound
		}
		return err
	}

	participantQuery := `
		INSERT INTO match_participants (id, match_id, member_id, team, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, p := range m.Participants {
		_, err := r.db.Exec(ctx, participantQuery, p.ID, p.MatchID, p.MemberID, p.Team, p.Position)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateMember
			}
			if isForeignKeyViolation(err) {
				return domain.ErrMemberNotFound
			}
			return err
		}
	}
	return nil
}

// GetByID получает матч с участниками
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*domain.Match, error) {
	return r.get(ctx, false, matchID)
}

// GetForUpdate получает матч с блокировкой строки
func (r *MatchRepository) GetForUpdate(ctx context.Context, matchID string) (*domain.Match, error) {
	return r.get(ctx, true, matchID)
}

func (r *MatchRepository) get(ctx context.Context, forUpdate bool, matchID string) (*domain.Match, error) {
	query := `
		SELECT id, club_id, court_id, session_id, pool_id, type, status, created_at, ended_at
		FROM matches
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m domain.Match
	err := r.db.QueryRow(ctx, query, matchID).Scan(
		&m.ID,
		&m.ClubID,
		&m.CourtID,
		&m.SessionID,
		&m.PoolID,
		&m.Type,
		&m.Status,
		&m.CreatedAt,
		&m.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	m.IsActive = m.Status == domain.MatchStatusFormed

	participantsQuery := `
		SELECT id, match_id, member_id, team, position, is_won, points
		FROM match_participants
		WHERE match_id = $1
		ORDER BY team, position
	`

	rows, err := r.db.Query(ctx, participantsQuery, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.MatchParticipant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.MemberID, &p.Team, &p.Position, &p.IsWon, &p.Points); err != nil {
			return nil, err
		}
		m.Participants = append(m.Participants, &p)
	}

	return &m, rows.Err()
}

// FindActiveParticipation ищет участника, уже играющего в активном матче
func (r *MatchRepository) FindActiveParticipation(ctx context.Context, memberIDs []string) (string, error) {
	if len(memberIDs) == 0 {
		return "", nil
	}

	query := `
		SELECT mp.member_id
		FROM match_participants mp
		JOIN matches m ON m.id = mp.match_id
		WHERE m.status = $1 AND mp.member_id = ANY($2)
		ORDER BY mp.member_id
		LIMIT 1
	`

	var memberID string
	err := r.db.QueryRow(ctx, query, domain.MatchStatusFormed, memberIDs).Scan(&memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return memberID, nil
}

// HasActiveParticipationInSession проверяет участие в активном матче сессии
func (r *MatchRepository) HasActiveParticipationInSession(ctx context.Context, sessionID, memberID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM match_participants mp
			JOIN matches m ON m.id = mp.match_id
			WHERE m.session_id = $1 AND mp.member_id = $2 AND m.status = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, sessionID, memberID, domain.MatchStatusFormed).Scan(&exists)
	return exists, err
}

// CourtHasActiveMatch проверяет наличие активного матча на корте
func (r *MatchRepository) CourtHasActiveMatch(ctx context.Context, courtID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM matches WHERE court_id = $1 AND status = $2)`

	var exists bool
	err := r.db.QueryRow(ctx, query, courtID, domain.MatchStatusFormed).Scan(&exists)
	return exists, err
}

// SaveOutcome сохраняет статус матча и результаты участников
func (r *MatchRepository) SaveOutcome(ctx context.Context, m *domain.Match) error {
	result, err := r.db.Exec(ctx,
		`UPDATE matches SET status = $2, ended_at = $3 WHERE id = $1`,
		m.ID, m.Status, m.EndedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMatchNotFound
	}

	participantQuery := `UPDATE match_participants SET is_won = $2, points = $3 WHERE id = $1`
	for _, p := range m.Participants {
		if _, err := r.db.Exec(ctx, participantQuery, p.ID, p.IsWon, p.Points); err != nil {
			return err
		}
	}
	return nil
}
