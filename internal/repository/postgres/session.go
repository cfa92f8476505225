package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

const sessionColumns = `id, club_id, start_time, end_time, type, is_active, remaining_participants, created_at`

// SessionRepository реализует repository.SessionRepository для PostgreSQL
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create создает сессию
func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (id, club_id, start_time, end_time, type, is_active, remaining_participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.ClubID, s.StartTime, s.EndTime, s.Type, s.IsActive, s.RemainingParticipants, s.CreatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrClubNotFound
		case isCheckViolation(err, "sessions_time_range"):
			return domain.ErrInvalidTimeRange
		case isCheckViolation(err, "sessions_remaining_non_negative"):
			return domain.ErrInvalidCapacity
		}
		return err
	}
	return nil
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	return r.get(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, sessionID)
}

// GetForUpdate получает сессию с блокировкой строки
func (r *SessionRepository) GetForUpdate(ctx context.Context, sessionID string) (*domain.Session, error) {
	return r.get(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, sessionID)
}

func (r *SessionRepository) get(ctx context.Context, query, sessionID string) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListActiveByClub возвращает активные сессии клуба
func (r *SessionRepository) ListActiveByClub(ctx context.Context, clubID string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE club_id = $1 AND is_active
		ORDER BY start_time, id
	`

	rows, err := r.db.Query(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// AdjustRemaining атомарно изменяет счетчик свободных мест.
// Уход счетчика ниже нуля отклоняется ограничением таблицы
func (r *SessionRepository) AdjustRemaining(ctx context.Context, sessionID string, delta int) (int, error) {
	query := `
		UPDATE sessions
		SET remaining_participants = remaining_participants + $2
		WHERE id = $1
		RETURNING remaining_participants
	`

	var remaining int
	err := r.db.QueryRow(ctx, query, sessionID, delta).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSessionNotFound
		}
		if isCheckViolation(err, "sessions_remaining_non_negative") {
			return 0, domain.ErrSessionFull
		}
		return 0, err
	}
	return remaining, nil
}

// Deactivate помечает сессию неактивной
func (r *SessionRepository) Deactivate(ctx context.Context, sessionID string) error {
	result, err := r.db.Exec(ctx, `UPDATE sessions SET is_active = FALSE WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// AssignCourt закрепляет корт за сессией
func (r *SessionRepository) AssignCourt(ctx context.Context, sc *domain.SessionCourt) error {
	query := `
		INSERT INTO session_courts (id, session_id, court_id, is_booked)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, sc.ID, sc.SessionID, sc.CourtID, sc.IsBooked)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCourtAlreadyAssigned
		}
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "session_courts_session_id_fkey" {
				return domain.ErrSessionNotFound
			}
			return domain.ErrCourtNotFound
		}
		return err
	}
	return nil
}

// GetCourtForUpdate получает закрепление корта с блокировкой строки
func (r *SessionRepository) GetCourtForUpdate(ctx context.Context, sessionID, courtID string) (*domain.SessionCourt, error) {
	query := `
		SELECT id, session_id, court_id, is_booked
		FROM session_courts
		WHERE session_id = $1 AND court_id = $2
		FOR UPDATE
	`

	var sc domain.SessionCourt
	err := r.db.QueryRow(ctx, query, sessionID, courtID).Scan(&sc.ID, &sc.SessionID, &sc.CourtID, &sc.IsBooked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionCourtMissing
		}
		return nil, err
	}
	return &sc, nil
}

// SetCourtBooked изменяет флаг занятости корта
func (r *SessionRepository) SetCourtBooked(ctx context.Context, sessionID, courtID string, booked bool) error {
	query := `UPDATE session_courts SET is_booked = $3 WHERE session_id = $1 AND court_id = $2`

	result, err := r.db.Exec(ctx, query, sessionID, courtID, booked)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSessionCourtMissing
	}
	return nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.ClubID,
		&s.StartTime,
		&s.EndTime,
		&s.Type,
		&s.IsActive,
		&s.RemainingParticipants,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
