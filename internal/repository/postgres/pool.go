package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

// PoolRepository реализует repository.PoolRepository для PostgreSQL
type PoolRepository struct {
	db DBTX
}

// NewPoolRepository создает новый экземпляр PoolRepository
func NewPoolRepository(db DBTX) *PoolRepository {
	return &PoolRepository{db: db}
}

// Create создает пул и его участников
func (r *PoolRepository) Create(ctx context.Context, p *domain.Pool) error {
	query := `
		INSERT INTO match_pools (id, session_id, type, status, power_delta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, p.ID, p.SessionID, p.Type, p.Status, p.PowerDelta, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSessionNotFound
		}
		return err
	}

	for _, pp := range p.Participants {
		if err := r.AddParticipant(ctx, pp); err != nil {
			return err
		}
	}
	return nil
}

// GetByID получает пул с участниками
func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (*domain.Pool, error) {
	return r.get(ctx, false, poolID)
}

// GetForUpdate получает пул с блокировкой строки
func (r *PoolRepository) GetForUpdate(ctx context.Context, poolID string) (*domain.Pool, error) {
	return r.get(ctx, true, poolID)
}

func (r *PoolRepository) get(ctx context.Context, forUpdate bool, poolID string) (*domain.Pool, error) {
	query := `
		SELECT id, session_id, type, status, power_delta, created_at
		FROM match_pools
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var p domain.Pool
	err := r.db.QueryRow(ctx, query, poolID).Scan(
		&p.ID,
		&p.SessionID,
		&p.Type,
		&p.Status,
		&p.PowerDelta,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}

	participantsQuery := `
		SELECT pp.id, pp.pool_id, pp.member_id, pp.team, pp.position,
		       m.id, m.club_id, m.name, m.gender, COALESCE(m.level, '')
		FROM pool_participants pp
		JOIN members m ON m.id = pp.member_id
		WHERE pp.pool_id = $1
		ORDER BY pp.position, pp.id
	`

	rows, err := r.db.Query(ctx, participantsQuery, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pp domain.PoolParticipant
		var m domain.Member
		var level string
		if err := rows.Scan(
			&pp.ID, &pp.PoolID, &pp.MemberID, &pp.Team, &pp.Position,
			&m.ID, &m.ClubID, &m.Name, &m.Gender, &level,
		); err != nil {
			return nil, err
		}
		m.Level = domain.Level(level)
		pp.Member = &m
		p.Participants = append(p.Participants, &pp)
	}

	return &p, rows.Err()
}

// AddParticipant добавляет участника в пул
func (r *PoolRepository) AddParticipant(ctx context.Context, pp *domain.PoolParticipant) error {
	query := `
		INSERT INTO pool_participants (id, pool_id, member_id, team, position)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, pp.ID, pp.PoolID, pp.MemberID, pp.Team, pp.Position)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrMemberAlreadyInPool
		}
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "pool_participants_pool_id_fkey" {
				return domain.ErrPoolNotFound
			}
			return domain.ErrMemberNotFound
		}
		return err
	}
	return nil
}

// GetParticipant получает участника пула
func (r *PoolRepository) GetParticipant(ctx context.Context, participantID string) (*domain.PoolParticipant, error) {
	query := `
		SELECT id, pool_id, member_id, team, position
		FROM pool_participants
		WHERE id = $1
	`

	var pp domain.PoolParticipant
	err := r.db.QueryRow(ctx, query, participantID).Scan(&pp.ID, &pp.PoolID, &pp.MemberID, &pp.Team, &pp.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolMemberNotFound
		}
		return nil, err
	}
	return &pp, nil
}

// DeleteParticipant удаляет участника пула
func (r *PoolRepository) DeleteParticipant(ctx context.Context, participantID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM pool_participants WHERE id = $1`, participantID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPoolMemberNotFound
	}
	return nil
}

// SetStatus изменяет статус пула
func (r *PoolRepository) SetStatus(ctx context.Context, poolID string, status domain.PoolStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE match_pools SET status = $2 WHERE id = $1`, poolID, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

// FindOpenParticipation ищет участника, уже состоящего в открытом пуле
func (r *PoolRepository) FindOpenParticipation(ctx context.Context, memberIDs []string) (string, error) {
	if len(memberIDs) == 0 {
		return "", nil
	}

	query := `
		SELECT pp.member_id
		FROM pool_participants pp
		JOIN match_pools p ON p.id = pp.pool_id
		WHERE p.status = $1 AND pp.member_id = ANY($2)
		ORDER BY pp.member_id
		LIMIT 1
	`

	var memberID string
	err := r.db.QueryRow(ctx, query, domain.PoolStatusOpen, memberIDs).Scan(&memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return memberID, nil
}

// ListOpenParticipants возвращает участников из списка, уже состоящих в открытых пулах
func (r *PoolRepository) ListOpenParticipants(ctx context.Context, memberIDs []string) ([]string, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT pp.member_id
		FROM pool_participants pp
		JOIN match_pools p ON p.id = pp.pool_id
		WHERE p.status = $1 AND pp.member_id = ANY($2)
		ORDER BY pp.member_id
	`

	rows, err := r.db.Query(ctx, query, domain.PoolStatusOpen, memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
