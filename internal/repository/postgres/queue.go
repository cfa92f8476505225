package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

// QueueRepository реализует repository.QueueRepository для PostgreSQL
type QueueRepository struct {
	db DBTX
}

// NewQueueRepository создает новый экземпляр QueueRepository
func NewQueueRepository(db DBTX) *QueueRepository {
	return &QueueRepository{db: db}
}

// Create создает очередь сессии
func (r *QueueRepository) Create(ctx context.Context, q *domain.Queue) error {
	_, err := r.db.Exec(ctx, `INSERT INTO queues (id, session_id) VALUES ($1, $2)`, q.ID, q.SessionID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: session already has a queue", domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSessionNotFound
		}
		return err
	}
	return nil
}

// GetBySession получает очередь сессии
func (r *QueueRepository) GetBySession(ctx context.Context, sessionID string) (*domain.Queue, error) {
	return r.get(ctx, `SELECT id, session_id FROM queues WHERE session_id = $1`, sessionID)
}

// GetBySessionForUpdate получает очередь сессии с блокировкой строки
func (r *QueueRepository) GetBySessionForUpdate(ctx context.Context, sessionID string) (*domain.Queue, error) {
	return r.get(ctx, `SELECT id, session_id FROM queues WHERE session_id = $1 FOR UPDATE`, sessionID)
}

func (r *QueueRepository) get(ctx context.Context, query, sessionID string) (*domain.Queue, error) {
	var q domain.Queue
	err := r.db.QueryRow(ctx, query, sessionID).Scan(&q.ID, &q.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQueueNotFound
		}
		return nil, err
	}
	return &q, nil
}

// AddEntry добавляет запись в очередь
func (r *QueueRepository) AddEntry(ctx context.Context, e *domain.QueueEntry) error {
	query := `
		INSERT INTO queue_entries (id, queue_id, member_id, joined_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.QueueID, e.MemberID, e.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrMemberAlreadyQueued
		}
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "queue_entries_queue_id_fkey" {
				return domain.ErrQueueNotFound
			}
			return domain.ErrMemberNotFound
		}
		return err
	}
	return nil
}

const entrySelect = `
	SELECT qe.id, qe.queue_id, q.session_id, qe.member_id, qe.joined_at,
	       m.id, m.club_id, m.name, m.gender, COALESCE(m.level, '')
	FROM queue_entries qe
	JOIN queues q ON q.id = qe.queue_id
	JOIN members m ON m.id = qe.member_id
`

// GetEntry получает запись очереди вместе с участником
func (r *QueueRepository) GetEntry(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	return r.getEntry(ctx, entrySelect+` WHERE qe.id = $1`, entryID)
}

// GetEntryForUpdate получает запись очереди с блокировкой строки
func (r *QueueRepository) GetEntryForUpdate(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	return r.getEntry(ctx, entrySelect+` WHERE qe.id = $1 FOR UPDATE OF qe`, entryID)
}

func (r *QueueRepository) getEntry(ctx context.Context, query, entryID string) (*domain.QueueEntry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQueueEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// DeleteEntries удаляет записи по id
func (r *QueueRepository) DeleteEntries(ctx context.Context, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	result, err := r.db.Exec(ctx, `DELETE FROM queue_entries WHERE id = ANY($1)`, entryIDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// DeleteMembers удаляет записи участников из очереди
func (r *QueueRepository) DeleteMembers(ctx context.Context, queueID string, memberIDs []string) (int64, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM queue_entries WHERE queue_id = $1 AND member_id = ANY($2)`
	result, err := r.db.Exec(ctx, query, queueID, memberIDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// ListOrdered возвращает записи очереди в порядке FIFO
func (r *QueueRepository) ListOrdered(ctx context.Context, queueID string) ([]*domain.QueueEntry, error) {
	rows, err := r.db.Query(ctx, entrySelect+` WHERE qe.queue_id = $1 ORDER BY qe.joined_at, qe.id COLLATE "C"`, queueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.QueueEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Tail возвращает время входа последней записи очереди
func (r *QueueRepository) Tail(ctx context.Context, queueID string) (time.Time, error) {
	var tail *time.Time
	err := r.db.QueryRow(ctx, `SELECT MAX(joined_at) FROM queue_entries WHERE queue_id = $1`, queueID).Scan(&tail)
	if err != nil {
		return time.Time{}, err
	}
	if tail == nil {
		return time.Time{}, nil
	}
	return *tail, nil
}

func scanEntry(row pgx.Row) (*domain.QueueEntry, error) {
	var e domain.QueueEntry
	var m domain.Member
	var level string
	err := row.Scan(
		&e.ID,
		&e.QueueID,
		&e.SessionID,
		&e.MemberID,
		&e.JoinedAt,
		&m.ID,
		&m.ClubID,
		&m.Name,
		&m.Gender,
		&level,
	)
	if err != nil {
		return nil, err
	}
	m.Level = domain.Level(level)
	e.Member = &m
	return &e, nil
}
