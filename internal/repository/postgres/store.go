package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/courtmatch/internal/repository"
)

// DBTX общий интерфейс пула подключений и транзакции
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store реализует repository.Transactor для PostgreSQL
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

// NewStore создает хранилище поверх пула подключений
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// Roster возвращает репозиторий клубов, кортов и участников
func (s *Store) Roster() repository.RosterRepository {
	return NewRosterRepository(s.db)
}

// Sessions возвращает репозиторий сессий
func (s *Store) Sessions() repository.SessionRepository {
	return NewSessionRepository(s.db)
}

// Queues возвращает репозиторий очередей
func (s *Store) Queues() repository.QueueRepository {
	return NewQueueRepository(s.db)
}

// Pools возвращает репозиторий пулов
func (s *Store) Pools() repository.PoolRepository {
	return NewPoolRepository(s.db)
}

// Matches возвращает репозиторий матчей
func (s *Store) Matches() repository.MatchRepository {
	return NewMatchRepository(s.db)
}

// WithinTx выполняет fn в транзакции READ COMMITTED.
// Вложенный вызов переиспользует уже открытую транзакцию.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	if err := fn(ctx, &Store{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
