// Package testutil поднимает PostgreSQL в контейнере для тестов репозиториев, сервисов и приложения
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/migrations"
)

const (
	dbName     = "courtmatch_test"
	dbUser     = "test_user"
	dbPassword = "test_password"
)

// Postgres содержит контейнер и пул подключений к тестовой базе
type Postgres struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
	Host      string
	Port      string
}

// StartPostgres запускает контейнер, применяет миграции и регистрирует очистку ресурсов.
// Тест пропускается в режиме -short
func StartPostgres(t *testing.T) *Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	require.NoError(t, migrations.Up(dsn), "Failed to apply migrations")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &Postgres{
		Container: container,
		Pool:      pool,
		DSN:       dsn,
		Host:      host,
		Port:      port.Port(),
	}
}

// Credentials возвращает пользователя, пароль и имя тестовой базы
func (p *Postgres) Credentials() (user, password, name string) {
	return dbUser, dbPassword, dbName
}

// Reset очищает все таблицы между тестами
func (p *Postgres) Reset(t *testing.T) {
	t.Helper()
	_, err := p.Pool.Exec(context.Background(), `
		TRUNCATE match_participants, matches, pool_participants, match_pools,
		         queue_entries, queues, session_courts, sessions, members, courts, clubs
		CASCADE`)
	require.NoError(t, err)
}

// SeedClub создает клуб и корты с id "<clubID>-court-<n>"
func (p *Postgres) SeedClub(t *testing.T, clubID string, courts int) []string {
	t.Helper()
	ctx := context.Background()

	_, err := p.Pool.Exec(ctx, `INSERT INTO clubs (id, name) VALUES ($1, $2)`, clubID, "Club "+clubID)
	require.NoError(t, err)

	ids := make([]string, 0, courts)
	for i := 1; i <= courts; i++ {
		id := fmt.Sprintf("%s-court-%d", clubID, i)
		_, err := p.Pool.Exec(ctx, `INSERT INTO courts (id, club_id, name) VALUES ($1, $2, $3)`,
			id, clubID, fmt.Sprintf("Court %d", i))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// SeedMember создает участника клуба; пустой уровень сохраняется как NULL
func (p *Postgres) SeedMember(t *testing.T, clubID, memberID string, gender domain.Gender, level domain.Level) {
	t.Helper()

	var lvl *string
	if level != "" {
		s := string(level)
		lvl = &s
	}
	_, err := p.Pool.Exec(context.Background(),
		`INSERT INTO members (id, club_id, name, gender, level) VALUES ($1, $2, $3, $4, $5)`,
		memberID, clubID, "Member "+memberID, string(gender), lvl)
	require.NoError(t, err)
}

// Count возвращает результат запроса вида SELECT COUNT(*)
func (p *Postgres) Count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, p.Pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
