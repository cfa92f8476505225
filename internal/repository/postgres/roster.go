package postgres

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/courtmatch/internal/domain"
)

// RosterRepository реализует repository.RosterRepository для PostgreSQL
type RosterRepository struct {
	db DBTX
}

// NewRosterRepository создает новый экземпляр RosterRepository
func NewRosterRepository(db DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

// GetClub получает клуб по ID
func (r *RosterRepository) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	return r.getClub(ctx, `SELECT id, name FROM clubs WHERE id = $1`, clubID)
}

// LockClub получает клуб с блокировкой строки
func (r *RosterRepository) LockClub(ctx context.Context, clubID string) (*domain.Club, error) {
	return r.getClub(ctx, `SELECT id, name FROM clubs WHERE id = $1 FOR UPDATE`, clubID)
}

func (r *RosterRepository) getClub(ctx context.Context, query, clubID string) (*domain.Club, error) {
	var club domain.Club
	err := r.db.QueryRow(ctx, query, clubID).Scan(&club.ID, &club.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}
	return &club, nil
}

// GetCourt получает корт по ID
func (r *RosterRepository) GetCourt(ctx context.Context, courtID string) (*domain.Court, error) {
	query := `SELECT id, club_id, name FROM courts WHERE id = $1`

	var court domain.Court
	err := r.db.QueryRow(ctx, query, courtID).Scan(&court.ID, &court.ClubID, &court.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourtNotFound
		}
		return nil, err
	}
	return &court, nil
}

// GetMember получает участника по ID
func (r *RosterRepository) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `
		SELECT id, club_id, name, gender, COALESCE(level, '')
		FROM members
		WHERE id = $1
	`

	member, err := scanMember(r.db.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// LockMembers блокирует строки участников в порядке id
func (r *RosterRepository) LockMembers(ctx context.Context, memberIDs []string) ([]*domain.Member, error) {
	ids := uniqueSorted(memberIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, club_id, name, gender, COALESCE(level, '')
		FROM members
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(members) != len(ids) {
		return nil, domain.ErrMemberNotFound
	}
	return members, nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var level string
	if err := row.Scan(&m.ID, &m.ClubID, &m.Name, &m.Gender, &level); err != nil {
		return nil, err
	}
	m.Level = domain.Level(level)
	return &m, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}
