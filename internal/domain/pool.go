package domain

import (
	"strings"
	"time"
)

// Team представляет сторону матча
type Team string

// Стороны матча
const (
	TeamA Team = "TEAM_A"
	TeamB Team = "TEAM_B"
)

// ParseTeam разбирает название команды
func ParseTeam(s string) (Team, error) {
	switch Team(strings.ToUpper(strings.TrimSpace(s))) {
	case TeamA:
		return TeamA, nil
	case TeamB:
		return TeamB, nil
	default:
		return "", ErrUnknownTeam
	}
}

// PoolStatus представляет статус пула
type PoolStatus string

// Статусы пула
const (
	PoolStatusOpen      PoolStatus = "OPEN"      // пул собирается, участников можно менять
	PoolStatusPromoted  PoolStatus = "PROMOTED"  // из пула создан матч
	PoolStatusDissolved PoolStatus = "DISSOLVED" // все участники вернулись в очередь
)

// Pool представляет предварительную группировку игроков в две команды
type Pool struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"session_id"`
	Type         MatchType          `json:"type"`
	Status       PoolStatus         `json:"status"`
	PowerDelta   int                `json:"power_delta"`
	CreatedAt    time.Time          `json:"created_at"`
	Participants []*PoolParticipant `json:"participants"`
}

// PoolParticipant представляет участника пула
type PoolParticipant struct {
	ID       string  `json:"id"`
	PoolID   string  `json:"pool_id"`
	MemberID string  `json:"member_id"`
	Team     Team    `json:"team"`
	Position int     `json:"position"`
	Member   *Member `json:"member,omitempty"`
}

// IsOpen возвращает true если пул еще можно менять
func (p *Pool) IsOpen() bool {
	return p.Status == PoolStatusOpen
}

// TeamMembers возвращает участников команды в порядке добавления
func (p *Pool) TeamMembers(team Team) []*PoolParticipant {
	var members []*PoolParticipant
	for _, pp := range p.Participants {
		if pp.Team == team {
			members = append(members, pp)
		}
	}
	return members
}

// CanAdd проверяет, можно ли добавить участника в указанную команду
func (p *Pool) CanAdd(memberID string, team Team) error {
	if !p.IsOpen() {
		return ErrPoolClosed
	}
	for _, pp := range p.Participants {
		if pp.MemberID == memberID {
			return ErrMemberAlreadyInPool
		}
	}
	if len(p.TeamMembers(team)) >= p.Type.TeamSize() {
		return ErrTeamFull
	}
	return nil
}

// NextPosition возвращает позицию для нового участника
func (p *Pool) NextPosition() int {
	next := 0
	for _, pp := range p.Participants {
		if pp.Position >= next {
			next = pp.Position + 1
		}
	}
	return next
}

// IsComplete возвращает true если обе команды укомплектованы
func (p *Pool) IsComplete() bool {
	size := p.Type.TeamSize()
	return len(p.TeamMembers(TeamA)) == size && len(p.TeamMembers(TeamB)) == size
}

// MemberIDs возвращает id всех участников пула
func (p *Pool) MemberIDs() []string {
	ids := make([]string, 0, len(p.Participants))
	for _, pp := range p.Participants {
		ids = append(ids, pp.MemberID)
	}
	return ids
}
