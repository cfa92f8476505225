package domain

import (
	"sort"
	"time"
)

// MatchStatus представляет состояние матча
type MatchStatus string

// Состояния матча. FINISHED и CANCELLED терминальные
const (
	MatchStatusFormed    MatchStatus = "FORMED"
	MatchStatusFinished  MatchStatus = "FINISHED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// IsTerminal возвращает true для состояний, из которых нет переходов
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusFinished || s == MatchStatusCancelled
}

// Match представляет матч на корте
type Match struct {
	ID           string              `json:"id"`
	ClubID       string              `json:"club_id"`
	CourtID      string              `json:"court_id"`
	SessionID    *string             `json:"session_id,omitempty"`
	PoolID       *string             `json:"pool_id,omitempty"`
	Type         MatchType           `json:"type"`
	Status       MatchStatus         `json:"status"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	EndedAt      *time.Time          `json:"ended_at,omitempty"`
	Participants []*MatchParticipant `json:"participants"`
}

// MatchParticipant представляет игрока матча
type MatchParticipant struct {
	ID       string `json:"id"`
	MatchID  string `json:"match_id"`
	MemberID string `json:"member_id"`
	Team     Team   `json:"team"`
	Position int    `json:"position"`
	IsWon    *bool  `json:"is_won"`
	Points   *int   `json:"points"`
}

// MatchResult описывает итог завершения матча
type MatchResult struct {
	Winner Team `json:"winner"`
	// Requeue содержит участников в порядке возврата в очередь: победители, затем проигравшие
	Requeue []*MatchParticipant `json:"-"`
}

// ValidateLineup проверяет состав команд для указанного формата
func ValidateLineup(matchType MatchType, participants []*MatchParticipant) error {
	seen := make(map[string]struct{}, len(participants))
	counts := map[Team]int{}
	for _, p := range participants {
		if p.Team != TeamA && p.Team != TeamB {
			return ErrUnknownTeam
		}
		if _, dup := seen[p.MemberID]; dup {
			return ErrDuplicateMember
		}
		seen[p.MemberID] = struct{}{}
		counts[p.Team]++
	}
	size := matchType.TeamSize()
	if counts[TeamA] != size || counts[TeamB] != size {
		return ErrInvalidTeamSize
	}
	return nil
}

// MemberIDs возвращает id всех участников
func (m *Match) MemberIDs() []string {
	ids := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.MemberID)
	}
	return ids
}

// TeamParticipants возвращает участников команды в исходном порядке
func (m *Match) TeamParticipants(team Team) []*MatchParticipant {
	var res []*MatchParticipant
	for _, p := range m.Participants {
		if p.Team == team {
			res = append(res, p)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Position < res[j].Position })
	return res
}

// Finish переводит матч в FINISHED и проставляет результаты участникам.
// Победитель определяется по большему счету, ничья отклоняется.
func (m *Match) Finish(teamAPoints, teamBPoints int, now time.Time) (*MatchResult, error) {
	if m.Status.IsTerminal() {
		return nil, ErrMatchTerminal
	}
	if teamAPoints < 0 || teamBPoints < 0 {
		return nil, ErrNegativeScore
	}
	if teamAPoints == teamBPoints {
		return nil, ErrTiedScore
	}

	winner, loser := TeamA, TeamB
	if teamBPoints > teamAPoints {
		winner, loser = TeamB, TeamA
	}
	points := map[Team]int{TeamA: teamAPoints, TeamB: teamBPoints}

	winners := m.TeamParticipants(winner)
	losers := m.TeamParticipants(loser)
	for _, p := range winners {
		won, pts := true, points[winner]
		p.IsWon, p.Points = &won, &pts
	}
	for _, p := range losers {
		won, pts := false, points[loser]
		p.IsWon, p.Points = &won, &pts
	}

	m.Status = MatchStatusFinished
	m.IsActive = false
	m.EndedAt = &now

	return &MatchResult{
		Winner:  winner,
		Requeue: append(winners, losers...),
	}, nil
}

// Cancel переводит матч в CANCELLED без результатов.
// Возвращает участников в порядке возврата в очередь: команда A, затем команда B.
func (m *Match) Cancel(now time.Time) ([]*MatchParticipant, error) {
	if m.Status.IsTerminal() {
		return nil, ErrMatchTerminal
	}
	m.Status = MatchStatusCancelled
	m.IsActive = false
	m.EndedAt = &now
	return append(m.TeamParticipants(TeamA), m.TeamParticipants(TeamB)...), nil
}
