package domain

import (
	"strings"
	"time"
)

// MatchType представляет формат игры
type MatchType string

// Форматы игры
const (
	MatchTypeSingles MatchType = "SINGLES"
	MatchTypeDoubles MatchType = "DOUBLES"
)

// ParseMatchType разбирает формат игры; пустая строка означает DOUBLES
func ParseMatchType(s string) (MatchType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(MatchTypeDoubles):
		return MatchTypeDoubles, nil
	case string(MatchTypeSingles), "SINGLE":
		return MatchTypeSingles, nil
	default:
		return "", ErrUnknownMatchType
	}
}

// TeamSize возвращает количество игроков в одной команде
func (t MatchType) TeamSize() int {
	if t == MatchTypeSingles {
		return 1
	}
	return 2
}

// GroupSize возвращает количество игроков в матче
func (t MatchType) GroupSize() int {
	return 2 * t.TeamSize()
}

// Session представляет игровую сессию клуба
type Session struct {
	ID                    string    `json:"id"`
	ClubID                string    `json:"club_id"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	Type                  MatchType `json:"type"`
	IsActive              bool      `json:"is_active"`
	RemainingParticipants int       `json:"remaining_participants"`
	CreatedAt             time.Time `json:"created_at"`
}

// Validate проверяет инварианты новой сессии
func (s *Session) Validate() error {
	if !s.StartTime.Before(s.EndTime) {
		return ErrInvalidTimeRange
	}
	if s.RemainingParticipants <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// CheckOpen возвращает ошибку если сессия неактивна или уже завершилась
func (s *Session) CheckOpen(now time.Time) error {
	if !s.IsActive {
		return ErrSessionInactive
	}
	if !now.Before(s.EndTime) {
		return ErrSessionEnded
	}
	return nil
}

// CanAdmit проверяет, можно ли поставить в очередь еще одного участника
func (s *Session) CanAdmit(now time.Time) error {
	if err := s.CheckOpen(now); err != nil {
		return err
	}
	if s.RemainingParticipants <= 0 {
		return ErrSessionFull
	}
	return nil
}

// Overlaps проверяет пересечение временных окон
func (s *Session) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

// SessionCourt представляет корт, закрепленный за сессией
type SessionCourt struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	CourtID   string `json:"court_id"`
	IsBooked  bool   `json:"is_booked"`
}
