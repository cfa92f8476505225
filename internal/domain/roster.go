package domain

import "strings"

// Gender представляет пол участника клуба
type Gender string

// Возможные значения пола
const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// GenderFilter ограничивает выборку кандидатов при формировании пула
type GenderFilter string

// Возможные фильтры
const (
	FilterAny    GenderFilter = "ANY"
	FilterMale   GenderFilter = "MALE"
	FilterFemale GenderFilter = "FEMALE"
)

// ParseGenderFilter разбирает фильтр из запроса; пустая строка означает отсутствие фильтра
func ParseGenderFilter(s string) (GenderFilter, error) {
	switch GenderFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FilterAny, "MIXED":
		return FilterAny, nil
	case FilterMale:
		return FilterMale, nil
	case FilterFemale:
		return FilterFemale, nil
	default:
		return "", ErrUnknownGender
	}
}

// Allows проверяет, проходит ли участник через фильтр
func (f GenderFilter) Allows(g Gender) bool {
	switch f {
	case FilterMale:
		return g == GenderMale
	case FilterFemale:
		return g == GenderFemale
	default:
		return true
	}
}

// Club представляет клуб
type Club struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Court представляет корт клуба
type Court struct {
	ID     string `json:"id"`
	ClubID string `json:"club_id"`
	Name   string `json:"name"`
}

// Member представляет участника клуба
type Member struct {
	ID     string `json:"id"`
	ClubID string `json:"club_id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Level  Level  `json:"level,omitempty"` // пустой уровень трактуется как CASUAL
}
