package domain

import (
	"errors"
	"net/http"
)

// Базовые виды ошибок. Каждая доменная ошибка ниже разворачивается (errors.Unwrap) ровно в один из них.
var (
	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState возвращается когда операция недопустима в текущем состоянии ресурса
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict возвращается при нарушении уникальности или квот
	ErrConflict = errors.New("conflict")

	// ErrInsufficientCandidates возвращается когда в очереди недостаточно игроков для формирования пула
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// kindError связывает конкретное сообщение с базовым видом ошибки
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Доменные ошибки
var (
	ErrClubNotFound        = newError(ErrNotFound, "club not found")
	ErrCourtNotFound       = newError(ErrNotFound, "court not found")
	ErrMemberNotFound      = newError(ErrNotFound, "member not found")
	ErrSessionNotFound     = newError(ErrNotFound, "session not found")
	ErrSessionCourtMissing = newError(ErrNotFound, "court is not assigned to the session")
	ErrQueueNotFound       = newError(ErrNotFound, "queue not found")
	ErrQueueEntryNotFound  = newError(ErrNotFound, "queue entry not found")
	ErrPoolNotFound        = newError(ErrNotFound, "match pool not found")
	ErrPoolMemberNotFound  = newError(ErrNotFound, "match pool participant not found")
	ErrMatchNotFound       = newError(ErrNotFound, "match not found")

	ErrSessionInactive = newError(ErrInvalidState, "session is not active")
	ErrSessionEnded    = newError(ErrInvalidState, "session has already ended")
	ErrSessionFull     = newError(ErrInvalidState, "no remaining participants available for this session")
	ErrPoolClosed      = newError(ErrInvalidState, "match pool is no longer open")
	ErrMatchTerminal   = newError(ErrInvalidState, "match is already finished or cancelled")

	ErrMemberAlreadyQueued  = newError(ErrConflict, "member is already in the session queue")
	ErrMemberInActiveMatch  = newError(ErrConflict, "member already has an active match")
	ErrMemberAlreadyInPool  = newError(ErrConflict, "member already appears in the match pool")
	ErrTeamFull             = newError(ErrConflict, "team already has its quota of participants")
	ErrCourtBusy            = newError(ErrConflict, "court already has an active match")
	ErrCourtAlreadyAssigned = newError(ErrConflict, "court is already assigned to the session")
	ErrSessionOverlap       = newError(ErrConflict, "club already has an active session in this time window")
	ErrStaleQueue           = newError(ErrConflict, "queue changed while the pool was being formed")

	ErrNotEnoughPlayers = newError(ErrInsufficientCandidates, "not enough players to form a match")

	ErrTiedScore        = newError(ErrInvalidInput, "scores are tied, a winner cannot be determined")
	ErrNegativeScore    = newError(ErrInvalidInput, "points must not be negative")
	ErrInvalidTimeRange = newError(ErrInvalidInput, "session start time must be before end time")
	ErrInvalidTeamSize  = newError(ErrInvalidInput, "team sizes do not match the match type")
	ErrDuplicateMember  = newError(ErrInvalidInput, "member appears more than once in the match")
	ErrCourtNotInClub   = newError(ErrInvalidInput, "court does not belong to the specified club")
	ErrWrongSession     = newError(ErrInvalidInput, "queue entry belongs to another session")
	ErrSessionNotInClub = newError(ErrInvalidInput, "session does not belong to the specified club")
	ErrUnknownTeam      = newError(ErrInvalidInput, "team must be TEAM_A or TEAM_B")
	ErrUnknownMatchType = newError(ErrInvalidInput, "type must be SINGLES or DOUBLES")
	ErrUnknownGender    = newError(ErrInvalidInput, "gender filter must be MALE, FEMALE or ANY")
	ErrInvalidCapacity  = newError(ErrInvalidInput, "capacity must be positive")
	ErrMissingID        = newError(ErrInvalidInput, "required identifier is missing")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeInvalidState           ErrorCode = "INVALID_STATE"
	CodeConflict               ErrorCode = "CONFLICT"
	CodeInsufficientCandidates ErrorCode = "INSUFFICIENT_CANDIDATES"
	CodeInvalidInput           ErrorCode = "INVALID_INPUT"
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrInsufficientCandidates):
		return CodeInsufficientCandidates
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

// HTTPStatus возвращает HTTP статус для доменной ошибки
func HTTPStatus(err error) int {
	switch MapErrorToCode(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeConflict:
		return http.StatusConflict
	case CodeInsufficientCandidates:
		return http.StatusUnprocessableEntity
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
