package repository

import (
	"context"
	"time"

	"github.com/aidar/courtmatch/internal/domain"
)

// RosterRepository предоставляет доступ на чтение к клубам, кортам и участникам
type RosterRepository interface {
	// GetClub получает клуб по ID
	GetClub(ctx context.Context, clubID string) (*domain.Club, error)

	// LockClub получает клуб и блокирует его строку до конца транзакции
	LockClub(ctx context.Context, clubID string) (*domain.Club, error)

	// GetCourt получает корт по ID
	GetCourt(ctx context.Context, courtID string) (*domain.Court, error)

	// GetMember получает участника по ID
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)

	// LockMembers блокирует строки участников (FOR UPDATE) в порядке id и возвращает их.
	// Отсутствующий участник приводит к ErrMemberNotFound
	LockMembers(ctx context.Context, memberIDs []string) ([]*domain.Member, error)
}

// SessionRepository определяет методы для работы с сессиями
type SessionRepository interface {
	// Create создает сессию
	Create(ctx context.Context, session *domain.Session) error

	// GetByID получает сессию по ID
	GetByID(ctx context.Context, sessionID string) (*domain.Session, error)

	// GetForUpdate получает сессию и блокирует ее строку до конца транзакции
	GetForUpdate(ctx context.Context, sessionID string) (*domain.Session, error)

	// ListActiveByClub возвращает активные сессии клуба
	ListActiveByClub(ctx context.Context, clubID string) ([]*domain.Session, error)

	// AdjustRemaining изменяет счетчик свободных мест на delta и возвращает новое значение
	AdjustRemaining(ctx context.Context, sessionID string, delta int) (int, error)

	// Deactivate помечает сессию неактивной
	Deactivate(ctx context.Context, sessionID string) error

	// AssignCourt закрепляет корт за сессией
	AssignCourt(ctx context.Context, sc *domain.SessionCourt) error

	// GetCourtForUpdate получает закрепление корта и блокирует его строку
	GetCourtForUpdate(ctx context.Context, sessionID, courtID string) (*domain.SessionCourt, error)

	// SetCourtBooked изменяет флаг занятости корта в рамках сессии
	SetCourtBooked(ctx context.Context, sessionID, courtID string, booked bool) error
}

// QueueRepository определяет методы для работы с очередью сессии
type QueueRepository interface {
	// Create создает пустую очередь для сессии
	Create(ctx context.Context, queue *domain.Queue) error

	// GetBySession получает очередь сессии
	GetBySession(ctx context.Context, sessionID string) (*domain.Queue, error)

	// GetBySessionForUpdate получает очередь сессии и блокирует ее строку
	GetBySessionForUpdate(ctx context.Context, sessionID string) (*domain.Queue, error)

	// AddEntry добавляет запись в очередь. Повторное добавление участника возвращает ErrMemberAlreadyQueued
	AddEntry(ctx context.Context, entry *domain.QueueEntry) error

	// GetEntry получает запись очереди по ID
	GetEntry(ctx context.Context, entryID string) (*domain.QueueEntry, error)

	// GetEntryForUpdate получает запись очереди и блокирует ее строку
	GetEntryForUpdate(ctx context.Context, entryID string) (*domain.QueueEntry, error)

	// DeleteEntries удаляет записи и возвращает количество удаленных строк
	DeleteEntries(ctx context.Context, entryIDs []string) (int64, error)

	// DeleteMembers удаляет записи указанных участников из очереди и возвращает количество удаленных строк
	DeleteMembers(ctx context.Context, queueID string, memberIDs []string) (int64, error)

	// ListOrdered возвращает записи очереди с участниками по возрастанию joined_at, затем id
	ListOrdered(ctx context.Context, queueID string) ([]*domain.QueueEntry, error)

	// Tail возвращает время входа последней записи очереди (нулевое время для пустой очереди)
	Tail(ctx context.Context, queueID string) (time.Time, error)
}

// PoolRepository определяет методы для работы с пулами матчей
type PoolRepository interface {
	// Create создает пул вместе с участниками
	Create(ctx context.Context, pool *domain.Pool) error

	// GetByID получает пул с участниками
	GetByID(ctx context.Context, poolID string) (*domain.Pool, error)

	// GetForUpdate получает пул с участниками и блокирует строку пула
	GetForUpdate(ctx context.Context, poolID string) (*domain.Pool, error)

	// AddParticipant добавляет участника в пул
	AddParticipant(ctx context.Context, pp *domain.PoolParticipant) error

	// GetParticipant получает участника пула по ID
	GetParticipant(ctx context.Context, participantID string) (*domain.PoolParticipant, error)

	// DeleteParticipant удаляет участника пула
	DeleteParticipant(ctx context.Context, participantID string) error

	// SetStatus изменяет статус пула
	SetStatus(ctx context.Context, poolID string, status domain.PoolStatus) error

	// FindOpenParticipation возвращает id участника, уже состоящего в открытом пуле, или пустую строку
	FindOpenParticipation(ctx context.Context, memberIDs []string) (string, error)

	// ListOpenParticipants возвращает всех участников из списка, уже состоящих в открытых пулах
	ListOpenParticipants(ctx context.Context, memberIDs []string) ([]string, error)
}

// MatchRepository определяет методы для работы с матчами
type MatchRepository interface {
	// Create создает матч вместе с участниками
	Create(ctx context.Context, match *domain.Match) error

	// GetByID получает матч с участниками
	GetByID(ctx context.Context, matchID string) (*domain.Match, error)

	// GetForUpdate получает матч с участниками и блокирует строку матча
	GetForUpdate(ctx context.Context, matchID string) (*domain.Match, error)

	// FindActiveParticipation возвращает id участника, уже играющего в активном матче, или пустую строку
	FindActiveParticipation(ctx context.Context, memberIDs []string) (string, error)

	// HasActiveParticipationInSession проверяет участие в активном матче указанной сессии
	HasActiveParticipationInSession(ctx context.Context, sessionID, memberID string) (bool, error)

	// CourtHasActiveMatch проверяет, есть ли на корте активный матч
	CourtHasActiveMatch(ctx context.Context, courtID string) (bool, error)

	// SaveOutcome сохраняет статус матча и результаты участников
	SaveOutcome(ctx context.Context, match *domain.Match) error
}

// Store объединяет репозитории, работающие поверх одного подключения или транзакции
type Store interface {
	Roster() RosterRepository
	Sessions() SessionRepository
	Queues() QueueRepository
	Pools() PoolRepository
	Matches() MatchRepository
}

// Transactor выполняет единицу работы в одной транзакции
type Transactor interface {
	Store

	// WithinTx вызывает fn с хранилищем, привязанным к транзакции.
	// Транзакция фиксируется если fn вернула nil, иначе откатывается, и ошибка fn возвращается без изменений
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
