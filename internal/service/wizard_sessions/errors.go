package wizard_sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессии мастера нет или она истекла
	ErrSessionNotFound = errors.New("wizard_sessions: session not found")

	// ErrTooManySessions возвращается при превышении лимита живых сессий
	ErrTooManySessions = errors.New("wizard_sessions: too many sessions")

	// ErrInvalidForm возвращается, когда изменение формы не удалось разобрать
	ErrInvalidForm = errors.New("wizard_sessions: invalid form patch")

	// ErrCalculationInProgress возвращается, пока в сессии выполняется расчет
	ErrCalculationInProgress = errors.New("wizard_sessions: calculation in progress")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard_sessions: internal error")
)
