package draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда расчета нет или срок его хранения истек
	ErrDraftNotFound = errors.New("draft.repository: draft not found")

	// ErrMalformedDraft возвращается, когда сохраненный расчет не удается прочитать
	ErrMalformedDraft = errors.New("draft.repository: malformed draft payload")

	// ErrEncodeDraft возвращается при ошибке сериализации расчета
	ErrEncodeDraft = errors.New("draft.repository: failed to encode draft")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("draft.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("draft.repository: failed to execute query")
)
