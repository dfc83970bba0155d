package drafts

import "errors"

var (
	// ErrDraftNotFound возвращается, когда расчет не выполнялся или срок его хранения истек
	ErrDraftNotFound = errors.New("drafts service: draft not found")

	// ErrDraftNotReady возвращается, когда стоимость еще не подтверждена пользователем
	ErrDraftNotReady = errors.New("drafts service: draft not ready for checkout")

	// ErrMalformedDraft возвращается, когда сохраненный расчет поврежден
	ErrMalformedDraft = errors.New("drafts service: malformed draft")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("drafts service: internal error")
)
