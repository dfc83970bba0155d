package refdata

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("refdata service: internal error")
)
