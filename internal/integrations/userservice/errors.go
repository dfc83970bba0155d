package userservice

import "errors"

var (
	// ErrUnauthorized возвращается, когда токен отклонен
	ErrUnauthorized = errors.New("userservice client: unauthorized")

	// ErrUserNotFound возвращается, когда пользователь токена не найден
	ErrUserNotFound = errors.New("userservice client: user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
