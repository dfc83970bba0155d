package pricingservice

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized возвращается, когда сервис отклонил токен (HTTP 401)
	ErrUnauthorized = errors.New("pricingservice client: session expired")

	// ErrRejected возвращается, когда сервис отказал в расчете
	ErrRejected = errors.New("pricingservice client: calculation rejected")

	// ErrUnavailable возвращается при сетевых ошибках и таймаутах
	ErrUnavailable = errors.New("pricingservice client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricingservice client: invalid response")
)

// RejectedError отказ сервиса с сообщением, которое показывается пользователю как есть
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

func newRejectedError(statusCode int, message string, fallback string) *RejectedError {
	if message == "" {
		message = fmt.Sprintf("%s (HTTP %d)", fallback, statusCode)
	}
	return &RejectedError{StatusCode: statusCode, Message: message}
}
