package calculate_quote

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах расчета
	ErrInvalidInput = errors.New("calculate_quote: invalid input data")

	// ErrTariffNotFound возвращается, когда нет действующего тарифа для параметров
	ErrTariffNotFound = errors.New("calculate_quote: no active tariff")

	// ErrCoefficientNotFound возвращается, когда в тарифе нет нужного коэффициента
	ErrCoefficientNotFound = errors.New("calculate_quote: coefficient not found")

	// ErrUnauthorized возвращается, когда переданный токен отклонен
	ErrUnauthorized = errors.New("calculate_quote: unauthorized")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("calculate_quote: internal error")
)

// RequestError отказ в расчете с сообщением для клиента
type RequestError struct {
	Err     error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func reject(err error, message string) *RequestError {
	return &RequestError{Err: err, Message: message}
}
