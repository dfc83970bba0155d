package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
)

const (
	msgSessionNotFound       = "сессия мастера не найдена или истекла"
	msgTooManySessions       = "слишком много активных сессий, попробуйте позже"
	msgInvalidForm           = "некорректные данные формы"
	msgCalculationInProgress = "Выполняется расчет, дождитесь результата"
)

// RespondWizardError отвечает на ошибку сессии мастера и возвращает выставленный статус
// Сообщения валидации и сервиса расчета отдаются пользователю как есть.
func RespondWizardError(w http.ResponseWriter, err error) int {
	var (
		validationErr *quote_wizard.ValidationError
		pricingErr    *quote_wizard.PricingError
	)

	switch {
	case errors.Is(err, wizard_sessions.ErrSessionNotFound):
		RespondNotFound(w, msgSessionNotFound)
		return http.StatusNotFound

	case errors.Is(err, wizard_sessions.ErrTooManySessions):
		RespondError(w, http.StatusServiceUnavailable, msgTooManySessions)
		return http.StatusServiceUnavailable

	case errors.Is(err, wizard_sessions.ErrInvalidForm):
		RespondBadRequest(w, msgInvalidForm)
		return http.StatusBadRequest

	case errors.Is(err, wizard_sessions.ErrCalculationInProgress):
		RespondConflict(w, msgCalculationInProgress)
		return http.StatusConflict

	case errors.As(err, &validationErr):
		RespondValidation(w, int(validationErr.Step), validationErr.Field, validationErr.Message)
		return http.StatusUnprocessableEntity

	case errors.As(err, &pricingErr):
		RespondBadGateway(w, pricingErr.Message)
		return http.StatusBadGateway

	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}
