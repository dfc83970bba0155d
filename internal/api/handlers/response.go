package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	// maxBodyBytes ограничение размера тела запроса
	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse ошибка валидации шага мастера
type ValidationErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Step    int    `json:"step"`
	Field   string `json:"field"`
}

// DecodeJSON читает тело запроса в v, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	return nil
}

// ReadRawJSON читает тело запроса как есть и проверяет, что это JSON-объект
func ReadRawJSON(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, err
	}
	if object == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return body, nil
}

func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondBadGateway(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadGateway, message)
}

// RespondValidation 422 с сообщением правила и шагом, на котором оно сработало
func RespondValidation(w http.ResponseWriter, step int, field, message string) {
	RespondJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Step:    step,
		Field:   field,
	})
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
