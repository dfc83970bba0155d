package update_wizard_form

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/osago/wizard/{sessionId}/form
// Тело - частичная форма: переданные поля заменяют текущие, остальные сохраняются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	patch, err := handlers.ReadRawJSON(r)
	if err != nil {
		h.logger.Warn("PATCH /osago/wizard/{id}/form - Invalid request body: session_id=%s, error=%v", sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.service.UpdateForm(r.Context(), sessionID, patch)
	if err != nil {
		status := handlers.RespondWizardError(w, err)
		h.logger.Warn("PATCH /osago/wizard/{id}/form - Failed: session_id=%s, status=%d, error=%v", sessionID, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}
