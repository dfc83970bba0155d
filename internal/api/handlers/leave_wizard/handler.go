package leave_wizard

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
)

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

// Handle DELETE /api/v1/osago/wizard/{sessionId}
// Уход со страницы мастера: сохраненный расчет удаляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.service.Leave(r.Context(), sessionID); err != nil {
		status := handlers.RespondWizardError(w, err)
		h.logger.Warn("DELETE /osago/wizard/{id} - Failed: session_id=%s, status=%d, error=%v", sessionID, status, err)
		return
	}

	h.logger.Info("DELETE /osago/wizard/{id} - Session closed: session_id=%s", sessionID)
	handlers.RespondNoContent(w)
}
