package next_step

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/middleware"
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

// Handle POST /api/v1/osago/wizard/{sessionId}/next
// С шага 3 запрос ждет ответа сервиса расчета
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	transition, err := h.service.Next(r.Context(), sessionID, middleware.GetToken(r.Context()))
	if err != nil {
		status := handlers.RespondWizardError(w, err)
		if status == http.StatusInternalServerError {
			h.logger.Error("POST /osago/wizard/{id}/next - Failed: session_id=%s, error=%v", sessionID, err)
		} else {
			h.logger.Warn("POST /osago/wizard/{id}/next - Rejected: session_id=%s, status=%d, reason=%v", sessionID, status, err)
		}
		return
	}

	h.logger.Info("POST /osago/wizard/{id}/next - session_id=%s, step %d -> %d", sessionID, transition.From, transition.To)
	handlers.RespondJSON(w, http.StatusOK, transition)
}
