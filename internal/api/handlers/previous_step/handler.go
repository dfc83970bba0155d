package previous_step

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

// Handle POST /api/v1/osago/wizard/{sessionId}/back
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	transition, err := h.service.Back(r.Context(), sessionID, middleware.GetToken(r.Context()))
	if err != nil {
		status := handlers.RespondWizardError(w, err)
		h.logger.Warn("POST /osago/wizard/{id}/back - Failed: session_id=%s, status=%d, error=%v", sessionID, status, err)
		return
	}

	if transition.Exited {
		h.logger.Info("POST /osago/wizard/{id}/back - session_id=%s left the wizard to %s", sessionID, transition.Location)
	}
	handlers.RespondJSON(w, http.StatusOK, transition)
}
