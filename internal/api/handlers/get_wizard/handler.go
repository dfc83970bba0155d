package get_wizard

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

// Handle GET /api/v1/osago/wizard/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		status := handlers.RespondWizardError(w, err)
		h.logger.Warn("GET /osago/wizard/{id} - Failed: session_id=%s, status=%d, error=%v", sessionID, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}
