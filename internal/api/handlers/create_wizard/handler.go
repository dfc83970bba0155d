package create_wizard

import (
	"net/http"

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

// Handle POST /api/v1/osago/wizard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Create(r.Context())
	if err != nil {
		status := handlers.RespondWizardError(w, err)
		h.logger.Warn("POST /osago/wizard - Failed to create session: status=%d, error=%v", status, err)
		return
	}

	h.logger.Info("POST /osago/wizard - Session created: session_id=%s", session.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, session)
}
