package discard_draft

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
)

type Handler struct {
	service DraftService
	logger  Logger
}

func NewHandler(service DraftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/osago/drafts/{sessionId}
// Вызывается после отправки заявки на оформление
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.service.Discard(r.Context(), sessionID); err != nil {
		h.logger.Error("DELETE /osago/drafts/{id} - Failed to discard draft: session_id=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /osago/drafts/{id} - Draft discarded: session_id=%s", sessionID)
	handlers.RespondNoContent(w)
}
