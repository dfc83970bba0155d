package get_draft

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/drafts"
)

const (
	msgCalculationRequired = "Сначала выполните расчет ОСАГО"
	msgPriceNotConfirmed   = "Подтвердите, что стоимость вас устраивает"
	msgMalformedDraft      = "Данные расчета повреждены, обновите страницу и выполните расчет заново"
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

// Handle GET /api/v1/osago/drafts/{sessionId}
// Используется страницей оформления полиса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	draft, err := h.service.Get(r.Context(), sessionID, middleware.GetToken(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("GET /osago/drafts/{id} - Draft not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgCalculationRequired)

		case errors.Is(err, drafts.ErrDraftNotReady):
			h.logger.Warn("GET /osago/drafts/{id} - Price not confirmed: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgPriceNotConfirmed)

		case errors.Is(err, drafts.ErrMalformedDraft):
			h.logger.Warn("GET /osago/drafts/{id} - Malformed draft: session_id=%s, error=%v", sessionID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMalformedDraft)

		default:
			h.logger.Error("GET /osago/drafts/{id} - Failed to get draft: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /osago/drafts/{id} - Draft retrieved: session_id=%s, calc_request_id=%d", sessionID, draft.CalcRequestID)
	handlers.RespondJSON(w, http.StatusOK, draft)
}
