package calculate_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/middleware"
	calculateQuote "github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/calculate_quote"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgUnauthorized       = "Unauthorized"
)

type Handler struct {
	useCase CalculateQuoteUseCase
	logger  Logger
}

func NewHandler(useCase CalculateQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/osago/calc
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CalculateQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /osago/calc - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(middleware.GetToken(r.Context())))
	if err != nil {
		var reqErr *calculateQuote.RequestError
		switch {
		case errors.As(err, &reqErr):
			h.logger.Warn("POST /osago/calc - Rejected: %v", reqErr.Message)
			handlers.RespondBadRequest(w, reqErr.Message)

		case errors.Is(err, calculateQuote.ErrUnauthorized):
			h.logger.Warn("POST /osago/calc - Token rejected")
			handlers.RespondUnauthorized(w, msgUnauthorized)

		default:
			h.logger.Error("POST /osago/calc - Failed to calculate premium: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /osago/calc - Premium calculated: calc_request_id=%d, amount=%s",
		result.CalcRequestID, result.ResultAmount.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, result)
}
