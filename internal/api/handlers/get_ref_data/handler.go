package get_ref_data

import (
	"net/http"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
)

const msgRefDataUnavailable = "не удалось загрузить справочники"

type Handler struct {
	service RefDataService
	logger  Logger
}

func NewHandler(service RefDataService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/osago/ref-data
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	refData, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("GET /osago/ref-data - Failed to load reference data: %v", err)
		handlers.RespondError(w, http.StatusInternalServerError, msgRefDataUnavailable)
		return
	}

	h.logger.Info("GET /osago/ref-data - Reference data loaded: categories=%d, regions=%d, terms=%d, kbm=%d",
		len(refData.VehicleCategories), len(refData.Regions), len(refData.Terms), len(refData.KbmClasses))
	handlers.RespondJSON(w, http.StatusOK, refData)
}
