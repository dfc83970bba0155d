package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/calculate_quote"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/create_wizard"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/discard_draft"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_draft"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_ref_data"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_wizard"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/leave_wizard"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/next_step"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/previous_step"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/update_wizard_form"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/metrics"
)

// Handlers набор обработчиков API
type Handlers struct {
	GetRefData       *get_ref_data.Handler
	CalculateQuote   *calculate_quote.Handler
	CreateWizard     *create_wizard.Handler
	GetWizard        *get_wizard.Handler
	UpdateWizardForm *update_wizard_form.Handler
	NextStep         *next_step.Handler
	PreviousStep     *previous_step.Handler
	LeaveWizard      *leave_wizard.Handler
	GetDraft         *get_draft.Handler
	DiscardDraft     *discard_draft.Handler
}

// MetricsConfig публикация метрик; m == nil отключает сбор
type MetricsConfig struct {
	Metrics *metrics.Metrics
	Path    string
}

// NewRouter собирает маршруты /api/v1 и endpoint метрик
func NewRouter(h Handlers, mc MetricsConfig) *mux.Router {
	r := mux.NewRouter()

	if mc.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(mc.Metrics))
		r.Handle(mc.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.OptionalBearer)

	// Справочники и расчет премии
	api.HandleFunc("/osago/ref-data", h.GetRefData.Handle).Methods(http.MethodGet)
	api.HandleFunc("/osago/calc", h.CalculateQuote.Handle).Methods(http.MethodPost)

	// Мастер расчета
	api.HandleFunc("/osago/wizard", h.CreateWizard.Handle).Methods(http.MethodPost)
	api.HandleFunc("/osago/wizard/{sessionId}", h.GetWizard.Handle).Methods(http.MethodGet)
	api.HandleFunc("/osago/wizard/{sessionId}", h.LeaveWizard.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/osago/wizard/{sessionId}/form", h.UpdateWizardForm.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/osago/wizard/{sessionId}/next", h.NextStep.Handle).Methods(http.MethodPost)
	api.HandleFunc("/osago/wizard/{sessionId}/back", h.PreviousStep.Handle).Methods(http.MethodPost)

	// Расчет для страницы оформления
	api.HandleFunc("/osago/drafts/{sessionId}", h.GetDraft.Handle).Methods(http.MethodGet)
	api.HandleFunc("/osago/drafts/{sessionId}", h.DiscardDraft.Handle).Methods(http.MethodDelete)

	return r
}
