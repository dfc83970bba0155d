package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers"
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
	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/draft"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/drafts"
	draftModels "github.com/m04kA/SMC-OsagoQuoteService/internal/service/drafts/models"
	refModels "github.com/m04kA/SMC-OsagoQuoteService/internal/service/refdata/models"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions"
	sessionModels "github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
	calculateQuoteUC "github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/calculate_quote"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/logger"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/metrics"
)

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

type stubPricing struct {
	err    error
	tokens []string
}

func (p *stubPricing) Calculate(_ context.Context, token string, _ *pricingservice.CalcRequest) (*pricingservice.CalcResponse, error) {
	p.tokens = append(p.tokens, token)
	if p.err != nil {
		return nil, p.err
	}
	return &pricingservice.CalcResponse{
		CalcRequestID:   77,
		TariffVersionID: 1,
		BaseRate:        decimal.RequireFromString("5000.00"),
		CoeffRegion:     decimal.RequireFromString("1.8000"),
		CoeffPower:      decimal.RequireFromString("1.3000"),
		CoeffDrivers:    decimal.RequireFromString("2.3200"),
		CoeffTerm:       decimal.RequireFromString("1.0000"),
		CoeffKvs:        decimal.RequireFromString("1.0000"),
		KbmClassCode:    "3",
		CoeffKbm:        decimal.RequireFromString("1.1700"),
		ResultAmount:    decimal.RequireFromString("31758.48"),
	}, nil
}

type stubRefData struct{}

func (stubRefData) Get(context.Context) (*refModels.RefDataResponse, error) {
	return &refModels.RefDataResponse{
		VehicleCategories: []refModels.RefItem{{ID: 1, Code: "B", Name: "Легковые"}},
		Regions:           []refModels.RefItem{{ID: 3, Code: "77", Name: "Москва"}},
		Terms:             []refModels.RefTerm{{Months: 12, Name: "1 год"}},
		KbmClasses:        []refModels.RefKbmClass{{Code: "3", Coefficient: decimal.RequireFromString("1.17")}},
	}, nil
}

type stubCalc struct {
	lastToken string
	err       error
}

func (c *stubCalc) Execute(_ context.Context, req *calculateQuoteUC.Request) (*domain.PricingResult, error) {
	c.lastToken = req.Token
	if c.err != nil {
		return nil, c.err
	}
	return &domain.PricingResult{CalcRequestID: 5, ResultAmount: decimal.RequireFromString("1000.00")}, nil
}

type testServer struct {
	router   http.Handler
	pricing  *stubPricing
	calc     *stubCalc
	sessions *wizard_sessions.Service
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.NewNop()
	pricing := &stubPricing{}
	calc := &stubCalc{}
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	draftRepo := draft.NewMemoryRepository(time.Hour, realTime{})
	draftSvc := drafts.NewService(draftRepo, nil, log)
	sessions := wizard_sessions.NewService(
		wizard_sessions.Config{TTL: time.Hour},
		pricing, draftRepo, draftSvc, m, realTime{}, log,
	)

	router := NewRouter(Handlers{
		GetRefData:       get_ref_data.NewHandler(stubRefData{}, log),
		CalculateQuote:   calculate_quote.NewHandler(calc, log),
		CreateWizard:     create_wizard.NewHandler(sessions, log),
		GetWizard:        get_wizard.NewHandler(sessions, log),
		UpdateWizardForm: update_wizard_form.NewHandler(sessions, log),
		NextStep:         next_step.NewHandler(sessions, log),
		PreviousStep:     previous_step.NewHandler(sessions, log),
		LeaveWizard:      leave_wizard.NewHandler(sessions, log),
		GetDraft:         get_draft.NewHandler(draftSvc, log),
		DiscardDraft:     discard_draft.NewHandler(draftSvc, log),
	}, MetricsConfig{Metrics: m, Path: "/metrics"})

	return &testServer{router: router, pricing: pricing, calc: calc, sessions: sessions, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const validForm = `{
	"vehicle": {"vehicleCategoryId": 1, "regionId": 3, "brand": "Lada", "model": "Vesta", "year": 2020, "powerHp": 120, "regNumber": "А123ВС77"},
	"drivers": {"termMonths": 12, "unlimitedDrivers": true},
	"insured": {"lastName": "Петров", "firstName": "Пётр", "birthDate": "1985-01-20", "passport": "4510 123456",
		"passportIssueDate": "2015-02-01", "registrationAddress": "г. Москва, ул. Ленина, д. 1"},
	"contacts": {"email": "petrov@example.com", "phone": "89161234567"},
	"consents": {"personalData": true, "accuracy": true}
}`

func TestRouter_WizardFlowToCheckout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/osago/wizard", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[sessionModels.SessionResponse](t, rec)
	id := session.SessionID
	base := "/api/v1/osago/wizard/" + id

	// Черновик еще не сохранен
	rec = s.do(t, http.MethodGet, "/api/v1/osago/drafts/"+id, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Сначала выполните расчет ОСАГО", decode[handlers.ErrorResponse](t, rec).Message)

	rec = s.do(t, http.MethodPatch, base+"/form", "", validForm)
	require.Equal(t, http.StatusOK, rec.Code)

	for i := 0; i < 3; i++ {
		rec = s.do(t, http.MethodPost, base+"/next", "tok", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	tr := decode[sessionModels.TransitionResponse](t, rec)
	assert.Equal(t, int(domain.StepResult), tr.To)
	assert.Equal(t, []string{"tok"}, s.pricing.tokens)

	// Расчет сохранен, но стоимость еще не подтверждена
	rec = s.do(t, http.MethodGet, "/api/v1/osago/drafts/"+id, "", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Подтвердите, что стоимость вас устраивает", decode[handlers.ErrorResponse](t, rec).Message)

	// Без подтверждения цены оформление недоступно
	rec = s.do(t, http.MethodPost, base+"/next", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	vErr := decode[handlers.ValidationErrorResponse](t, rec)
	assert.Equal(t, "Подтвердите, что стоимость вас устраивает", vErr.Message)
	assert.Equal(t, int(domain.StepResult), vErr.Step)

	rec = s.do(t, http.MethodPatch, base+"/form", "", `{"consents": {"agreeWithPrice": true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/next", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tr = decode[sessionModels.TransitionResponse](t, rec)
	require.NotNil(t, tr.Handoff)
	assert.True(t, tr.Handoff.RequiresLogin)
	assert.True(t, strings.HasPrefix(tr.Handoff.Location, domain.LoginPath+"?next="))

	rec = s.do(t, http.MethodGet, "/api/v1/osago/drafts/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[draftModels.DraftResponse](t, rec)
	assert.True(t, stored.ReadyForCheckout)
	assert.Equal(t, int64(77), stored.CalcRequestID)
	assert.Equal(t, "А123ВС77", stored.Form.VinOrReg)

	rec = s.do(t, http.MethodDelete, "/api/v1/osago/drafts/"+id, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/osago/drafts/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_WizardErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/osago/wizard/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/osago/wizard", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/v1/osago/wizard/" + decode[sessionModels.SessionResponse](t, rec).SessionID

	t.Run("validation error carries step and message", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, base+"/next", "", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[handlers.ValidationErrorResponse](t, rec)
		assert.Equal(t, int(domain.StepVehicle), body.Step)
		assert.NotEmpty(t, body.Message)
	})

	t.Run("form patch must be an object", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, base+"/form", "", `[1, 2]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPatch, base+"/form", "", `{"vehicle": {"powerHp": "many"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pricing failure is 502 with message", func(t *testing.T) {
		s.pricing.err = &pricingservice.RejectedError{StatusCode: http.StatusBadRequest, Message: "No active OSAGO tariff found for provided parameters"}

		rec := s.do(t, http.MethodPatch, base+"/form", "", validForm)
		require.Equal(t, http.StatusOK, rec.Code)
		s.do(t, http.MethodPost, base+"/next", "", "")
		s.do(t, http.MethodPost, base+"/next", "", "")

		rec = s.do(t, http.MethodPost, base+"/next", "", "")
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "No active OSAGO tariff found for provided parameters", decode[handlers.ErrorResponse](t, rec).Message)

		rec = s.do(t, http.MethodGet, base, "", "")
		assert.Equal(t, int(domain.StepInsuredContacts), decode[sessionModels.SessionResponse](t, rec).Step)
	})

	t.Run("back from first step exits", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := s.do(t, http.MethodPost, base+"/back", "", "")
			require.Equal(t, http.StatusOK, rec.Code)
		}
		rec := s.do(t, http.MethodPost, base+"/back", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		tr := decode[sessionModels.TransitionResponse](t, rec)
		assert.True(t, tr.Exited)
		assert.Equal(t, domain.LandingPath, tr.Location)

		rec = s.do(t, http.MethodDelete, base, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_CalculateQuote(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/osago/calc", "abc", `{"vehicleCategoryId": 1, "regionId": 3, "powerHp": 120, "unlimitedDrivers": true, "termMonths": 12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", s.calc.lastToken)

	rec = s.do(t, http.MethodPost, "/api/v1/osago/calc", "", `{"unknown": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.calc.err = &calculateQuoteUC.RequestError{Err: calculateQuoteUC.ErrInvalidInput, Message: "powerHp must be in range 1..2000"}
	rec = s.do(t, http.MethodPost, "/api/v1/osago/calc", "", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "powerHp must be in range 1..2000", decode[handlers.ErrorResponse](t, rec).Message)

	s.calc.err = calculateQuoteUC.ErrUnauthorized
	rec = s.do(t, http.MethodPost, "/api/v1/osago/calc", "bad", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.calc.err = errors.New("db down")
	rec = s.do(t, http.MethodPost, "/api/v1/osago/calc", "", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_RefDataAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/osago/ref-data", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	refData := decode[refModels.RefDataResponse](t, rec)
	assert.Len(t, refData.VehicleCategories, 1)
	assert.Equal(t, "3", refData.KbmClasses[0].Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
