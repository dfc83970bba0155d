package wizard_sessions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type transition struct {
	direction, step, outcome string
}

type recordingMetrics struct {
	mu           sync.Mutex
	transitions  []transition
	active       int
	pricingCalls []string
}

func (m *recordingMetrics) RecordWizardTransition(direction, step, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, transition{direction, step, outcome})
}

func (m *recordingMetrics) SetActiveSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = n
}

func (m *recordingMetrics) ObservePricingCall(outcome string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pricingCalls = append(m.pricingCalls, outcome)
}

func (m *recordingMetrics) last() transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[len(m.transitions)-1]
}

type stubPricing struct {
	err error
}

func (p *stubPricing) Calculate(context.Context, string, *pricingservice.CalcRequest) (*pricingservice.CalcResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &pricingservice.CalcResponse{
		CalcRequestID:   11,
		TariffVersionID: 2,
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

type memoryDrafts struct {
	mu    sync.Mutex
	saved map[string]*domain.StoredDraft
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{saved: map[string]*domain.StoredDraft{}}
}

func (d *memoryDrafts) Save(_ context.Context, sessionID string, draft *domain.StoredDraft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saved[sessionID] = draft
	return nil
}

func (d *memoryDrafts) Delete(_ context.Context, sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.saved, sessionID)
	return nil
}

func (d *memoryDrafts) has(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.saved[sessionID]
	return ok
}

type countingCleaner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingCleaner) Cleanup(context.Context, time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 0, c.err
}

func (c *countingCleaner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fixture struct {
	svc     *Service
	clock   *clock
	metrics *recordingMetrics
	drafts  *memoryDrafts
	cleaner *countingCleaner
}

func newFixture(cfg Config, pricing quote_wizard.PricingClient) *fixture {
	f := &fixture{
		clock:   &clock{now: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)},
		metrics: &recordingMetrics{},
		drafts:  newMemoryDrafts(),
		cleaner: &countingCleaner{},
	}
	f.svc = NewService(cfg, pricing, f.drafts, f.cleaner, f.metrics, f.clock, nopLogger{})
	return f
}

const validFormPatch = `{
	"vehicle": {"vehicleCategoryId": 1, "regionId": 3, "brand": "Lada", "model": "Vesta", "year": 2020, "powerHp": 120, "regNumber": "А123ВС77"},
	"drivers": {"termMonths": 12, "unlimitedDrivers": true},
	"insured": {"lastName": "Петров", "firstName": "Пётр", "birthDate": "1985-01-20", "passport": "4510 123456",
		"passportIssueDate": "2015-02-01", "registrationAddress": "г. Москва, ул. Ленина, д. 1"},
	"contacts": {"email": "petrov@example.com", "phone": "+7 (916) 123-45-67"},
	"consents": {"personalData": true, "accuracy": true}
}`

func TestService_CreateAndGet(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, int(domain.StepVehicle), created.Step)
	assert.Equal(t, "vehicle", created.StepName)
	assert.Equal(t, "1996-03-15", created.Form.Drivers.BirthDate)
	assert.Equal(t, 1, f.metrics.active)

	got, err := f.svc.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, created.SessionID, got.SessionID)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_CreateRespectsLimit(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour, MaxSessions: 1}, &stubPricing{})
	ctx := context.Background()

	_, err := f.svc.Create(ctx)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx)
	assert.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 1, f.svc.Active())
}

func TestService_UpdateFormMergesPatch(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)

	updated, err := f.svc.UpdateForm(ctx, created.SessionID, json.RawMessage(`{"vehicle": {"brand": "Lada"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Lada", updated.Form.Vehicle.Brand)
	assert.Equal(t, created.Form.Drivers.BirthDate, updated.Form.Drivers.BirthDate)

	_, err = f.svc.UpdateForm(ctx, created.SessionID, json.RawMessage(`{"vehicle": "oops"}`))
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestService_FullFlowToCheckout(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := created.SessionID

	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(validFormPatch))
	require.NoError(t, err)

	for _, want := range []domain.Step{domain.StepDrivers, domain.StepInsuredContacts, domain.StepResult} {
		tr, err := f.svc.Next(ctx, id, "token")
		require.NoError(t, err)
		assert.Equal(t, int(want), tr.To)
	}

	state, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state.Result)
	assert.Equal(t, "31758.48", state.Result.ResultAmount.StringFixed(2))
	assert.True(t, f.drafts.has(id))
	assert.Equal(t, []string{"ok"}, f.metrics.pricingCalls)
	assert.Equal(t, transition{"next", "insured_contacts", "ok"}, f.metrics.last())

	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(`{"consents": {"agreeWithPrice": true}}`))
	require.NoError(t, err)

	tr, err := f.svc.Next(ctx, id, "token")
	require.NoError(t, err)
	require.NotNil(t, tr.Handoff)
	assert.Equal(t, domain.CheckoutPath, tr.Handoff.Location)
	assert.Equal(t, transition{"next", "result", "handoff"}, f.metrics.last())
}

func TestService_NextValidationFailure(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, created.SessionID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, quote_wizard.ErrValidation)

	var vErr *quote_wizard.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, domain.StepVehicle, vErr.Step)
	assert.Equal(t, transition{"next", "vehicle", "invalid"}, f.metrics.last())
}

func TestService_NextPricingFailureKeepsStep(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{err: pricingservice.ErrUnavailable})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := created.SessionID

	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(validFormPatch))
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, id, "")
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, id, "")
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, id, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, quote_wizard.ErrPricingFailed)

	state, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StepInsuredContacts), state.Step)
	assert.False(t, f.drafts.has(id))
	assert.Equal(t, []string{"error"}, f.metrics.pricingCalls)
	assert.Equal(t, transition{"next", "insured_contacts", "pricing_failed"}, f.metrics.last())
}

func TestService_BackFromFirstStepClosesSession(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)

	tr, err := f.svc.Back(ctx, created.SessionID, "token")
	require.NoError(t, err)
	assert.True(t, tr.Exited)
	assert.Equal(t, domain.ClientCabinetPath, tr.Location)
	assert.Equal(t, transition{"back", "vehicle", "exit"}, f.metrics.last())

	_, err = f.svc.Get(ctx, created.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, f.metrics.active)
}

func TestService_BackOutOfWizardDiscardsDraft(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := created.SessionID

	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(validFormPatch))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.svc.Next(ctx, id, "")
		require.NoError(t, err)
	}
	require.True(t, f.drafts.has(id))

	for i := 0; i < 3; i++ {
		tr, err := f.svc.Back(ctx, id, "")
		require.NoError(t, err)
		assert.False(t, tr.Exited)
	}
	assert.True(t, f.drafts.has(id), "draft survives navigation inside the wizard")

	tr, err := f.svc.Back(ctx, id, "")
	require.NoError(t, err)
	assert.True(t, tr.Exited)
	assert.Equal(t, domain.LandingPath, tr.Location)
	assert.False(t, f.drafts.has(id))

	_, err = f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_FailedRepriceRemovesStoredDraft(t *testing.T) {
	pricing := &stubPricing{}
	f := newFixture(Config{TTL: time.Hour}, pricing)
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := created.SessionID

	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(validFormPatch))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.svc.Next(ctx, id, "")
		require.NoError(t, err)
	}

	_, err = f.svc.Back(ctx, id, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateForm(ctx, id, json.RawMessage(`{"vehicle": {"powerHp": 300}}`))
	require.NoError(t, err)

	pricing.err = pricingservice.ErrUnavailable
	_, err = f.svc.Next(ctx, id, "")
	require.ErrorIs(t, err, quote_wizard.ErrPricingFailed)

	state, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StepInsuredContacts), state.Step)
	assert.Equal(t, 300, state.Form.Vehicle.PowerHP)
	assert.Nil(t, state.Result)
	assert.False(t, f.drafts.has(id))
}

func TestService_UpdateFormConcurrentPatches(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := created.SessionID

	patches := []string{
		`{"vehicle": {"brand": "Lada"}}`,
		`{"vehicle": {"model": "Vesta"}}`,
		`{"insured": {"lastName": "Петров"}}`,
		`{"contacts": {"email": "petrov@example.com"}}`,
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		for _, patch := range patches {
			wg.Add(1)
			go func(patch string) {
				defer wg.Done()
				_, err := f.svc.UpdateForm(ctx, id, json.RawMessage(patch))
				assert.NoError(t, err)
			}(patch)
		}
	}
	wg.Wait()

	state, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lada", state.Form.Vehicle.Brand)
	assert.Equal(t, "Vesta", state.Form.Vehicle.Model)
	assert.Equal(t, "Петров", state.Form.Insured.LastName)
	assert.Equal(t, "petrov@example.com", state.Form.Contacts.Email)
}

func TestService_Leave(t *testing.T) {
	f := newFixture(Config{TTL: time.Hour}, &stubPricing{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Leave(ctx, created.SessionID))
	assert.Equal(t, 0, f.svc.Active())
	assert.ErrorIs(t, f.svc.Leave(ctx, created.SessionID), ErrSessionNotFound)
}

func TestService_EvictExpired(t *testing.T) {
	f := newFixture(Config{TTL: 30 * time.Minute}, &stubPricing{})
	ctx := context.Background()

	stale, err := f.svc.Create(ctx)
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	fresh, err := f.svc.Create(ctx)
	require.NoError(t, err)

	f.clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, f.svc.EvictExpired(ctx))

	_, err = f.svc.Get(ctx, stale.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.Get(ctx, fresh.SessionID)
	assert.NoError(t, err)

	assert.Equal(t, 1, f.cleaner.count())
	assert.Equal(t, 1, f.metrics.active)
}

func TestService_EvictExpiredIgnoresCleanupError(t *testing.T) {
	f := newFixture(Config{TTL: time.Minute}, &stubPricing{})
	f.cleaner.err = errors.New("db down")

	_, err := f.svc.Create(context.Background())
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	assert.Equal(t, 1, f.svc.EvictExpired(context.Background()))
}

func TestService_Janitor(t *testing.T) {
	f := newFixture(Config{TTL: time.Minute}, &stubPricing{})

	_, err := f.svc.Create(context.Background())
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	f.svc.StartJanitor(5 * time.Millisecond)
	f.svc.StartJanitor(5 * time.Millisecond)

	assert.Eventually(t, func() bool {
		return f.svc.Active() == 0 && f.cleaner.count() > 0
	}, time.Second, 5*time.Millisecond)

	f.svc.Stop()
	f.svc.Stop()
}

func TestService_NilMetrics(t *testing.T) {
	svc := NewService(Config{TTL: time.Hour}, &stubPricing{}, newMemoryDrafts(), nil, nil, &clock{now: time.Now()}, nopLogger{})

	created, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.Back(context.Background(), created.SessionID, "")
	assert.NoError(t, err)
}
