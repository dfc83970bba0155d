package quote_wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
)

const (
	msgSessionExpired     = "Сессия истекла, войдите снова"
	msgPricingUnavailable = "Сервис расчета недоступен, попробуйте позже"
	msgPricingFailed      = "Ошибка расчета"
	msgCalcRequired       = "Сначала выполните расчет"
	msgPriceNotAccepted   = "Подтвердите, что стоимость вас устраивает"
)

// Wizard контроллер мастера расчета ОСАГО
// Хранит текущий шаг, введенную форму и результат расчета одной сессии.
// Во время запроса расчета навигация блокируется (ErrCalculationInProgress).
type Wizard struct {
	mu sync.Mutex

	sessionID   string
	step        domain.Step
	form        Form
	result      *domain.PricingResult
	draft       *domain.StoredDraft
	calculating bool

	pricing      PricingClient
	drafts       DraftStore
	owners       OwnerResolver
	timeProvider TimeProvider
	logger       Logger
}

// NewWizard создает мастер на первом шаге с предзаполненной формой
func NewWizard(
	sessionID string,
	pricing PricingClient,
	drafts DraftStore,
	logger Logger,
) *Wizard {
	return NewWizardWithTime(sessionID, pricing, drafts, &RealTimeProvider{}, logger)
}

// NewWizardWithTime то же, что NewWizard, с явным источником времени
func NewWizardWithTime(
	sessionID string,
	pricing PricingClient,
	drafts DraftStore,
	timeProvider TimeProvider,
	logger Logger,
) *Wizard {
	return &Wizard{
		sessionID:    sessionID,
		step:         domain.FirstStep,
		form:         DefaultForm(timeProvider.Now()),
		pricing:      pricing,
		drafts:       drafts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SetOwnerResolver включает привязку сохраненного расчета к пользователю токена
func (w *Wizard) SetOwnerResolver(owners OwnerResolver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.owners = owners
}

// SessionID идентификатор сессии мастера
func (w *Wizard) SessionID() string {
	return w.sessionID
}

// Step текущий шаг
func (w *Wizard) Step() domain.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form копия текущей формы
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// State снимок состояния мастера
func (w *Wizard) State() *State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := &State{
		SessionID:   w.sessionID,
		Step:        w.step,
		Form:        w.form,
		Calculating: w.calculating,
	}
	if w.result != nil {
		result := *w.result
		state.Result = &result
	}
	return state
}

// Draft копия сохраненного расчета, nil до перехода на шаг 4
func (w *Wizard) Draft() *domain.StoredDraft {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return nil
	}
	draft := *w.draft
	return &draft
}

// SetForm заменяет форму целиком
// Шаг и результат расчета не меняются
func (w *Wizard) SetForm(form Form) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.calculating {
		return ErrCalculationInProgress
	}
	w.form = form
	return nil
}

// PatchForm изменяет копию формы и подменяет форму, только если apply не вернул ошибку
// Чтение и запись формы выполняются под одной блокировкой.
func (w *Wizard) PatchForm(apply func(form *Form) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.calculating {
		return ErrCalculationInProgress
	}
	form := w.form
	if err := apply(&form); err != nil {
		return err
	}
	w.form = form
	return nil
}

// Validate проверяет текущий шаг, не меняя состояние
func (w *Wizard) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return validateStep(w.step, &w.form, w.timeProvider.Now())
}

// Next переход вперед
// На шаге 3 синхронно выполняет расчет, на шаге 4 передает расчет на оформление.
// token необязателен и передается в сервис расчета как bearer.
func (w *Wizard) Next(ctx context.Context, token string) (*Transition, error) {
	w.mu.Lock()
	if w.calculating {
		w.mu.Unlock()
		return nil, ErrCalculationInProgress
	}

	from := w.step
	form := w.form
	now := w.timeProvider.Now()

	switch from {
	case domain.StepVehicle, domain.StepDrivers:
		defer w.mu.Unlock()
		if err := validateStep(from, &form, now); err != nil {
			w.logger.Warn("Wizard %s: step %s validation failed: %v", w.sessionID, from, err)
			return nil, err
		}
		w.step = from.Next()
		w.logger.Info("Wizard %s: %s -> %s", w.sessionID, from, w.step)
		return &Transition{From: from, To: w.step}, nil

	case domain.StepInsuredContacts:
		if err := validateStep(from, &form, now); err != nil {
			w.mu.Unlock()
			w.logger.Warn("Wizard %s: step %s validation failed: %v", w.sessionID, from, err)
			return nil, err
		}
		// Прежний результат к новой форме не относится
		stale := w.draft != nil
		w.result = nil
		w.draft = nil
		w.calculating = true
		owners := w.owners
		w.mu.Unlock()

		result, draft, err := w.calculate(ctx, token, &form, owners)
		if err != nil && stale {
			w.discardStale(ctx)
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		w.calculating = false
		if err != nil {
			return nil, err
		}
		w.result = result
		w.draft = draft
		w.step = domain.StepResult
		w.logger.Info("Wizard %s: %s -> %s, calc_request_id=%d, amount=%s",
			w.sessionID, from, w.step, result.CalcRequestID, result.ResultAmount.StringFixed(domain.AmountScale))
		return &Transition{From: from, To: w.step}, nil

	case domain.StepResult:
		if w.draft == nil || w.result == nil {
			w.mu.Unlock()
			return nil, invalid(from, "result", ErrCalculationRequired, msgCalcRequired)
		}
		if !form.Consents.AgreeWithPrice {
			w.mu.Unlock()
			return nil, invalid(from, "consents.agreeWithPrice", ErrPriceNotAccepted, msgPriceNotAccepted)
		}
		accepted := *w.draft
		accepted.Form.Consents.AgreeWithPrice = true
		w.calculating = true
		w.mu.Unlock()

		err := w.drafts.Save(ctx, w.sessionID, &accepted)

		w.mu.Lock()
		defer w.mu.Unlock()
		w.calculating = false
		if err != nil {
			w.logger.Error("Wizard %s: failed to store accepted draft: %v", w.sessionID, err)
			return nil, fmt.Errorf("%w: failed to store draft: %v", ErrInternal, err)
		}
		w.draft = &accepted

		handoff := w.handoff(token)
		w.logger.Info("Wizard %s: handoff to %s", w.sessionID, handoff.Location)
		return &Transition{From: from, To: from, Location: handoff.Location, Handoff: handoff}, nil

	default:
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown step %d", ErrInternal, from)
	}
}

// Back переход назад, без валидации
// С первого шага мастер закрывается: в кабинет для авторизованных, иначе на главную
func (w *Wizard) Back(token string) (*Transition, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.calculating {
		return nil, ErrCalculationInProgress
	}

	from := w.step
	if from == domain.FirstStep {
		location := domain.LandingPath
		if token != "" {
			location = domain.ClientCabinetPath
		}
		return &Transition{From: from, To: from, Exited: true, Location: location}, nil
	}

	w.step = from.Previous()
	w.logger.Info("Wizard %s: %s <- %s", w.sessionID, w.step, from)
	return &Transition{From: from, To: w.step}, nil
}

// Leave явный уход из мастера: сохраненный расчет удаляется
func (w *Wizard) Leave(ctx context.Context) error {
	w.mu.Lock()
	if w.calculating {
		w.mu.Unlock()
		return ErrCalculationInProgress
	}
	w.result = nil
	w.draft = nil
	w.mu.Unlock()

	if err := w.drafts.Delete(ctx, w.sessionID); err != nil {
		w.logger.Error("Wizard %s: failed to delete draft: %v", w.sessionID, err)
		return fmt.Errorf("%w: failed to delete draft: %v", ErrInternal, err)
	}
	w.logger.Info("Wizard %s: left, draft discarded", w.sessionID)
	return nil
}

// discardStale удаляет расчет, сохраненный для прежней версии формы
func (w *Wizard) discardStale(ctx context.Context) {
	if err := w.drafts.Delete(ctx, w.sessionID); err != nil {
		w.logger.Error("Wizard %s: failed to delete stale draft: %v", w.sessionID, err)
		return
	}
	w.logger.Info("Wizard %s: stale draft discarded", w.sessionID)
}

// calculate вызывает сервис расчета и сохраняет результат вместе с анкетой
func (w *Wizard) calculate(ctx context.Context, token string, form *Form, owners OwnerResolver) (*domain.PricingResult, *domain.StoredDraft, error) {
	calcReq := buildCalcRequest(form)

	resp, err := w.pricing.Calculate(ctx, token, calcReq)
	if err != nil {
		w.logger.Warn("Wizard %s: pricing failed: %v", w.sessionID, err)
		return nil, nil, pricingError(err)
	}

	result := toPricingResult(resp)
	draft := &domain.StoredDraft{
		PricingResult: *result,
		Form:          buildQuoteDraft(form, calcReq),
		StoredAt:      w.timeProvider.Now(),
	}

	if owners != nil && token != "" {
		ownerID, err := owners.ResolveUserIDWithGracefulDegradation(ctx, token)
		if err != nil {
			w.logger.Warn("Wizard %s: draft owner not resolved: %v", w.sessionID, err)
		}
		draft.OwnerID = ownerID
	}

	if err := w.drafts.Save(ctx, w.sessionID, draft); err != nil {
		w.logger.Error("Wizard %s: failed to store draft: %v", w.sessionID, err)
		return nil, nil, fmt.Errorf("%w: failed to store draft: %v", ErrInternal, err)
	}

	return result, draft, nil
}

func (w *Wizard) handoff(token string) *Handoff {
	handoff := &Handoff{
		StorageName: domain.DraftStorageName,
		SessionID:   w.sessionID,
		Location:    domain.CheckoutPath,
	}
	if token == "" {
		handoff.RequiresLogin = true
		handoff.Location = domain.LoginPath + "?next=" + url.QueryEscape(domain.CheckoutPath)
	}
	return handoff
}

// pricingError переводит ошибку клиента в сообщение для пользователя
func pricingError(err error) error {
	var rejected *pricingservice.RejectedError
	switch {
	case errors.Is(err, pricingservice.ErrUnauthorized):
		return &PricingError{Message: msgSessionExpired, Err: err}
	case errors.As(err, &rejected):
		return &PricingError{Message: rejected.Message, Err: err}
	case errors.Is(err, pricingservice.ErrUnavailable):
		return &PricingError{Message: msgPricingUnavailable, Err: err}
	default:
		return &PricingError{Message: msgPricingFailed, Err: err}
	}
}

// buildCalcRequest параметры расчета из формы
// Даты водителя передаются только для ограниченного списка водителей.
// kbmClassCode не заполняется: класс КБМ определяет сервис расчета.
func buildCalcRequest(form *Form) *pricingservice.CalcRequest {
	req := &pricingservice.CalcRequest{
		VehicleCategoryID: form.Vehicle.VehicleCategoryID,
		RegionID:          form.Vehicle.RegionID,
		PowerHP:           form.Vehicle.PowerHP,
		UnlimitedDrivers:  form.Drivers.UnlimitedDrivers,
		TermMonths:        form.Drivers.TermMonths,
	}
	if !form.Drivers.UnlimitedDrivers {
		req.DriverBirthDate = optional(form.Drivers.BirthDate)
		req.LicenseIssuedDate = optional(form.Drivers.LicenseIssuedDate)
	}
	return req
}

func buildQuoteDraft(form *Form, calcReq *pricingservice.CalcRequest) domain.QuoteDraft {
	vin := strings.TrimSpace(form.Vehicle.VIN)
	regNumber := strings.TrimSpace(form.Vehicle.RegNumber)
	vinOrReg := vin
	if vinOrReg == "" {
		vinOrReg = regNumber
	}

	return domain.QuoteDraft{
		VehicleCategoryID: calcReq.VehicleCategoryID,
		RegionID:          calcReq.RegionID,
		PowerHP:           calcReq.PowerHP,
		UnlimitedDrivers:  calcReq.UnlimitedDrivers,
		TermMonths:        calcReq.TermMonths,
		DriverBirthDate:   calcReq.DriverBirthDate,
		LicenseIssuedDate: calcReq.LicenseIssuedDate,
		VinOrReg:          vinOrReg,
		Vehicle: domain.Vehicle{
			Brand:     strings.TrimSpace(form.Vehicle.Brand),
			Model:     strings.TrimSpace(form.Vehicle.Model),
			Year:      form.Vehicle.Year,
			VIN:       vin,
			RegNumber: regNumber,
		},
		Driver: domain.Driver{
			LastName:          strings.TrimSpace(form.Drivers.LastName),
			FirstName:         strings.TrimSpace(form.Drivers.FirstName),
			MiddleName:        strings.TrimSpace(form.Drivers.MiddleName),
			BirthDate:         calcReq.DriverBirthDate,
			LicenseNumber:     strings.TrimSpace(form.Drivers.LicenseNumber),
			LicenseIssuedDate: calcReq.LicenseIssuedDate,
		},
		Insured: domain.InsuredPerson{
			LastName:            strings.TrimSpace(form.Insured.LastName),
			FirstName:           strings.TrimSpace(form.Insured.FirstName),
			MiddleName:          strings.TrimSpace(form.Insured.MiddleName),
			BirthDate:           optional(form.Insured.BirthDate),
			PassportRaw:         strings.TrimSpace(form.Insured.Passport),
			PassportIssueDate:   optional(form.Insured.PassportIssueDate),
			RegistrationAddress: strings.TrimSpace(form.Insured.RegistrationAddress),
			Apartment:           strings.TrimSpace(form.Insured.Apartment),
		},
		Contacts: domain.Contacts{
			Email: strings.TrimSpace(form.Contacts.Email),
			Phone: strings.TrimSpace(form.Contacts.Phone),
		},
		Consents: domain.Consents{
			PersonalData:   form.Consents.PersonalData,
			Accuracy:       form.Consents.Accuracy,
			AgreeWithPrice: form.Consents.AgreeWithPrice,
		},
	}
}

func toPricingResult(resp *pricingservice.CalcResponse) *domain.PricingResult {
	return &domain.PricingResult{
		CalcRequestID:         resp.CalcRequestID,
		TariffVersionID:       resp.TariffVersionID,
		BaseRate:              resp.BaseRate,
		CoeffRegion:           resp.CoeffRegion,
		CoeffPower:            resp.CoeffPower,
		CoeffDrivers:          resp.CoeffDrivers,
		CoeffTerm:             resp.CoeffTerm,
		CoeffKvs:              resp.CoeffKvs,
		KbmClassCode:          resp.KbmClassCode,
		CoeffKbm:              resp.CoeffKbm,
		DriverAgeYears:        resp.DriverAgeYears,
		DriverExperienceYears: resp.DriverExperienceYears,
		ResultAmount:          resp.ResultAmount,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
