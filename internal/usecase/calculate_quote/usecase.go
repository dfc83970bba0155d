package calculate_quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	tariffRepo "github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/tariff"
	userClient "github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/userservice"
)

// UseCase use case расчета премии ОСАГО по действующему тарифу
type UseCase struct {
	refDataRepo  RefDataRepository
	tariffRepo   TariffRepository
	users        UserResolver
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	refDataRepo RefDataRepository,
	tariffRepo TariffRepository,
	users UserResolver,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTime(refDataRepo, tariffRepo, users, txManager, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTime то же, что NewUseCase, с заданным источником времени
func NewUseCaseWithTime(
	refDataRepo RefDataRepository,
	tariffRepo TariffRepository,
	users UserResolver,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		refDataRepo:  refDataRepo,
		tariffRepo:   tariffRepo,
		users:        users,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет расчет премии и сохраняет его в журнал расчетов
// Все чтения тарифа и запись расчета выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.PricingResult, error) {
	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	p, err := validateRequest(req, now)
	if err != nil {
		uc.logger.Warn("CalculateQuote: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CalculateQuote: category=%d, region=%d, hp=%d, unlimited=%t, term=%d, kbm=%s",
		p.vehicleCategoryID, p.regionID, p.powerHP, p.unlimitedDrivers, p.termMonths, p.kbmClassCode)

	// 2. Пользователь (анонимный расчет разрешен)
	userID, err := uc.users.ResolveUserIDWithGracefulDegradation(ctx, req.Token)
	if err != nil {
		if errors.Is(err, userClient.ErrUnauthorized) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: failed to resolve user: %v", ErrInternal, err)
	}

	var result *domain.PricingResult

	// 3. Расчет в транзакции: тариф не должен смениться между чтениями коэффициентов
	err = uc.txManager.DoRepeatableRead(ctx, func(txCtx context.Context) error {
		if err := uc.checkReferences(txCtx, p); err != nil {
			return err
		}

		calc, err := uc.calculate(txCtx, p, now)
		if err != nil {
			return err
		}

		calcRequestID, err := uc.tariffRepo.SaveCalcRequest(txCtx, &domain.CalcRequestRecord{
			UserID:            userID,
			VehicleCategoryID: p.vehicleCategoryID,
			RegionID:          p.regionID,
			PowerHP:           p.powerHP,
			UnlimitedDrivers:  p.unlimitedDrivers,
			TermMonths:        p.termMonths,
			ResultAmount:      calc.ResultAmount,
			TariffVersionID:   calc.TariffVersionID,
			DriverBirthDate:   formatDate(p.driverBirthDate),
			LicenseIssuedDate: formatDate(p.licenseIssuedDate),
			KbmClassCode:      calc.KbmClassCode,
			CoeffKvs:          calc.CoeffKvs,
			CoeffKbm:          calc.CoeffKbm,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to save calc request: %v", ErrInternal, err)
		}

		calc.CalcRequestID = calcRequestID
		result = calc
		return nil
	})
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			uc.logger.Warn("CalculateQuote: rejected: %s", reqErr.Message)
			return nil, err
		}
		uc.logger.Error("CalculateQuote: failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CalculateQuote: calc_request_id=%d, tariff_version=%d, amount=%s",
		result.CalcRequestID, result.TariffVersionID, result.ResultAmount.StringFixed(domain.AmountScale))

	return result, nil
}

// checkReferences проверяет, что выбранные категория, регион и срок активны
func (uc *UseCase) checkReferences(ctx context.Context, p *params) error {
	checks := []struct {
		exists  func() (bool, error)
		message string
	}{
		{func() (bool, error) { return uc.refDataRepo.ExistsActiveCategory(ctx, p.vehicleCategoryID) }, "vehicleCategoryId is invalid"},
		{func() (bool, error) { return uc.refDataRepo.ExistsActiveRegion(ctx, p.regionID) }, "regionId is invalid"},
		{func() (bool, error) { return uc.refDataRepo.ExistsActiveTerm(ctx, p.termMonths) }, "termMonths is invalid"},
	}

	for _, check := range checks {
		ok, err := check.exists()
		if err != nil {
			return fmt.Errorf("%w: failed to check reference data: %v", ErrInternal, err)
		}
		if !ok {
			return reject(ErrInvalidInput, check.message)
		}
	}
	return nil
}

// calculate подбирает версию тарифа и коэффициенты, считает премию
func (uc *UseCase) calculate(ctx context.Context, p *params, now time.Time) (*domain.PricingResult, error) {
	versionID, err := uc.tariffRepo.FindActiveVersion(ctx, domain.TariffLookup{
		VehicleCategoryID: p.vehicleCategoryID,
		RegionID:          p.regionID,
		PowerHP:           p.powerHP,
		TermMonths:        p.termMonths,
		KbmClassCode:      p.kbmClassCode,
	})
	if err != nil {
		if errors.Is(err, tariffRepo.ErrTariffNotFound) {
			return nil, reject(ErrTariffNotFound, "No active OSAGO tariff found for provided parameters")
		}
		return nil, fmt.Errorf("%w: failed to find tariff version: %v", ErrInternal, err)
	}

	result := &domain.PricingResult{
		TariffVersionID: versionID,
		KbmClassCode:    p.kbmClassCode,
		CoeffKvs:        domain.CoefficientOne,
	}

	if result.BaseRate, err = uc.tariffRepo.BaseRate(ctx, versionID, p.vehicleCategoryID); err != nil {
		return nil, coefficientError(err, "Base rate not found for selected vehicle category")
	}
	if result.CoeffRegion, err = uc.tariffRepo.RegionCoefficient(ctx, versionID, p.regionID); err != nil {
		return nil, coefficientError(err, "Region coefficient not found")
	}
	if result.CoeffPower, err = uc.tariffRepo.PowerCoefficient(ctx, versionID, p.powerHP); err != nil {
		return nil, coefficientError(err, "Power coefficient not found")
	}

	// Коэффициент по водителям необязателен
	result.CoeffDrivers, err = uc.tariffRepo.DriversCoefficient(ctx, versionID, p.unlimitedDrivers)
	if errors.Is(err, tariffRepo.ErrCoefficientNotFound) {
		result.CoeffDrivers, err = domain.CoefficientOne, nil
	}
	if err != nil {
		return nil, coefficientError(err, "")
	}

	if result.CoeffTerm, err = uc.tariffRepo.TermCoefficient(ctx, versionID, p.termMonths); err != nil {
		return nil, coefficientError(err, "Insurance term coefficient not found")
	}

	if !p.unlimitedDrivers {
		age := fullYears(*p.driverBirthDate, now)
		experience := fullYears(*p.licenseIssuedDate, now)
		result.DriverAgeYears = &age
		result.DriverExperienceYears = &experience

		if result.CoeffKvs, err = uc.tariffRepo.KvsCoefficient(ctx, versionID, age, experience); err != nil {
			return nil, coefficientError(err, "KVS coefficient not found for provided age and experience")
		}
	}

	// Версия без таблицы КБМ: статутные значения
	result.CoeffKbm, err = uc.tariffRepo.KbmCoefficient(ctx, versionID, p.kbmClassCode)
	if errors.Is(err, tariffRepo.ErrCoefficientNotFound) {
		result.CoeffKbm, err = domain.DefaultKbmCoefficient(p.kbmClassCode), nil
	}
	if err != nil {
		return nil, coefficientError(err, "")
	}

	result.ResultAmount = premium(result)
	return result, nil
}

// premium произведение ставки и всех коэффициентов, округление до копеек half-up
func premium(r *domain.PricingResult) decimal.Decimal {
	return r.BaseRate.
		Mul(r.CoeffRegion).
		Mul(r.CoeffPower).
		Mul(r.CoeffDrivers).
		Mul(r.CoeffTerm).
		Mul(r.CoeffKvs).
		Mul(r.CoeffKbm).
		Round(domain.AmountScale)
}

// coefficientError отсутствие коэффициента - отказ в расчете с message, остальное - внутренняя ошибка
func coefficientError(err error, message string) error {
	if message != "" && errors.Is(err, tariffRepo.ErrCoefficientNotFound) {
		return reject(ErrCoefficientNotFound, message)
	}
	return fmt.Errorf("%w: failed to load coefficient: %v", ErrInternal, err)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
