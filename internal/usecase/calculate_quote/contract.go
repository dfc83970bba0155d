package calculate_quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// RefDataRepository интерфейс проверки справочных значений
type RefDataRepository interface {
	ExistsActiveCategory(ctx context.Context, id int64) (bool, error)
	ExistsActiveRegion(ctx context.Context, id int64) (bool, error)
	ExistsActiveTerm(ctx context.Context, months int) (bool, error)
}

// TariffRepository интерфейс репозитория тарифов
type TariffRepository interface {
	FindActiveVersion(ctx context.Context, lookup domain.TariffLookup) (int64, error)
	BaseRate(ctx context.Context, versionID, vehicleCategoryID int64) (decimal.Decimal, error)
	RegionCoefficient(ctx context.Context, versionID, regionID int64) (decimal.Decimal, error)
	PowerCoefficient(ctx context.Context, versionID int64, powerHP int) (decimal.Decimal, error)
	DriversCoefficient(ctx context.Context, versionID int64, unlimited bool) (decimal.Decimal, error)
	TermCoefficient(ctx context.Context, versionID int64, months int) (decimal.Decimal, error)
	KvsCoefficient(ctx context.Context, versionID int64, ageYears, experienceYears int) (decimal.Decimal, error)
	KbmCoefficient(ctx context.Context, versionID int64, classCode string) (decimal.Decimal, error)
	SaveCalcRequest(ctx context.Context, record *domain.CalcRequestRecord) (int64, error)
}

// UserResolver интерфейс определения пользователя по токену
type UserResolver interface {
	ResolveUserIDWithGracefulDegradation(ctx context.Context, token string) (*int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoRepeatableRead(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
