package refdata

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// RefDataRepository интерфейс репозитория справочников
type RefDataRepository interface {
	VehicleCategories(ctx context.Context) ([]domain.VehicleCategory, error)
	Regions(ctx context.Context) ([]domain.Region, error)
	Terms(ctx context.Context) ([]domain.PolicyTerm, error)
	KbmClasses(ctx context.Context) ([]domain.KbmClass, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
