package get_ref_data

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/refdata/models"
)

type RefDataService interface {
	Get(ctx context.Context) (*models.RefDataResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
