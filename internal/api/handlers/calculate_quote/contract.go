package calculate_quote

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	calculateQuote "github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/calculate_quote"
)

type CalculateQuoteUseCase interface {
	Execute(ctx context.Context, req *calculateQuote.Request) (*domain.PricingResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
