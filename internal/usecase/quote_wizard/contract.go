package quote_wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
)

// PricingClient интерфейс клиента сервиса расчета
type PricingClient interface {
	Calculate(ctx context.Context, token string, req *pricingservice.CalcRequest) (*pricingservice.CalcResponse, error)
}

// DraftStore интерфейс хранилища расчета для страницы оформления
type DraftStore interface {
	Save(ctx context.Context, sessionID string, draft *domain.StoredDraft) error
	Delete(ctx context.Context, sessionID string) error
}

// OwnerResolver определяет пользователя по bearer-токену
// nil без ошибки - пользователь не определен, расчет сохраняется без владельца
type OwnerResolver interface {
	ResolveUserIDWithGracefulDegradation(ctx context.Context, token string) (*int64, error)
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
