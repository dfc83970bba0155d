package drafts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// DraftRepository интерфейс хранилища расчетов
type DraftRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.StoredDraft, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OwnerResolver определяет пользователя по bearer-токену (userservice.Client)
type OwnerResolver interface {
	ResolveUserIDWithGracefulDegradation(ctx context.Context, token string) (*int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
