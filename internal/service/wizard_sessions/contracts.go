package wizard_sessions

import (
	"context"
	"time"
)

// Metrics интерфейс метрик мастера (*metrics.Metrics, допускается nil)
type Metrics interface {
	RecordWizardTransition(direction, step, outcome string)
	SetActiveSessions(n int)
	ObservePricingCall(outcome string, seconds float64)
}

// DraftCleaner удаляет просроченные расчеты (запускается вместе с очисткой сессий)
type DraftCleaner interface {
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
