package get_wizard

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
)

type WizardService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
