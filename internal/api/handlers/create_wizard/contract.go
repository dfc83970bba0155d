package create_wizard

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
)

type WizardService interface {
	Create(ctx context.Context) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
