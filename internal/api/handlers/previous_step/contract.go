package previous_step

import (
	"context"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
)

type WizardService interface {
	Back(ctx context.Context, sessionID, token string) (*models.TransitionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
