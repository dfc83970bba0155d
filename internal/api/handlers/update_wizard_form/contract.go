package update_wizard_form

import (
	"context"
	"encoding/json"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
)

type WizardService interface {
	UpdateForm(ctx context.Context, sessionID string, patch json.RawMessage) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
