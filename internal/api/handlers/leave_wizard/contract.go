package leave_wizard

import "context"

type WizardService interface {
	Leave(ctx context.Context, sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
