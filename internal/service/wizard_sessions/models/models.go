package models

import (
	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
)

// SessionResponse состояние сессии мастера
type SessionResponse struct {
	SessionID   string                `json:"sessionId"`
	Step        int                   `json:"step"`
	StepName    string                `json:"stepName"`
	Form        quote_wizard.Form     `json:"form"`
	Result      *domain.PricingResult `json:"result,omitempty"`
	Calculating bool                  `json:"calculating"`
}

// HandoffResponse передача расчета странице оформления
type HandoffResponse struct {
	StorageName   string `json:"storageName"`
	SessionID     string `json:"sessionId"`
	Location      string `json:"location"`
	RequiresLogin bool   `json:"requiresLogin"`
}

// TransitionResponse результат перехода по шагам
type TransitionResponse struct {
	From     int              `json:"from"`
	To       int              `json:"to"`
	Exited   bool             `json:"exited"`
	Location string           `json:"location,omitempty"`
	Handoff  *HandoffResponse `json:"handoff,omitempty"`
	Session  *SessionResponse `json:"session"`
}

// FromState конвертирует состояние мастера в DTO
func FromState(s *quote_wizard.State) *SessionResponse {
	if s == nil {
		return nil
	}

	return &SessionResponse{
		SessionID:   s.SessionID,
		Step:        int(s.Step),
		StepName:    s.Step.String(),
		Form:        s.Form,
		Result:      s.Result,
		Calculating: s.Calculating,
	}
}

// FromTransition конвертирует результат перехода в DTO
func FromTransition(t *quote_wizard.Transition, state *quote_wizard.State) *TransitionResponse {
	resp := &TransitionResponse{
		From:     int(t.From),
		To:       int(t.To),
		Exited:   t.Exited,
		Location: t.Location,
		Session:  FromState(state),
	}

	if t.Handoff != nil {
		resp.Handoff = &HandoffResponse{
			StorageName:   t.Handoff.StorageName,
			SessionID:     t.Handoff.SessionID,
			Location:      t.Handoff.Location,
			RequiresLogin: t.Handoff.RequiresLogin,
		}
	}

	return resp
}
