package models

import (
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// DraftResponse сохраненный расчет для страницы оформления
type DraftResponse struct {
	domain.PricingResult
	Form             domain.QuoteDraft `json:"form"`
	StoredAt         time.Time         `json:"storedAt"`
	ReadyForCheckout bool              `json:"readyForCheckout"`
}

// FromDomainDraft конвертирует domain модель в DTO
func FromDomainDraft(d *domain.StoredDraft) *DraftResponse {
	if d == nil {
		return nil
	}

	return &DraftResponse{
		PricingResult:    d.PricingResult,
		Form:             d.Form,
		StoredAt:         d.StoredAt,
		ReadyForCheckout: d.ReadyForCheckout(),
	}
}
