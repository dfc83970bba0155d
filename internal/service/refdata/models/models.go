package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// RefItem элемент справочника с id
type RefItem struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// RefTerm срок страхования
type RefTerm struct {
	Months int    `json:"months"`
	Name   string `json:"name"`
}

// RefKbmClass класс КБМ
type RefKbmClass struct {
	Code        string          `json:"code"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// RefDataResponse справочники формы расчета
type RefDataResponse struct {
	VehicleCategories []RefItem     `json:"vehicleCategories"`
	Regions           []RefItem     `json:"regions"`
	Terms             []RefTerm     `json:"terms"`
	KbmClasses        []RefKbmClass `json:"kbmClasses"`
}

// FromDomainRefData конвертирует domain модель в DTO
// Пустые списки отдаются как [], а не null
func FromDomainRefData(r *domain.RefData) *RefDataResponse {
	resp := &RefDataResponse{
		VehicleCategories: make([]RefItem, 0, len(r.VehicleCategories)),
		Regions:           make([]RefItem, 0, len(r.Regions)),
		Terms:             make([]RefTerm, 0, len(r.Terms)),
		KbmClasses:        make([]RefKbmClass, 0, len(r.KbmClasses)),
	}

	for _, c := range r.VehicleCategories {
		resp.VehicleCategories = append(resp.VehicleCategories, RefItem{ID: c.ID, Code: c.Code, Name: c.Name})
	}
	for _, reg := range r.Regions {
		resp.Regions = append(resp.Regions, RefItem{ID: reg.ID, Code: reg.Code, Name: reg.Name})
	}
	for _, t := range r.Terms {
		resp.Terms = append(resp.Terms, RefTerm{Months: t.Months, Name: t.Name})
	}
	for _, k := range r.KbmClasses {
		resp.KbmClasses = append(resp.KbmClasses, RefKbmClass{Code: k.Code, Coefficient: k.Coefficient})
	}

	return resp
}
