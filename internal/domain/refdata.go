package domain

import "github.com/shopspring/decimal"

type VehicleCategory struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Region struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type PolicyTerm struct {
	Months int    `json:"months"`
	Name   string `json:"name"`
}

type KbmClass struct {
	Code        string          `json:"code"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// RefData справочники для формы расчета
type RefData struct {
	VehicleCategories []VehicleCategory `json:"vehicleCategories"`
	Regions           []Region          `json:"regions"`
	Terms             []PolicyTerm      `json:"terms"`
	KbmClasses        []KbmClass        `json:"kbmClasses"`
}
