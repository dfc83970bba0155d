package domain

import "github.com/shopspring/decimal"

// PricingResult результат расчета премии сервисом тарификации
// Неизменяем после получения
type PricingResult struct {
	CalcRequestID   int64           `json:"calcRequestId"`
	TariffVersionID int64           `json:"tariffVersionId,omitempty"`
	BaseRate        decimal.Decimal `json:"baseRate"`
	CoeffRegion     decimal.Decimal `json:"coeffRegion"`
	CoeffPower      decimal.Decimal `json:"coeffPower"`
	CoeffDrivers    decimal.Decimal `json:"coeffDrivers"`
	CoeffTerm       decimal.Decimal `json:"coeffTerm"`
	CoeffKvs        decimal.Decimal `json:"coeffKvs"`
	KbmClassCode    string          `json:"kbmClassCode,omitempty"`
	CoeffKbm        decimal.Decimal `json:"coeffKbm"`

	DriverAgeYears        *int `json:"driverAgeYears,omitempty"`
	DriverExperienceYears *int `json:"driverExperienceYears,omitempty"`

	ResultAmount decimal.Decimal `json:"resultAmount"`
}

// CalcParams параметры тарификации
type CalcParams struct {
	VehicleCategoryID int64
	RegionID          int64
	PowerHP           int
	UnlimitedDrivers  bool
	TermMonths        int
	DriverBirthDate   *string
	LicenseIssuedDate *string
	KbmClassCode      *string
}

// CalcRequestRecord сохраняемая запись о выполненном расчете
type CalcRequestRecord struct {
	UserID            *int64
	VehicleCategoryID int64
	RegionID          int64
	PowerHP           int
	UnlimitedDrivers  bool
	TermMonths        int
	ResultAmount      decimal.Decimal
	TariffVersionID   int64
	DriverBirthDate   *string
	LicenseIssuedDate *string
	KbmClassCode      string
	CoeffKvs          decimal.Decimal
	CoeffKbm          decimal.Decimal
}

// TariffLookup параметры выбора действующей версии тарифа
type TariffLookup struct {
	VehicleCategoryID int64
	RegionID          int64
	PowerHP           int
	TermMonths        int
	KbmClassCode      string
}
