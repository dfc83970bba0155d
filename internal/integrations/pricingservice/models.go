package pricingservice

import "github.com/shopspring/decimal"

// CalcRequest тело запроса расчета премии
type CalcRequest struct {
	VehicleCategoryID int64   `json:"vehicleCategoryId"`
	RegionID          int64   `json:"regionId"`
	PowerHP           int     `json:"powerHp"`
	UnlimitedDrivers  bool    `json:"unlimitedDrivers"`
	TermMonths        int     `json:"termMonths"`
	DriverBirthDate   *string `json:"driverBirthDate"`
	LicenseIssuedDate *string `json:"licenseIssuedDate"`
	KbmClassCode      *string `json:"kbmClassCode"`
}

// CalcResponse ответ сервиса расчета
type CalcResponse struct {
	CalcRequestID         int64           `json:"calcRequestId"`
	TariffVersionID       int64           `json:"tariffVersionId"`
	BaseRate              decimal.Decimal `json:"baseRate"`
	CoeffRegion           decimal.Decimal `json:"coeffRegion"`
	CoeffPower            decimal.Decimal `json:"coeffPower"`
	CoeffDrivers          decimal.Decimal `json:"coeffDrivers"`
	CoeffTerm             decimal.Decimal `json:"coeffTerm"`
	CoeffKvs              decimal.Decimal `json:"coeffKvs"`
	KbmClassCode          string          `json:"kbmClassCode"`
	CoeffKbm              decimal.Decimal `json:"coeffKbm"`
	DriverAgeYears        *int            `json:"driverAgeYears"`
	DriverExperienceYears *int            `json:"driverExperienceYears"`
	ResultAmount          decimal.Decimal `json:"resultAmount"`
}

// RefDataResponse справочники сервиса расчета
type RefDataResponse struct {
	VehicleCategories []RefItem    `json:"vehicleCategories"`
	Regions           []RefItem    `json:"regions"`
	Terms             []RefTerm    `json:"terms"`
	KbmClasses        []RefKbmItem `json:"kbmClasses"`
}

type RefItem struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type RefTerm struct {
	Months int    `json:"months"`
	Name   string `json:"name"`
}

type RefKbmItem struct {
	Code        string          `json:"code"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// ErrorResponse модель ошибки от сервиса расчета
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
