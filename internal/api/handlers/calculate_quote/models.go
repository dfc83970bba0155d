package calculate_quote

import (
	calculateQuote "github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/calculate_quote"
)

// CalculateQuoteRequest HTTP запрос на расчет премии ОСАГО
type CalculateQuoteRequest struct {
	VehicleCategoryID *int64  `json:"vehicleCategoryId"`
	RegionID          *int64  `json:"regionId"`
	PowerHP           *int    `json:"powerHp"`
	UnlimitedDrivers  *bool   `json:"unlimitedDrivers"`
	TermMonths        *int    `json:"termMonths"`
	DriverBirthDate   *string `json:"driverBirthDate"`
	LicenseIssuedDate *string `json:"licenseIssuedDate"`
	KbmClassCode      *string `json:"kbmClassCode"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CalculateQuoteRequest) ToUseCaseRequest(token string) *calculateQuote.Request {
	return &calculateQuote.Request{
		Token:             token,
		VehicleCategoryID: r.VehicleCategoryID,
		RegionID:          r.RegionID,
		PowerHP:           r.PowerHP,
		UnlimitedDrivers:  r.UnlimitedDrivers,
		TermMonths:        r.TermMonths,
		DriverBirthDate:   r.DriverBirthDate,
		LicenseIssuedDate: r.LicenseIssuedDate,
		KbmClassCode:      r.KbmClassCode,
	}
}
