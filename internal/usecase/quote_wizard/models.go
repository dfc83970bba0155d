package quote_wizard

import (
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// Form поля формы мастера в том виде, как их вводит пользователь
// Нулевые значения идентификаторов и чисел означают "не выбрано"
type Form struct {
	Vehicle  VehicleForm  `json:"vehicle" toml:"vehicle"`
	Drivers  DriversForm  `json:"drivers" toml:"drivers"`
	Insured  InsuredForm  `json:"insured" toml:"insured"`
	Contacts ContactsForm `json:"contacts" toml:"contacts"`
	Consents ConsentsForm `json:"consents" toml:"consents"`
}

// VehicleForm шаг 1
type VehicleForm struct {
	VehicleCategoryID int64  `json:"vehicleCategoryId" toml:"vehicle_category_id"`
	RegionID          int64  `json:"regionId" toml:"region_id"`
	Brand             string `json:"brand" toml:"brand"`
	Model             string `json:"model" toml:"model"`
	Year              int    `json:"year" toml:"year"`
	PowerHP           int    `json:"powerHp" toml:"power_hp"`
	VIN               string `json:"vin" toml:"vin"`
	RegNumber         string `json:"regNumber" toml:"reg_number"`
}

// DriversForm шаг 2
type DriversForm struct {
	TermMonths        int    `json:"termMonths" toml:"term_months"`
	UnlimitedDrivers  bool   `json:"unlimitedDrivers" toml:"unlimited_drivers"`
	LastName          string `json:"lastName" toml:"last_name"`
	FirstName         string `json:"firstName" toml:"first_name"`
	MiddleName        string `json:"middleName" toml:"middle_name"`
	BirthDate         string `json:"birthDate" toml:"birth_date"`
	LicenseIssuedDate string `json:"licenseIssuedDate" toml:"license_issued_date"`
	LicenseNumber     string `json:"licenseNumber" toml:"license_number"`
}

// InsuredForm шаг 3, страхователь
type InsuredForm struct {
	LastName            string `json:"lastName" toml:"last_name"`
	FirstName           string `json:"firstName" toml:"first_name"`
	MiddleName          string `json:"middleName" toml:"middle_name"`
	BirthDate           string `json:"birthDate" toml:"birth_date"`
	Passport            string `json:"passport" toml:"passport"` // серия и номер одной строкой
	PassportIssueDate   string `json:"passportIssueDate" toml:"passport_issue_date"`
	RegistrationAddress string `json:"registrationAddress" toml:"registration_address"`
	Apartment           string `json:"apartment" toml:"apartment"`
}

// ContactsForm шаг 3, контакты
type ContactsForm struct {
	Email string `json:"email" toml:"email"`
	Phone string `json:"phone" toml:"phone"`
}

// ConsentsForm согласия (шаг 3) и подтверждение цены (шаг 4)
type ConsentsForm struct {
	PersonalData   bool `json:"personalData" toml:"personal_data"`
	Accuracy       bool `json:"accuracy" toml:"accuracy"`
	AgreeWithPrice bool `json:"agreeWithPrice" toml:"agree_with_price"`
}

// Default date offsets used to prefill the form
const (
	defaultDriverAgeYears      = 30
	defaultDriverExperienceYrs = 10
	defaultInsuredAgeYears     = 30
)

// DefaultForm возвращает форму с предзаполненными датами
func DefaultForm(now time.Time) Form {
	return Form{
		Drivers: DriversForm{
			BirthDate:         yearsAgo(now, defaultDriverAgeYears),
			LicenseIssuedDate: yearsAgo(now, defaultDriverExperienceYrs),
		},
		Insured: InsuredForm{
			BirthDate: yearsAgo(now, defaultInsuredAgeYears),
		},
	}
}

func yearsAgo(now time.Time, years int) string {
	return now.AddDate(-years, 0, 0).Format(domain.DateFormat)
}

// Transition результат навигации по шагам
type Transition struct {
	From domain.Step
	To   domain.Step

	// Exited выставляется, когда пользователь ушел назад с первого шага
	Exited bool
	// Location адрес, куда нужно перейти вне мастера (выход или оформление)
	Location string

	Handoff *Handoff
}

// Handoff передача расчета странице оформления
type Handoff struct {
	StorageName   string
	SessionID     string
	Location      string
	RequiresLogin bool
}

// State снимок состояния мастера
type State struct {
	SessionID   string
	Step        domain.Step
	Form        Form
	Result      *domain.PricingResult
	Calculating bool
}
