package domain

import "time"

// Vehicle данные транспортного средства
type Vehicle struct {
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	VIN       string `json:"vin,omitempty"`
	RegNumber string `json:"regNumber,omitempty"`
}

// Driver данные водителя (только для ограниченного списка водителей)
type Driver struct {
	LastName          string  `json:"lastName"`
	FirstName         string  `json:"firstName"`
	MiddleName        string  `json:"middleName,omitempty"`
	BirthDate         *string `json:"birthDate"`
	LicenseNumber     string  `json:"licenseNumber"`
	LicenseIssuedDate *string `json:"licenseIssuedDate"`
}

// InsuredPerson данные страхователя
type InsuredPerson struct {
	LastName            string  `json:"lastName"`
	FirstName           string  `json:"firstName"`
	MiddleName          string  `json:"middleName,omitempty"`
	BirthDate           *string `json:"birthDate"`
	PassportRaw         string  `json:"passportRaw"`
	PassportIssueDate   *string `json:"passportIssueDate"`
	RegistrationAddress string  `json:"registrationAddress"`
	Apartment           string  `json:"apartment,omitempty"`
}

// Contacts контакты страхователя
type Contacts struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Consents согласия страхователя
type Consents struct {
	PersonalData   bool `json:"personalData"`
	Accuracy       bool `json:"accuracy"`
	AgreeWithPrice bool `json:"agreeWithPrice"`
}

// QuoteDraft введенные в мастере данные заявки, еще не отправленные на оформление
// Даты хранятся строками YYYY-MM-DD, как их вводит пользователь
type QuoteDraft struct {
	VehicleCategoryID int64   `json:"vehicleCategoryId"`
	RegionID          int64   `json:"regionId"`
	PowerHP           int     `json:"powerHp"`
	UnlimitedDrivers  bool    `json:"unlimitedDrivers"`
	TermMonths        int     `json:"termMonths"`
	DriverBirthDate   *string `json:"driverBirthDate"`
	LicenseIssuedDate *string `json:"licenseIssuedDate"`
	VinOrReg          string  `json:"vinOrReg"`

	Vehicle  Vehicle       `json:"vehicle"`
	Driver   Driver        `json:"driver"`
	Insured  InsuredPerson `json:"insured"`
	Contacts Contacts      `json:"contacts"`
	Consents Consents      `json:"consents"`
}

// StoredDraft расчет вместе с анкетой, передаваемый странице оформления
type StoredDraft struct {
	PricingResult
	Form     QuoteDraft `json:"form"`
	OwnerID  *int64     `json:"ownerId,omitempty"`
	StoredAt time.Time  `json:"storedAt"`
}

// ReadyForCheckout returns true if the draft may be handed to checkout
func (d *StoredDraft) ReadyForCheckout() bool {
	return d != nil && d.Form.Consents.AgreeWithPrice && d.CalcRequestID > 0
}
