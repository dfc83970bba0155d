package calculate_quote

import "time"

// Request модель запроса на расчет премии
// Указатели позволяют отличить отсутствующее поле от нулевого значения
type Request struct {
	Token             string  // Bearer-токен (необязательно)
	VehicleCategoryID *int64  // ID категории ТС
	RegionID          *int64  // ID региона
	PowerHP           *int    // Мощность, л.с.
	UnlimitedDrivers  *bool   // Без ограничения списка водителей
	TermMonths        *int    // Срок страхования, мес.
	DriverBirthDate   *string // Дата рождения водителя YYYY-MM-DD (для ограниченного списка)
	LicenseIssuedDate *string // Дата выдачи прав YYYY-MM-DD (для ограниченного списка)
	KbmClassCode      *string // Класс КБМ, по умолчанию "3"
}

// params проверенные параметры расчета
type params struct {
	vehicleCategoryID int64
	regionID          int64
	powerHP           int
	unlimitedDrivers  bool
	termMonths        int
	kbmClassCode      string

	// Только для ограниченного списка водителей
	driverBirthDate   *time.Time
	licenseIssuedDate *time.Time
}
