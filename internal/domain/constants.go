package domain

import "github.com/shopspring/decimal"

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DraftStorageName имя, под которым расчет передается странице оформления
const DraftStorageName = "osagoCalcDraft"

// Navigation targets
const (
	CheckoutPath      = "/insurance/osago/checkout.html"
	LoginPath         = "/login/index.html"
	ClientCabinetPath = "/cabinet/client/index.html"
	LandingPath       = "/"
)

// Vehicle validation constants
const (
	MinVehicleYear    = 1970
	MinBrandLength    = 2
	MaxPowerHP        = 2000
	MinAddressLength  = 6
	MinPassportDigits = 10
	MinLicenseDigits  = 6
	MinDriverAge      = 16
	MinInsuredAge     = 18
)

// Tariff constants
const (
	DefaultKbmClass = "3"
	AmountScale     = 2
)

// CoefficientOne нейтральный коэффициент
var CoefficientOne = decimal.RequireFromString("1.0000")

// DefaultKbmCoefficients значения КБМ по классам, применяемые без таблицы в тарифе
var DefaultKbmCoefficients = map[string]decimal.Decimal{
	"M":  decimal.RequireFromString("3.9200"),
	"0":  decimal.RequireFromString("2.9400"),
	"1":  decimal.RequireFromString("2.2500"),
	"2":  decimal.RequireFromString("1.7600"),
	"3":  decimal.RequireFromString("1.1700"),
	"4":  decimal.RequireFromString("1.0000"),
	"5":  decimal.RequireFromString("0.9100"),
	"6":  decimal.RequireFromString("0.8300"),
	"7":  decimal.RequireFromString("0.7800"),
	"8":  decimal.RequireFromString("0.7400"),
	"9":  decimal.RequireFromString("0.6800"),
	"10": decimal.RequireFromString("0.6300"),
	"11": decimal.RequireFromString("0.5700"),
	"12": decimal.RequireFromString("0.5200"),
	"13": decimal.RequireFromString("0.4600"),
}

// DefaultKbmClasses список классов КБМ для справочника, если в тарифе их нет
var DefaultKbmClasses = []KbmClass{
	{Code: "3", Coefficient: decimal.RequireFromString("1.1700")},
	{Code: "4", Coefficient: decimal.RequireFromString("1.0000")},
}

// DefaultKbmCoefficient возвращает КБМ класса или значение класса 3 для неизвестных
func DefaultKbmCoefficient(classCode string) decimal.Decimal {
	if c, ok := DefaultKbmCoefficients[classCode]; ok {
		return c
	}
	return DefaultKbmCoefficients[DefaultKbmClass]
}
