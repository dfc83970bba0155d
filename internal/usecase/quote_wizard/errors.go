package quote_wizard

import (
	"errors"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

var (
	// ErrValidation общий признак ошибки валидации шага
	ErrValidation = errors.New("quote_wizard: validation failed")

	// ErrCalculationInProgress возвращается, пока выполняется запрос расчета
	ErrCalculationInProgress = errors.New("quote_wizard: calculation in progress")

	// ErrPricingFailed возвращается, когда сервис расчета не вернул результат
	ErrPricingFailed = errors.New("quote_wizard: pricing failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quote_wizard: internal error")
)

// Шаг 1: автомобиль
var (
	ErrCategoryRequired   = errors.New("quote_wizard: vehicle category is required")
	ErrRegionRequired     = errors.New("quote_wizard: region is required")
	ErrBrandRequired      = errors.New("quote_wizard: brand is required")
	ErrBrandTooShort      = errors.New("quote_wizard: brand is too short")
	ErrModelRequired      = errors.New("quote_wizard: model is required")
	ErrInvalidYear        = errors.New("quote_wizard: invalid manufacture year")
	ErrInvalidPower       = errors.New("quote_wizard: invalid engine power")
	ErrVinOrPlateRequired = errors.New("quote_wizard: provide VIN or plate number")
	ErrInvalidVIN         = errors.New("quote_wizard: invalid VIN format")
	ErrInvalidPlate       = errors.New("quote_wizard: invalid plate number format")
)

// Шаг 2: водители и срок
var (
	ErrTermRequired            = errors.New("quote_wizard: policy term is required")
	ErrDriverNameRequired      = errors.New("quote_wizard: driver name is required")
	ErrInvalidDriverLastName   = errors.New("quote_wizard: invalid driver last name")
	ErrInvalidDriverFirstName  = errors.New("quote_wizard: invalid driver first name")
	ErrDriverBirthDateRequired = errors.New("quote_wizard: driver birth date is required")
	ErrLicenseDateRequired     = errors.New("quote_wizard: license issue date is required")
	ErrDriverTooYoung          = errors.New("quote_wizard: driver is younger than allowed")
	ErrLicenseDateInFuture     = errors.New("quote_wizard: license issue date is in the future")
	ErrLicenseBeforeMinAge     = errors.New("quote_wizard: license issued before minimum driving age")
	ErrInvalidLicenseNumber    = errors.New("quote_wizard: invalid license number")
)

// Шаг 3: страхователь и контакты
var (
	ErrInsuredNameRequired       = errors.New("quote_wizard: insured name is required")
	ErrInvalidInsuredLastName    = errors.New("quote_wizard: invalid insured last name")
	ErrInvalidInsuredFirstName   = errors.New("quote_wizard: invalid insured first name")
	ErrInsuredBirthDateRequired  = errors.New("quote_wizard: insured birth date is required")
	ErrInsuredTooYoung           = errors.New("quote_wizard: insured is younger than allowed")
	ErrPassportRequired          = errors.New("quote_wizard: passport is required")
	ErrInvalidPassport           = errors.New("quote_wizard: invalid passport series and number")
	ErrPassportIssueDateRequired = errors.New("quote_wizard: passport issue date is required")
	ErrPassportIssuedInFuture    = errors.New("quote_wizard: passport issue date is in the future")
	ErrAddressTooShort           = errors.New("quote_wizard: registration address is too short")
	ErrEmailRequired             = errors.New("quote_wizard: email is required")
	ErrInvalidEmail              = errors.New("quote_wizard: invalid email")
	ErrPhoneRequired             = errors.New("quote_wizard: phone is required")
	ErrInvalidPhone              = errors.New("quote_wizard: invalid phone")
	ErrConsentsRequired          = errors.New("quote_wizard: both consents are required")
)

// Шаг 4: переход к оформлению
var (
	ErrCalculationRequired = errors.New("quote_wizard: calculation is required")
	ErrPriceNotAccepted    = errors.New("quote_wizard: price is not accepted")
)

// ValidationError ошибка валидации шага с сообщением для пользователя
type ValidationError struct {
	Step    domain.Step
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять любую ошибку валидации через errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(step domain.Step, field string, err error, message string) *ValidationError {
	return &ValidationError{Step: step, Field: field, Message: message, Err: err}
}

// PricingError ошибка расчета, сообщение показывается пользователю как есть
type PricingError struct {
	Message string
	Err     error
}

func (e *PricingError) Error() string {
	return e.Message
}

func (e *PricingError) Unwrap() []error {
	return []error{ErrPricingFailed, e.Err}
}
