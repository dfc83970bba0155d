package quote_wizard

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

var (
	namePattern  = regexp.MustCompile(`^[А-Яа-яA-Za-zЁё\-\s]{2,}$`)
	vinPattern   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{11,17}$`)
	plateLetters = `[АВЕКМНОРСТУХABEKMHOPCTYX]`
	platePattern = regexp.MustCompile(`^` + plateLetters + `[0-9]{3}` + plateLetters + `{2}[0-9]{2,3}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validateStep проверяет поля текущего шага
// Чистая функция от формы и текущего времени: повторный вызов дает тот же результат
func validateStep(step domain.Step, form *Form, now time.Time) error {
	switch step {
	case domain.StepVehicle:
		return validateVehicle(&form.Vehicle, now)
	case domain.StepDrivers:
		return validateDrivers(&form.Drivers, now)
	case domain.StepInsuredContacts:
		return validateInsured(form, now)
	default:
		return nil
	}
}

// validateVehicle шаг 1
func validateVehicle(v *VehicleForm, now time.Time) error {
	const step = domain.StepVehicle

	brand := strings.TrimSpace(v.Brand)
	model := strings.TrimSpace(v.Model)
	vin := strings.TrimSpace(v.VIN)
	regNumber := strings.TrimSpace(v.RegNumber)

	if v.VehicleCategoryID <= 0 {
		return invalid(step, "vehicleCategoryId", ErrCategoryRequired, "Выберите категорию ТС")
	}
	if v.RegionID <= 0 {
		return invalid(step, "regionId", ErrRegionRequired, "Выберите регион регистрации")
	}
	if brand == "" {
		return invalid(step, "brand", ErrBrandRequired, "Укажите марку автомобиля")
	}
	if len([]rune(brand)) < domain.MinBrandLength {
		return invalid(step, "brand", ErrBrandTooShort, "Марка должна быть не короче 2 символов")
	}
	if model == "" {
		return invalid(step, "model", ErrModelRequired, "Укажите модель автомобиля")
	}
	if v.Year < domain.MinVehicleYear || v.Year > now.Year()+1 {
		return invalid(step, "year", ErrInvalidYear, "Проверьте год выпуска")
	}
	if v.PowerHP <= 0 || v.PowerHP > domain.MaxPowerHP {
		return invalid(step, "powerHp", ErrInvalidPower, "Проверьте мощность двигателя")
	}
	if vin == "" && regNumber == "" {
		return invalid(step, "vin", ErrVinOrPlateRequired, "Укажите VIN или госномер")
	}
	if vin != "" && !IsLikelyVIN(vin) {
		return invalid(step, "vin", ErrInvalidVIN, "VIN введен в неверном формате")
	}
	if regNumber != "" && !IsLikelyRegNumber(regNumber) {
		return invalid(step, "regNumber", ErrInvalidPlate, "Госномер введен в неверном формате")
	}
	return nil
}

// validateDrivers шаг 2
// Данные водителя проверяются только для ограниченного списка водителей
func validateDrivers(d *DriversForm, now time.Time) error {
	const step = domain.StepDrivers

	if d.TermMonths <= 0 {
		return invalid(step, "termMonths", ErrTermRequired, "Выберите срок полиса")
	}
	if d.UnlimitedDrivers {
		return nil
	}

	last := strings.TrimSpace(d.LastName)
	first := strings.TrimSpace(d.FirstName)

	if last == "" || first == "" {
		return invalid(step, "lastName", ErrDriverNameRequired, "Заполните ФИО водителя")
	}
	if !namePattern.MatchString(last) {
		return invalid(step, "lastName", ErrInvalidDriverLastName, "Проверьте фамилию водителя")
	}
	if !namePattern.MatchString(first) {
		return invalid(step, "firstName", ErrInvalidDriverFirstName, "Проверьте имя водителя")
	}

	birthDate, ok := parseDate(d.BirthDate, now.Location())
	if !ok {
		return invalid(step, "birthDate", ErrDriverBirthDateRequired, "Укажите дату рождения водителя")
	}
	licenseDate, ok := parseDate(d.LicenseIssuedDate, now.Location())
	if !ok {
		return invalid(step, "licenseIssuedDate", ErrLicenseDateRequired, "Укажите дату начала стажа")
	}
	if !reachedAge(birthDate, domain.MinDriverAge, now) {
		return invalid(step, "birthDate", ErrDriverTooYoung, "Возраст водителя должен быть не менее 16 лет")
	}
	if licenseDate.After(now) {
		return invalid(step, "licenseIssuedDate", ErrLicenseDateInFuture, "Дата начала стажа не может быть в будущем")
	}
	if !reachedAge(birthDate, domain.MinDriverAge, licenseDate) {
		return invalid(step, "licenseIssuedDate", ErrLicenseBeforeMinAge,
			"Стаж не может начинаться раньше 16 лет")
	}
	if len(DigitsOnly(d.LicenseNumber)) < domain.MinLicenseDigits {
		return invalid(step, "licenseNumber", ErrInvalidLicenseNumber, "Проверьте номер водительского удостоверения")
	}
	return nil
}

// validateInsured шаг 3: страхователь, контакты, согласия
func validateInsured(form *Form, now time.Time) error {
	const step = domain.StepInsuredContacts

	p := &form.Insured
	last := strings.TrimSpace(p.LastName)
	first := strings.TrimSpace(p.FirstName)
	passport := strings.TrimSpace(p.Passport)
	address := strings.TrimSpace(p.RegistrationAddress)
	email := strings.TrimSpace(form.Contacts.Email)
	phone := strings.TrimSpace(form.Contacts.Phone)

	if last == "" || first == "" {
		return invalid(step, "insured.lastName", ErrInsuredNameRequired, "Заполните ФИО страхователя")
	}
	if !namePattern.MatchString(last) {
		return invalid(step, "insured.lastName", ErrInvalidInsuredLastName, "Проверьте фамилию страхователя")
	}
	if !namePattern.MatchString(first) {
		return invalid(step, "insured.firstName", ErrInvalidInsuredFirstName, "Проверьте имя страхователя")
	}

	birthDate, ok := parseDate(p.BirthDate, now.Location())
	if !ok {
		return invalid(step, "insured.birthDate", ErrInsuredBirthDateRequired, "Укажите дату рождения страхователя")
	}
	if !reachedAge(birthDate, domain.MinInsuredAge, now) {
		return invalid(step, "insured.birthDate", ErrInsuredTooYoung, "Страхователь должен быть не младше 18 лет")
	}
	if passport == "" {
		return invalid(step, "insured.passport", ErrPassportRequired, "Укажите серию и номер паспорта")
	}
	if len(DigitsOnly(passport)) < domain.MinPassportDigits {
		return invalid(step, "insured.passport", ErrInvalidPassport, "Проверьте серию и номер паспорта")
	}
	issueDate, ok := parseDate(p.PassportIssueDate, now.Location())
	if !ok {
		return invalid(step, "insured.passportIssueDate", ErrPassportIssueDateRequired, "Укажите дату выдачи паспорта")
	}
	if issueDate.After(now) {
		return invalid(step, "insured.passportIssueDate", ErrPassportIssuedInFuture,
			"Дата выдачи паспорта не может быть в будущем")
	}
	if len([]rune(address)) < domain.MinAddressLength {
		return invalid(step, "insured.registrationAddress", ErrAddressTooShort, "Укажите полный адрес регистрации")
	}
	if email == "" {
		return invalid(step, "contacts.email", ErrEmailRequired, "Укажите электронную почту")
	}
	if !IsValidEmail(email) {
		return invalid(step, "contacts.email", ErrInvalidEmail, "Проверьте электронную почту")
	}
	if phone == "" {
		return invalid(step, "contacts.phone", ErrPhoneRequired, "Укажите мобильный телефон")
	}
	if !IsValidRuPhone(phone) {
		return invalid(step, "contacts.phone", ErrInvalidPhone, "Проверьте формат телефона")
	}
	if !form.Consents.PersonalData || !form.Consents.Accuracy {
		return invalid(step, "consents", ErrConsentsRequired, "Нужно отметить оба согласия")
	}
	return nil
}

// IsLikelyVIN проверяет VIN: 11-17 символов без I, O, Q
func IsLikelyVIN(value string) bool {
	return vinPattern.MatchString(strings.ToUpper(strings.TrimSpace(value)))
}

// IsLikelyRegNumber проверяет российский госномер (кириллица или латиница той же формы)
func IsLikelyRegNumber(value string) bool {
	return platePattern.MatchString(strings.ToUpper(removeSpaces(value)))
}

// IsValidEmail простая проверка формата адреса
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// IsValidRuPhone 11 цифр, начиная с 7 или 8
func IsValidRuPhone(value string) bool {
	d := DigitsOnly(value)
	return len(d) == 11 && (d[0] == '7' || d[0] == '8')
}

// DigitsOnly оставляет в строке только цифры
func DigitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func removeSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// parseDate разбирает дату YYYY-MM-DD как полночь в часовом поясе loc
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// reachedAge true, если к моменту at с даты рождения прошло не менее years лет
func reachedAge(birthDate time.Time, years int, at time.Time) bool {
	return !birthDate.AddDate(years, 0, 0).After(at)
}
