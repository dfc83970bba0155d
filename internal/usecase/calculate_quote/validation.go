package calculate_quote

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

// validateRequest проверяет параметры, не требующие обращения к БД
func validateRequest(req *Request, now time.Time) (*params, error) {
	if req == nil {
		return nil, reject(ErrInvalidInput, "Request body is missing")
	}
	if req.VehicleCategoryID == nil {
		return nil, reject(ErrInvalidInput, "vehicleCategoryId is required")
	}
	if req.RegionID == nil {
		return nil, reject(ErrInvalidInput, "regionId is required")
	}
	if req.PowerHP == nil || *req.PowerHP <= 0 || *req.PowerHP > domain.MaxPowerHP {
		return nil, reject(ErrInvalidInput, "powerHp must be in range 1..2000")
	}
	if req.TermMonths == nil || *req.TermMonths <= 0 {
		return nil, reject(ErrInvalidInput, "termMonths must be > 0")
	}
	if req.UnlimitedDrivers == nil {
		return nil, reject(ErrInvalidInput, "unlimitedDrivers is required")
	}

	p := &params{
		vehicleCategoryID: *req.VehicleCategoryID,
		regionID:          *req.RegionID,
		powerHP:           *req.PowerHP,
		unlimitedDrivers:  *req.UnlimitedDrivers,
		termMonths:        *req.TermMonths,
		kbmClassCode:      normalizeKbmClass(req.KbmClassCode),
	}

	if p.unlimitedDrivers {
		return p, nil
	}

	birth, err := parseDriverDate(req.DriverBirthDate, "driverBirthDate", now)
	if err != nil {
		return nil, err
	}
	license, err := parseDriverDate(req.LicenseIssuedDate, "licenseIssuedDate", now)
	if err != nil {
		return nil, err
	}
	p.driverBirthDate = &birth
	p.licenseIssuedDate = &license

	return p, nil
}

func parseDriverDate(value *string, field string, now time.Time) (time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return time.Time{}, reject(ErrInvalidInput, field+" is required for limited drivers")
	}
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(*value), now.Location())
	if err != nil {
		return time.Time{}, reject(ErrInvalidInput, field+" is invalid")
	}
	if date.After(truncateToDay(now)) {
		return time.Time{}, reject(ErrInvalidInput, field+" cannot be in the future")
	}
	return date, nil
}

// normalizeKbmClass пустой класс означает стартовый класс 3
func normalizeKbmClass(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return domain.DefaultKbmClass
	}
	return strings.ToUpper(strings.TrimSpace(*value))
}

// fullYears количество полных лет между датами
func fullYears(from, now time.Time) int {
	years := now.Year() - from.Year()
	if now.Month() < from.Month() || (now.Month() == from.Month() && now.Day() < from.Day()) {
		years--
	}
	return years
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
