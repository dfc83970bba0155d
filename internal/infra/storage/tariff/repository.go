package tariff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/psqlbuilder"
)

// Repository репозиторий тарифов ОСАГО и журнала расчетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// activeVersion условие действующей на сегодня версии тарифа
var activeVersion = squirrel.And{
	squirrel.Eq{"tv.is_active": true},
	squirrel.Expr("tv.valid_from <= current_date"),
	squirrel.Expr("(tv.valid_to IS NULL OR tv.valid_to >= current_date)"),
}

// FindActiveVersion ищет самую свежую действующую версию тарифа,
// в которой есть все коэффициенты для параметров расчета.
// Класс КБМ проверяется, только если версия вообще содержит таблицу КБМ.
func (r *Repository) FindActiveVersion(ctx context.Context, lookup domain.TariffLookup) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("tv.id").
		From("osago_tariff_versions tv").
		Where(activeVersion).
		Where(squirrel.Expr(`EXISTS (
			SELECT 1 FROM osago_base_rates br
			WHERE br.tariff_version_id = tv.id AND br.vehicle_category_id = ?)`, lookup.VehicleCategoryID)).
		Where(squirrel.Expr(`EXISTS (
			SELECT 1 FROM osago_region_coefficients rc
			WHERE rc.tariff_version_id = tv.id AND rc.region_id = ?)`, lookup.RegionID)).
		Where(squirrel.Expr(`EXISTS (
			SELECT 1 FROM osago_power_coefficients pc
			WHERE pc.tariff_version_id = tv.id AND pc.hp_from <= ? AND (pc.hp_to IS NULL OR pc.hp_to >= ?))`,
			lookup.PowerHP, lookup.PowerHP)).
		Where(squirrel.Expr(`EXISTS (
			SELECT 1 FROM osago_term_coefficients tc
			WHERE tc.tariff_version_id = tv.id AND tc.months = ?)`, lookup.TermMonths)).
		Where(squirrel.Expr(`EXISTS (
			SELECT 1 FROM osago_unlimited_driver_coefficients udc
			WHERE udc.tariff_version_id = tv.id)`)).
		Where(squirrel.Expr(`(NOT EXISTS (
			SELECT 1 FROM osago_kbm_coefficients k WHERE k.tariff_version_id = tv.id)
			OR EXISTS (
			SELECT 1 FROM osago_kbm_coefficients kbm
			WHERE kbm.tariff_version_id = tv.id AND upper(kbm.class_code) = ?))`, lookup.KbmClassCode)).
		OrderBy("tv.valid_from DESC", "tv.id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: FindActiveVersion - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTariffNotFound
		}
		return 0, fmt.Errorf("%w: FindActiveVersion - execute select: %v", ErrExecQuery, err)
	}

	return id, nil
}

// BaseRate базовая ставка для категории ТС
func (r *Repository) BaseRate(ctx context.Context, versionID, vehicleCategoryID int64) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "BaseRate",
		psqlbuilder.Select("base_rate").
			From("osago_base_rates").
			Where(squirrel.Eq{"tariff_version_id": versionID, "vehicle_category_id": vehicleCategoryID}).
			Limit(1))
}

// RegionCoefficient территориальный коэффициент
func (r *Repository) RegionCoefficient(ctx context.Context, versionID, regionID int64) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "RegionCoefficient",
		psqlbuilder.Select("coefficient").
			From("osago_region_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID, "region_id": regionID}).
			Limit(1))
}

// PowerCoefficient коэффициент мощности: диапазон с наибольшим hp_from, включающий hp
func (r *Repository) PowerCoefficient(ctx context.Context, versionID int64, powerHP int) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "PowerCoefficient",
		psqlbuilder.Select("coefficient").
			From("osago_power_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID}).
			Where(squirrel.LtOrEq{"hp_from": powerHP}).
			Where(squirrel.Or{squirrel.Eq{"hp_to": nil}, squirrel.GtOrEq{"hp_to": powerHP}}).
			OrderBy("hp_from DESC").
			Limit(1))
}

// DriversCoefficient коэффициент для неограниченного или ограниченного списка водителей
func (r *Repository) DriversCoefficient(ctx context.Context, versionID int64, unlimited bool) (decimal.Decimal, error) {
	column := "coeff_limited"
	if unlimited {
		column = "coeff_unlimited"
	}
	return r.findDecimal(ctx, "DriversCoefficient",
		psqlbuilder.Select(column).
			From("osago_unlimited_driver_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID}).
			Limit(1))
}

// TermCoefficient коэффициент срока страхования
func (r *Repository) TermCoefficient(ctx context.Context, versionID int64, months int) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "TermCoefficient",
		psqlbuilder.Select("coefficient").
			From("osago_term_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID, "months": months}).
			Limit(1))
}

// KvsCoefficient коэффициент возраст-стаж (полные годы)
func (r *Repository) KvsCoefficient(ctx context.Context, versionID int64, ageYears, experienceYears int) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "KvsCoefficient",
		psqlbuilder.Select("coefficient").
			From("osago_kvs_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID}).
			Where(squirrel.LtOrEq{"age_from": ageYears}).
			Where(squirrel.Or{squirrel.Eq{"age_to": nil}, squirrel.GtOrEq{"age_to": ageYears}}).
			Where(squirrel.LtOrEq{"exp_from": experienceYears}).
			Where(squirrel.Or{squirrel.Eq{"exp_to": nil}, squirrel.GtOrEq{"exp_to": experienceYears}}).
			OrderBy("age_from DESC", "exp_from DESC").
			Limit(1))
}

// KbmCoefficient коэффициент бонус-малус класса из версии тарифа
func (r *Repository) KbmCoefficient(ctx context.Context, versionID int64, classCode string) (decimal.Decimal, error) {
	return r.findDecimal(ctx, "KbmCoefficient",
		psqlbuilder.Select("coefficient").
			From("osago_kbm_coefficients").
			Where(squirrel.Eq{"tariff_version_id": versionID}).
			Where(squirrel.Expr("upper(class_code) = ?", classCode)).
			Limit(1))
}

// SaveCalcRequest сохраняет расчет и возвращает его id
func (r *Repository) SaveCalcRequest(ctx context.Context, record *domain.CalcRequestRecord) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("osago_calc_requests").
		Columns(
			"user_id",
			"vehicle_category_id",
			"region_id",
			"power_hp",
			"unlimited_drivers",
			"term_months",
			"result_amount",
			"tariff_version_id",
			"driver_birth_date",
			"license_issued_date",
			"kbm_class_code",
			"coeff_kvs",
			"coeff_kbm",
		).
		Values(
			record.UserID,
			record.VehicleCategoryID,
			record.RegionID,
			record.PowerHP,
			record.UnlimitedDrivers,
			record.TermMonths,
			record.ResultAmount,
			record.TariffVersionID,
			record.DriverBirthDate,
			record.LicenseIssuedDate,
			record.KbmClassCode,
			record.CoeffKvs,
			record.CoeffKbm,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SaveCalcRequest - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: SaveCalcRequest - execute insert: %v", ErrExecQuery, err)
	}

	return id, nil
}

func (r *Repository) findDecimal(ctx context.Context, op string, builder squirrel.SelectBuilder) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var value decimal.NullDecimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrCoefficientNotFound, op)
		}
		return decimal.Zero, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	if !value.Valid {
		return decimal.Zero, fmt.Errorf("%w: %s is null", ErrCoefficientNotFound, op)
	}

	return value.Decimal, nil
}
