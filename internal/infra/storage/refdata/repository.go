package refdata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/psqlbuilder"
)

// Repository репозиторий справочников формы расчета
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// VehicleCategories активные категории ТС
func (r *Repository) VehicleCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	var categories []domain.VehicleCategory
	err := r.selectRows(ctx, "VehicleCategories",
		psqlbuilder.Select("id", "code", "name").
			From("ref_vehicle_categories").
			Where(squirrel.Eq{"is_active": true}).
			OrderBy("id"),
		func(rows *sql.Rows) error {
			var c domain.VehicleCategory
			if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
				return err
			}
			categories = append(categories, c)
			return nil
		})
	return categories, err
}

// Regions активные регионы
func (r *Repository) Regions(ctx context.Context) ([]domain.Region, error) {
	var regions []domain.Region
	err := r.selectRows(ctx, "Regions",
		psqlbuilder.Select("id", "code", "name").
			From("ref_regions").
			Where(squirrel.Eq{"is_active": true}).
			OrderBy("id"),
		func(rows *sql.Rows) error {
			var reg domain.Region
			if err := rows.Scan(&reg.ID, &reg.Code, &reg.Name); err != nil {
				return err
			}
			regions = append(regions, reg)
			return nil
		})
	return regions, err
}

// Terms активные сроки страхования, от длинного к короткому
func (r *Repository) Terms(ctx context.Context) ([]domain.PolicyTerm, error) {
	var terms []domain.PolicyTerm
	err := r.selectRows(ctx, "Terms",
		psqlbuilder.Select("months", "name").
			From("ref_policy_terms").
			Where(squirrel.Eq{"is_active": true}).
			OrderBy("months DESC"),
		func(rows *sql.Rows) error {
			var term domain.PolicyTerm
			if err := rows.Scan(&term.Months, &term.Name); err != nil {
				return err
			}
			terms = append(terms, term)
			return nil
		})
	return terms, err
}

// KbmClasses классы КБМ действующих версий тарифа
func (r *Repository) KbmClasses(ctx context.Context) ([]domain.KbmClass, error) {
	var classes []domain.KbmClass
	err := r.selectRows(ctx, "KbmClasses",
		psqlbuilder.Select("kc.class_code", "kc.coefficient").
			From("osago_kbm_coefficients kc").
			Join("osago_tariff_versions tv ON tv.id = kc.tariff_version_id").
			Where(squirrel.Eq{"tv.is_active": true}).
			Where(squirrel.Expr("tv.valid_from <= current_date")).
			Where(squirrel.Expr("(tv.valid_to IS NULL OR tv.valid_to >= current_date)")).
			OrderBy("kc.coefficient DESC", "kc.class_code"),
		func(rows *sql.Rows) error {
			var class domain.KbmClass
			if err := rows.Scan(&class.Code, &class.Coefficient); err != nil {
				return err
			}
			classes = append(classes, class)
			return nil
		})
	return classes, err
}

// ExistsActiveCategory проверяет, что категория ТС есть и активна
func (r *Repository) ExistsActiveCategory(ctx context.Context, id int64) (bool, error) {
	return r.existsActive(ctx, "ref_vehicle_categories", "id", id)
}

// ExistsActiveRegion проверяет, что регион есть и активен
func (r *Repository) ExistsActiveRegion(ctx context.Context, id int64) (bool, error) {
	return r.existsActive(ctx, "ref_regions", "id", id)
}

// ExistsActiveTerm проверяет, что срок страхования есть и активен
func (r *Repository) ExistsActiveTerm(ctx context.Context, months int) (bool, error) {
	return r.existsActive(ctx, "ref_policy_terms", "months", months)
}

func (r *Repository) existsActive(ctx context.Context, table, column string, value interface{}) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	subQuery, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{column: value, "is_active": true}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: existsActive(%s) - build select query: %v", ErrBuildQuery, table, err)
	}

	var exists bool
	err = executor.QueryRowContext(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: existsActive(%s) - execute select: %v", ErrExecQuery, table, err)
	}

	return exists, nil
}

func (r *Repository) selectRows(ctx context.Context, op string, builder squirrel.SelectBuilder, scan func(rows *sql.Rows) error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrScanRow, op, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %s - rows iteration: %v", ErrExecQuery, op, err)
	}

	return nil
}
