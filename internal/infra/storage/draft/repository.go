package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/psqlbuilder"
)

const tableName = "osago_quote_drafts"

// Repository репозиторий сохраненных расчетов в PostgreSQL
// Расчет хранится целиком в jsonb, ключ - id сессии мастера
type Repository struct {
	db  DBExecutor
	ttl time.Duration
}

// NewRepository создает новый экземпляр репозитория расчетов
// ttl - сколько расчет доступен странице оформления после сохранения
func NewRepository(db DBExecutor, ttl time.Duration) *Repository {
	return &Repository{db: db, ttl: ttl}
}

// Save сохраняет расчет, перезаписывая предыдущий расчет той же сессии
func (r *Repository) Save(ctx context.Context, sessionID string, draft *domain.StoredDraft) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: Save: %v", ErrEncodeDraft, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"session_id",
			"storage_name",
			"calc_request_id",
			"payload",
			"expires_at",
		).
		Values(
			sessionID,
			domain.DraftStorageName,
			draft.CalcRequestID,
			payload,
			draft.StoredAt.Add(r.ttl),
		).
		Suffix(`ON CONFLICT (session_id) DO UPDATE SET
			calc_request_id = EXCLUDED.calc_request_id,
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Get получает действующий расчет сессии
func (r *Repository) Get(ctx context.Context, sessionID string) (*domain.StoredDraft, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("payload").
		From(tableName).
		Where(squirrel.Eq{
			"session_id":   sessionID,
			"storage_name": domain.DraftStorageName,
		}).
		Where(squirrel.Expr("expires_at > now()")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("%w: Get - execute select: %v", ErrExecQuery, err)
	}

	return decodeDraft(payload)
}

// Delete удаляет расчет сессии, отсутствие расчета ошибкой не считается
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteExpired удаляет расчеты, срок хранения которых истек к моменту now
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

func decodeDraft(payload []byte) (*domain.StoredDraft, error) {
	var draft domain.StoredDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	return &draft, nil
}
