package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	draftRepo "github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/draft"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/drafts/models"
)

// Service доступ страницы оформления к сохраненному расчету
type Service struct {
	repo   DraftRepository
	owners OwnerResolver
	logger Logger
}

// NewService создает новый экземпляр сервиса расчетов
// owners может быть nil: тогда владелец расчета не проверяется
func NewService(repo DraftRepository, owners OwnerResolver, logger Logger) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		logger: logger,
	}
}

// Get возвращает сохраненный расчет сессии мастера
// Расчет с владельцем отдается только по токену этого пользователя,
// расчет без подтвержденной стоимости не отдается.
func (s *Service) Get(ctx context.Context, sessionID, token string) (*models.DraftResponse, error) {
	draft, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, draftRepo.ErrDraftNotFound):
			s.logger.Warn("Get: draft for session=%s not found", sessionID)
			return nil, ErrDraftNotFound
		case errors.Is(err, draftRepo.ErrMalformedDraft):
			s.logger.Error("Get: draft for session=%s is malformed: %v", sessionID, err)
			return nil, ErrMalformedDraft
		default:
			s.logger.Error("Get: failed to get draft for session=%s: %v", sessionID, err)
			return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
		}
	}

	if err := s.checkOwner(ctx, sessionID, draft, token); err != nil {
		return nil, err
	}

	if !draft.ReadyForCheckout() {
		s.logger.Warn("Get: draft for session=%s is not ready for checkout", sessionID)
		return nil, ErrDraftNotReady
	}

	return models.FromDomainDraft(draft), nil
}

// checkOwner чужой расчет выглядит как отсутствующий
func (s *Service) checkOwner(ctx context.Context, sessionID string, draft *domain.StoredDraft, token string) error {
	if s.owners == nil || draft.OwnerID == nil {
		return nil
	}
	if token == "" {
		s.logger.Warn("Get: draft for session=%s requested without token", sessionID)
		return ErrDraftNotFound
	}

	userID, err := s.owners.ResolveUserIDWithGracefulDegradation(ctx, token)
	if err != nil {
		s.logger.Warn("Get: token rejected for draft session=%s: %v", sessionID, err)
		return ErrDraftNotFound
	}
	if userID == nil {
		return fmt.Errorf("%w: draft owner cannot be verified", ErrInternal)
	}
	if *userID != *draft.OwnerID {
		s.logger.Warn("Get: draft for session=%s belongs to another user, requested by user_id=%d", sessionID, *userID)
		return ErrDraftNotFound
	}
	return nil
}

// Discard удаляет расчет после отправки заявки на оформление
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Discard: failed to delete draft for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: failed to delete draft: %v", ErrInternal, err)
	}

	s.logger.Info("Discard: draft for session=%s deleted", sessionID)
	return nil
}

// Cleanup удаляет расчеты с истекшим сроком хранения
func (s *Service) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("Cleanup: failed to delete expired drafts: %v", err)
		return 0, fmt.Errorf("%w: failed to delete expired drafts: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("Cleanup: deleted %d expired drafts", deleted)
	}
	return deleted, nil
}
