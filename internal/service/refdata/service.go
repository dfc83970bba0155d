package refdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/refdata/models"
)

// Service сервис справочников формы расчета
type Service struct {
	repo   RefDataRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса справочников
func NewService(repo RefDataRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get загружает все справочники параллельно
// Ошибка категорий, регионов или сроков - ошибка запроса.
// Классы КБМ необязательны: при ошибке или пустой таблице отдаются классы по умолчанию.
func (s *Service) Get(ctx context.Context) (*models.RefDataResponse, error) {
	var refData domain.RefData

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := s.repo.VehicleCategories(gctx)
		if err != nil {
			return fmt.Errorf("vehicle categories: %w", err)
		}
		refData.VehicleCategories = categories
		return nil
	})

	g.Go(func() error {
		regions, err := s.repo.Regions(gctx)
		if err != nil {
			return fmt.Errorf("regions: %w", err)
		}
		refData.Regions = regions
		return nil
	})

	g.Go(func() error {
		terms, err := s.repo.Terms(gctx)
		if err != nil {
			return fmt.Errorf("terms: %w", err)
		}
		refData.Terms = terms
		return nil
	})

	g.Go(func() error {
		classes, err := s.repo.KbmClasses(gctx)
		if err != nil {
			s.logger.Warn("Get: failed to load KBM classes, using defaults: %v", err)
			classes = nil
		}
		if len(classes) == 0 {
			classes = domain.DefaultKbmClasses
		}
		refData.KbmClasses = classes
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Get: failed to load reference data: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("Get: categories=%d, regions=%d, terms=%d, kbm_classes=%d",
		len(refData.VehicleCategories), len(refData.Regions), len(refData.Terms), len(refData.KbmClasses))

	return models.FromDomainRefData(&refData), nil
}
