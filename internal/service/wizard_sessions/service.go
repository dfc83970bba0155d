package wizard_sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions/models"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
)

const (
	directionNext = "next"
	directionBack = "back"

	outcomeOK            = "ok"
	outcomeExit          = "exit"
	outcomeHandoff       = "handoff"
	outcomeInvalid       = "invalid"
	outcomePricingFailed = "pricing_failed"
	outcomeBusy          = "busy"
	outcomeError         = "error"
)

// Config параметры реестра сессий
type Config struct {
	TTL         time.Duration // время жизни неактивной сессии
	MaxSessions int           // 0 - без ограничения
}

type session struct {
	wizard   *quote_wizard.Wizard
	lastSeen time.Time
}

// Service реестр живых сессий мастера расчета
// Каждая сессия - отдельный контроллер quote_wizard.Wizard со своим состоянием.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	cfg          Config
	pricing      quote_wizard.PricingClient
	drafts       quote_wizard.DraftStore
	owners       quote_wizard.OwnerResolver
	cleaner      DraftCleaner
	metrics      Metrics
	timeProvider quote_wizard.TimeProvider
	logger       Logger

	janitorMu     sync.Mutex
	stopJanitor   context.CancelFunc
	janitorDoneCh chan struct{}
}

// NewService создает новый реестр сессий
// cleaner может быть nil: тогда просроченные расчеты не удаляются
func NewService(
	cfg Config,
	pricing quote_wizard.PricingClient,
	drafts quote_wizard.DraftStore,
	cleaner DraftCleaner,
	metrics Metrics,
	timeProvider quote_wizard.TimeProvider,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	s := &Service{
		sessions:     make(map[string]*session),
		cfg:          cfg,
		drafts:       drafts,
		cleaner:      cleaner,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
	s.pricing = &instrumentedPricing{next: pricing, metrics: metrics}
	return s
}

// SetOwnerResolver привязывает расчеты новых сессий к пользователю токена
// Вызывается до обработки запросов.
func (s *Service) SetOwnerResolver(owners quote_wizard.OwnerResolver) {
	s.owners = owners
}

// Create открывает новую сессию на первом шаге с формой по умолчанию
func (s *Service) Create(ctx context.Context) (*models.SessionResponse, error) {
	now := s.timeProvider.Now()
	id := uuid.NewString()

	w := quote_wizard.NewWizardWithTime(id, s.pricing, s.drafts, s.timeProvider, s.logger)
	if s.owners != nil {
		w.SetOwnerResolver(s.owners)
	}

	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		s.logger.Warn("Create: session limit %d reached", s.cfg.MaxSessions)
		return nil, ErrTooManySessions
	}
	s.sessions[id] = &session{wizard: w, lastSeen: now}
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(active)
	s.logger.Info("Create: session=%s created, active=%d", id, active)

	return models.FromState(w.State()), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	w, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return models.FromState(w.State()), nil
}

// UpdateForm применяет частичное изменение формы (JSON merge поверх текущей формы)
// Поля, отсутствующие в patch, не меняются.
func (s *Service) UpdateForm(ctx context.Context, sessionID string, patch json.RawMessage) (*models.SessionResponse, error) {
	w, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	err = w.PatchForm(func(form *quote_wizard.Form) error {
		if err := json.Unmarshal(patch, form); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidForm) {
			s.logger.Warn("UpdateForm: session=%s invalid patch: %v", sessionID, err)
			return nil, err
		}
		return nil, s.mapWizardError(err)
	}

	return models.FromState(w.State()), nil
}

// Next переход вперед; на шаге 3 блокируется до ответа сервиса расчета
func (s *Service) Next(ctx context.Context, sessionID, token string) (*models.TransitionResponse, error) {
	w, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	from := w.Step()
	transition, err := w.Next(ctx, token)
	if err != nil {
		s.metrics.RecordWizardTransition(directionNext, from.String(), outcomeOf(err))
		return nil, s.mapWizardError(err)
	}

	outcome := outcomeOK
	if transition.Handoff != nil {
		outcome = outcomeHandoff
	}
	s.metrics.RecordWizardTransition(directionNext, from.String(), outcome)

	return models.FromTransition(transition, w.State()), nil
}

// Back переход назад; с первого шага сессия закрывается
func (s *Service) Back(ctx context.Context, sessionID, token string) (*models.TransitionResponse, error) {
	w, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	from := w.Step()
	transition, err := w.Back(token)
	if err != nil {
		s.metrics.RecordWizardTransition(directionBack, from.String(), outcomeOf(err))
		return nil, s.mapWizardError(err)
	}

	state := w.State()
	if transition.Exited {
		s.metrics.RecordWizardTransition(directionBack, from.String(), outcomeExit)
		// Выход из мастера - уход со страницы: расчет удаляется вместе с сессией
		if err := w.Leave(ctx); err != nil {
			s.logger.Error("Back: session=%s failed to discard draft on exit: %v", sessionID, err)
		}
		s.remove(sessionID)
	} else {
		s.metrics.RecordWizardTransition(directionBack, from.String(), outcomeOK)
	}

	return models.FromTransition(transition, state), nil
}

// Leave явный уход из мастера: расчет удаляется, сессия закрывается
func (s *Service) Leave(ctx context.Context, sessionID string) error {
	w, err := s.touch(sessionID)
	if err != nil {
		return err
	}

	if err := w.Leave(ctx); err != nil {
		return s.mapWizardError(err)
	}

	s.remove(sessionID)
	return nil
}

// Active количество живых сессий
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor запускает периодическую очистку неактивных сессий
// Повторный вызов без Stop ничего не делает.
func (s *Service) StartJanitor(interval time.Duration) {
	s.janitorMu.Lock()
	defer s.janitorMu.Unlock()

	if s.stopJanitor != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.janitorDoneCh = make(chan struct{})

	go s.runJanitor(ctx, interval, s.janitorDoneCh)
	s.logger.Info("Janitor started: interval=%s, ttl=%s", interval, s.cfg.TTL)
}

// Stop останавливает очистку и дожидается завершения горутины
func (s *Service) Stop() {
	s.janitorMu.Lock()
	defer s.janitorMu.Unlock()

	if s.stopJanitor == nil {
		return
	}

	s.stopJanitor()
	<-s.janitorDoneCh
	s.stopJanitor = nil
	s.janitorDoneCh = nil
	s.logger.Info("Janitor stopped")
}

func (s *Service) runJanitor(ctx context.Context, interval time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictExpired(ctx)
		}
	}
}

// EvictExpired закрывает сессии без активности дольше TTL и удаляет просроченные расчеты
// Сессия с идущим расчетом не закрывается.
func (s *Service) EvictExpired(ctx context.Context) int {
	now := s.timeProvider.Now()

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) < s.cfg.TTL {
			continue
		}
		if sess.wizard.State().Calculating {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(active)
	if evicted > 0 {
		s.logger.Info("EvictExpired: evicted %d sessions, active=%d", evicted, active)
	}

	if s.cleaner != nil {
		if _, err := s.cleaner.Cleanup(ctx, now); err != nil {
			s.logger.Warn("EvictExpired: draft cleanup failed: %v", err)
		}
	}

	return evicted
}

// touch находит сессию и продлевает ее жизнь
func (s *Service) touch(sessionID string) (*quote_wizard.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.timeProvider.Now()
	return sess.wizard, nil
}

func (s *Service) remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(active)
	s.logger.Info("Session %s closed, active=%d", sessionID, active)
}

// mapWizardError ошибки валидации и расчета отдаются как есть: в них сообщение для пользователя
func (s *Service) mapWizardError(err error) error {
	switch {
	case errors.Is(err, quote_wizard.ErrCalculationInProgress):
		return ErrCalculationInProgress
	case errors.Is(err, quote_wizard.ErrValidation), errors.Is(err, quote_wizard.ErrPricingFailed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, quote_wizard.ErrValidation):
		return outcomeInvalid
	case errors.Is(err, quote_wizard.ErrPricingFailed):
		return outcomePricingFailed
	case errors.Is(err, quote_wizard.ErrCalculationInProgress):
		return outcomeBusy
	default:
		return outcomeError
	}
}

// instrumentedPricing замеряет длительность запросов расчета
type instrumentedPricing struct {
	next    quote_wizard.PricingClient
	metrics Metrics
}

func (p *instrumentedPricing) Calculate(ctx context.Context, token string, req *pricingservice.CalcRequest) (*pricingservice.CalcResponse, error) {
	start := time.Now()
	resp, err := p.next.Calculate(ctx, token, req)

	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	p.metrics.ObservePricingCall(outcome, time.Since(start).Seconds())

	return resp, err
}

type nopMetrics struct{}

func (nopMetrics) RecordWizardTransition(direction, step, outcome string) {}
func (nopMetrics) SetActiveSessions(n int)                               {}
func (nopMetrics) ObservePricingCall(outcome string, seconds float64)    {}
