package usecase

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/service/notify"
)

type UseCases struct {
	repo     interfaces.Repository
	cfg      *config.WorkflowConfig
	sources  []interfaces.SignalSource
	notifier *notify.Notifier
	now      func() time.Time
	tracker  *HealthTracker

	Discovery *DiscoveryUseCase
	Workflow  *WorkflowUseCase
	Review    *ReviewUseCase
	Health    *HealthUseCase
	Cycle     *CycleUseCase
}

type Option func(*UseCases)

func WithWorkflowConfig(cfg *config.WorkflowConfig) Option {
	return func(uc *UseCases) {
		uc.cfg = cfg
	}
}

func WithSources(sources ...interfaces.SignalSource) Option {
	return func(uc *UseCases) {
		uc.sources = sources
	}
}

func WithNotifier(notifier *notify.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		cfg:  config.DefaultWorkflowConfig(),
		now:  func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.tracker = NewHealthTracker(uc.cfg.HealthWindow, uc.now)

	uc.Discovery = &DiscoveryUseCase{repo: uc.repo, sources: uc.sources, now: uc.now}
	uc.Workflow = &WorkflowUseCase{repo: uc.repo, cfg: uc.cfg, notifier: uc.notifier, now: uc.now}
	uc.Review = &ReviewUseCase{repo: uc.repo, notifier: uc.notifier, now: uc.now}
	uc.Health = &HealthUseCase{repo: uc.repo, cfg: uc.cfg, tracker: uc.tracker, now: uc.now}
	uc.Cycle = &CycleUseCase{
		repo:      uc.repo,
		tracker:   uc.tracker,
		now:       uc.now,
		discovery: uc.Discovery,
		workflow:  uc.Workflow,
		review:    uc.Review,
	}

	return uc
}

// Tracker exposes the health tracker so workers can record store probes
func (uc *UseCases) Tracker() *HealthTracker {
	return uc.tracker
}

// Risks exposes the risk repository for read-only API access
func (uc *UseCases) Risks() interfaces.RiskRepository {
	return uc.repo.Risk()
}
