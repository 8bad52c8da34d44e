package usecase

import (
	"context"
	"time"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/entry/repository"
	"station-ops-bot/internal/metrics"
	"station-ops-bot/pkg/datemath"
	"station-ops-bot/pkg/gcalendar"
	"station-ops-bot/pkg/llmprovider"
	pkgLog "station-ops-bot/pkg/log"
)

// Completer is the completion backend; *llmprovider.Manager satisfies it.
type Completer interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Scheduler puts task deadlines on a calendar; *gcalendar.Client satisfies it.
type Scheduler interface {
	CreateAllDayEvent(ctx context.Context, req gcalendar.AllDayEventRequest) (*gcalendar.Event, error)
}

// Config tunes the pipeline.
type Config struct {
	DefaultPerson     string
	DefaultAssignee   string
	DefaultReporter   string
	Temperature       float64
	MaxTokens         int
	CompletionTimeout time.Duration
	StorageTimeout    time.Duration
	CalendarID        string
	Now               func() time.Time // defaults to time.Now
}

type implUseCase struct {
	l        pkgLog.Logger
	llm      Completer
	repo     repository.Repository
	dates    *datemath.Parser
	metrics  *metrics.Metrics
	calendar Scheduler
	cfg      Config
}

// New creates a new entry UseCase instance. calendar and m may be nil.
func New(
	l pkgLog.Logger,
	llm Completer,
	repo repository.Repository,
	dates *datemath.Parser,
	m *metrics.Metrics,
	calendar Scheduler,
	cfg Config,
) entry.UseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultPerson == "" {
		cfg.DefaultPerson = "Me"
	}
	if cfg.DefaultAssignee == "" {
		cfg.DefaultAssignee = "Nthambi"
	}
	if cfg.DefaultReporter == "" {
		cfg.DefaultReporter = "Nthambi"
	}
	return &implUseCase{
		l:        l,
		llm:      llm,
		repo:     repo,
		dates:    dates,
		metrics:  m,
		calendar: calendar,
		cfg:      cfg,
	}
}
