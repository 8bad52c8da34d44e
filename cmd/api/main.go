package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"station-ops-bot/config"
	_ "station-ops-bot/docs" // Swagger docs
	tgDelivery "station-ops-bot/internal/entry/delivery/telegram"
	"station-ops-bot/internal/entry/usecase"
	"station-ops-bot/internal/httpserver"
	"station-ops-bot/internal/metrics"
	"station-ops-bot/pkg/datemath"
	"station-ops-bot/pkg/gcalendar"
	"station-ops-bot/pkg/llmprovider"
	"station-ops-bot/pkg/log"
	"station-ops-bot/pkg/telegram"
)

// @title       Station Ops Bot API
// @description Turns free-text station messages into expense, fuel, task and issue records.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Station Ops Bot...")
	logger.Infof(ctx, "Environment: %s, storage: %s, telegram mode: %s", cfg.Environment.Name, cfg.Storage.Driver, cfg.Telegram.Mode)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 4. Completion providers
	providers, warnings, err := llmprovider.InitializeProviders(&cfg.LLM)
	for _, w := range warnings {
		logger.Warnf(ctx, "LLM provider skipped: %s", w)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize LLM providers: %w", err)
	}
	managerCfg, err := llmprovider.NewManagerConfig(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("invalid llm config: %w", err)
	}
	llm := llmprovider.NewManager(providers, managerCfg, logger)
	llm.SetObserver(m)
	logger.Infof(ctx, "LLM providers: %s", llm.Name())

	// 5. Storage
	store, err := newStorage(ctx, logger, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if cerr := store.close(); cerr != nil {
			logger.Warnf(ctx, "storage close: %v", cerr)
		}
	}()

	// 6. Dates
	dates, err := datemath.NewParser(cfg.Pipeline.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	// 7. Google Calendar (optional)
	var scheduler usecase.Scheduler
	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate the token file")
		} else {
			scheduler = calendarClient
			logger.Info(ctx, "✅ Google Calendar initialized")
		}
	}

	// 8. Entry UseCase
	entryUC := usecase.New(logger, llm, store.repo, dates, m, scheduler, usecase.Config{
		DefaultPerson:     cfg.Pipeline.DefaultPerson,
		DefaultAssignee:   cfg.Pipeline.DefaultAssignee,
		DefaultReporter:   cfg.Pipeline.DefaultReporter,
		Temperature:       cfg.Pipeline.Temperature,
		MaxTokens:         cfg.Pipeline.MaxTokens,
		CompletionTimeout: cfg.Pipeline.CompletionTimeout,
		StorageTimeout:    cfg.Pipeline.StorageTimeout,
		CalendarID:        cfg.GoogleCalendar.CalendarID,
	})

	// 9. Telegram
	var webhookHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		tgHandler := tgDelivery.New(logger, entryUC, bot, m, tgDelivery.Config{
			SecretToken:   cfg.Telegram.SecretToken,
			QueueSize:     cfg.Pipeline.QueueSize,
			PerChatPerMin: cfg.RateLimit.PerChatPerMin,
			PollTimeout:   cfg.Telegram.PollTimeout,
		})
		go tgHandler.Run(ctx)

		switch cfg.Telegram.Mode {
		case config.TelegramModePolling:
			go func() {
				if pollErr := tgHandler.Poll(ctx); pollErr != nil {
					logger.Errorf(ctx, "Telegram polling stopped: %v", pollErr)
				}
			}()
		default:
			webhookHandler = tgHandler
			registerWebhook(ctx, logger, bot, cfg.Telegram)
		}
	} else {
		logger.Warn(ctx, "Telegram skipped: TELEGRAM_BOT_TOKEN is missing, only the HTTP API is served")
	}

	// 10. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		EntryUseCase:    entryUC,
		TelegramHandler: webhookHandler,
		PerIPPerMin:     cfg.RateLimit.PerIPPerMin,
		Gatherer:        registry,
		ReadyCheck:      store.ping,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// 11. Run
	if err := httpServer.Run(ctx); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
	return nil
}

// registerWebhook points Telegram at this service, auto-detecting ngrok when no URL is configured.
func registerWebhook(ctx context.Context, logger log.Logger, bot *telegram.Bot, cfg config.TelegramConfig) {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" {
		ngrokURL, err := detectNgrokURL(ctx, ngrokAPIBase, ngrokAttempts, ngrokAttemptDelay)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			return
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := bot.SetWebhook(ctx, webhookURL, cfg.SecretToken); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
}
