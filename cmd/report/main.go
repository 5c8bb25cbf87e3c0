package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sevlyar/go-daemon"

	"residents-admin-table/internal/adapters/exporter"
	"residents-admin-table/internal/core/services"
	"residents-admin-table/internal/log"
	"residents-admin-table/internal/pkg/config"
	"residents-admin-table/internal/ports"
	"residents-admin-table/internal/roster"
	"residents-admin-table/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка конфигурации: единственный аргумент - путь к файлу
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <config.yml>", os.Args[0])
	}

	cfg, err := config.LoadConfig(os.Args[1])
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера. Логи идут в stderr:
	// stdout занят самим отчетом.
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := log.NewMaskedLogger(handler)
	slog.SetDefault(logger)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Отсоединение от терминала в периодическом режиме
	if cfg.Report.Daemonize {
		dctx := &daemon.Context{
			PidFileName: cfg.Report.PidFile,
			PidFilePerm: 0o644,
			LogFileName: cfg.Report.LogFile,
			LogFilePerm: 0o640,
		}
		child, err := dctx.Reborn()
		if err != nil {
			return fmt.Errorf("failed to daemonize: %w", err)
		}
		if child != nil {
			// Родительский процесс завершается сразу.
			return nil
		}
		defer func() { _ = dctx.Release() }()
		slog.Info("Running as a daemon", "pid_file", cfg.Report.PidFile)
	}

	// 5. Инициализация зависимостей
	store, err := roster.NewStore(cfg.Database.Path,
		roster.WithLogger(logger.With(slog.String("component", "roster"))),
	)
	if err != nil {
		return fmt.Errorf("failed to open the resident roster: %w", err)
	}

	client := telegram.NewClient(telegram.Config{
		APIID:       cfg.Telegram.APIID,
		APIHash:     cfg.Telegram.APIHash,
		Token:       cfg.Telegram.Token,
		SessionPath: cfg.Telegram.SessionFile,
	}, telegram.WithLogger(logger.With(slog.String("component", "telegram"))))

	htmlExporter := exporter.NewHTMLExporter(os.Stdout)

	// Ожидание сигналов для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = client.Run(ctx, func(ctx context.Context, api ports.TelegramAPI) error {
		fetcher := telegram.NewFetcher(api,
			telegram.WithFetcherLogger(logger.With(slog.String("component", "fetcher"))),
		)
		svc := services.NewReportService(store, fetcher,
			services.WithFailFast(cfg.Report.FailFast),
			services.WithFetchTimeout(cfg.FetchTimeout()),
			services.WithLogger(logger.With(slog.String("component", "report"))),
		)

		buildOnce := func(ctx context.Context) error {
			report, err := svc.Build(ctx, cfg.Telegram.Chats.ResidentOwned)
			if err != nil {
				return err
			}
			return htmlExporter.Export(report)
		}

		if cfg.Interval() == 0 {
			return buildOnce(ctx)
		}

		// Периодический режим: ошибки одной итерации не прерывают следующие.
		if err := buildOnce(ctx); err != nil {
			slog.Error("Report generation failed", "error", err)
		}
		ticker := time.NewTicker(cfg.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := buildOnce(ctx); err != nil {
					slog.Error("Report generation failed", "error", err)
				}
			}
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
