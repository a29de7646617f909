package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/data"
	"github.com/stockswidget/stocks_widget_service/data/cache"
	"github.com/stockswidget/stocks_widget_service/data/repository"
	"github.com/stockswidget/stocks_widget_service/data/session"
	"github.com/stockswidget/stocks_widget_service/internal/boardRenderer"
	"github.com/stockswidget/stocks_widget_service/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/stockswidget/stocks_widget_service/internal/externalApi/tradingviewApi"
	"github.com/stockswidget/stocks_widget_service/internal/externalApi/vanguardApi"
	"github.com/stockswidget/stocks_widget_service/internal/instruments"
	"github.com/stockswidget/stocks_widget_service/internal/reportGenerator/xslsxGenerator"
	"github.com/stockswidget/stocks_widget_service/internal/scheduler"
	"github.com/stockswidget/stocks_widget_service/internal/service/widgetService"
	"github.com/stockswidget/stocks_widget_service/internal/tgbot"
	"github.com/stockswidget/stocks_widget_service/internal/transport/rest"
	"github.com/stockswidget/stocks_widget_service/internal/transport/telegram"
	"github.com/stockswidget/stocks_widget_service/internal/widgetHub"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := repository.NewPostgres(pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	boardCache := cache.NewRedisCache(redisClient)
	redisSession := session.NewRedisSession(redisClient, cfg)

	tradingviewApiClient := tradingviewApi.New(cfg)
	vanguardApiClient := vanguardApi.New(cfg)

	renderer := boardRenderer.New()
	hub := widgetHub.New()

	reportGenerator := xslsxGenerator.New()

	var cloudStorage widgetService.CloudStorage
	if cfg.GoogleDrive.Enabled {
		cloudStorage = googleDriveApi.New(ctx, cfg)
	}

	widgetSrv := widgetService.New(
		cfg,
		instruments.Default(),
		pgRepo,
		boardCache,
		tradingviewApiClient,
		vanguardApiClient,
		renderer,
		hub,
		reportGenerator,
		cloudStorage,
	)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh board", widgetSrv.RefreshAll, cfg.Jobs.RefreshInterval, true)
	if cfg.GoogleDrive.Enabled {
		sched.NewCrontabJob("drive cleanup", widgetSrv.CleanupOldReports, cfg.Jobs.DriveCleanupCrontab, false)
	}
	sched.Start()
	defer sched.Stop()

	restCtrl := rest.NewController(widgetSrv, hub)
	widgetSocket := rest.NewWidgetSocket(widgetSrv, hub)
	router := rest.SetupRoutes(restCtrl, widgetSocket)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		slog.Info("http server started", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.String("err", err.Error()))
			panic(err)
		}
	}()

	if cfg.Telegram.Enabled {
		tgController := telegram.NewController(widgetSrv, redisSession)
		tgBot := tgbot.New(cfg, tgController, redisSession)
		tgBot.Start()
		defer tgBot.Stop()
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", slog.String("err", err.Error()))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
