package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TickerLens/internal/api"
	"TickerLens/internal/logger"
	"TickerLens/internal/notifier"
	"TickerLens/internal/portfolio"
	"TickerLens/internal/scheduler"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, Telegram bot and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, nil)
			if err != nil {
				return err
			}
			return serve(a)
		},
	}
}

func serve(a *app) error {
	cfg, log := a.cfg, a.log
	log.Info("TickerLens starting", logger.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pm, err := portfolio.NewManager(cfg.Portfolio.StateFile, log)
	if err != nil {
		return fmt.Errorf("init portfolio: %w", err)
	}
	rec := buildRecorder(cfg, log)
	defer rec.Close()

	deps := scheduler.Deps{
		Analyzer:  a.service,
		Portfolio: pm,
		Refresher: portfolio.NewRefresher(a.service, pm, cfg.Analysis.Concurrency, cfg.DefaultPeriod(), cfg.Analysis.DefaultProfile, log),
		Recorder:  rec,
		Metrics:   a.metrics,
		Log:       log,
	}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		deps.Sender = tn
	}

	sched := scheduler.NewScheduler(ctx, deps)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if cfg.Server.Enabled {
		store := buildCache(cfg, log)
		defer store.Close()

		handler := api.NewHandler(a.service, pm, rec, store, cfg.Cache.TTL, sched, log)
		srv := api.NewServer(handler, log,
			api.WithHost(cfg.Server.Host),
			api.WithPort(cfg.Server.Port),
			api.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
			api.WithCORS(cfg.Server.CORS),
			api.WithMetrics(a.registry),
		)
		srv.Start()
		defer func() {
			if err := srv.Stop(context.Background()); err != nil {
				log.Error("http shutdown failed", logger.Error(err))
			}
		}()
	}

	if cfg.Schedule.RunOnStart {
		log.Info("run_on_start enabled, refreshing portfolio now")
		go sched.RunRefresh(scheduler.TriggerStartup)
	}

	log.Info("TickerLens is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}
