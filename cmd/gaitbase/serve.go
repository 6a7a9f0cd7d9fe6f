package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gaitbase/cmd/config"
	"gaitbase/cmd/gaitbase/wire"
	"gaitbase/internal/infra/async"
	"gaitbase/internal/infra/httpserver"
	"gaitbase/internal/rom/httpapi"
	"gaitbase/internal/rom/usecases"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func runServe(cfg config.AppConfig, args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := flags.String("addr", cfg.HTTP.Addr, "listen address")
	if err := flags.Parse(args); err != nil {
		return err
	}

	slog.Info("🚀 gaitbase is initializing")
	shutdownOTel, err := startOTel(context.Background(), cfg.OTel)
	if err != nil {
		return err
	}

	internalBroker := async.NewLocalBroker()
	notifier := usecases.CompositeNotifier{
		usecases.LogNotifier{},
		usecases.NewBrokerNotifier(internalBroker),
	}

	services := handleWireInjector(wire.InitializeServices(cfg, notifier))
	prometheus.MustRegister(services.Store.Collector())

	eventsController := handleWireInjector(httpapi.NewEventsController(services.Sessions, internalBroker))
	httpServer := httpserver.NewServer(
		httpserver.Options{Addr: *addr, AllowedOrigins: cfg.HTTP.AllowedOrigins},
		httpapi.NewSessionController(services.Sessions, services.Patients, services.Reports),
		eventsController,
	)

	appCtx, cancelFn := context.WithCancel(context.Background())
	go httpServer.Run()
	slog.Info("http server listening", slog.String("addr", *addr))

	var wg sync.WaitGroup
	var workers []async.Worker
	if cfg.Backup.Schedule != "" {
		worker := handleWireInjector(usecases.NewBackupWorker(services.ROMs, services.Sessions, services.Backups, cfg.Backup.Schedule))
		workers = append(workers, worker)
	}
	for _, worker := range workers {
		wg.Add(1)
		go worker.Run(appCtx, wg.Done)
	}

	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	<-signalChannel
	slog.Info("shutting down")

	eventsController.Shutdown()
	httpServer.Shutdown()
	for _, worker := range workers {
		worker.Shutdown()
	}
	cancelFn()
	wg.Wait()
	internalBroker.Stop()

	if err := shutdownOTel(context.Background()); err != nil {
		slog.Warn("stopping OTel providers", slog.Any("error", err))
	}
	slog.Info("good bye!!!")
	return nil
}
