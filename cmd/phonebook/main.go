package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/phonebook/internal/phonebook/config"
	"github.com/gartstein/phonebook/internal/phonebook/controller"
	gorm "github.com/gartstein/phonebook/internal/phonebook/db"
	"github.com/gartstein/phonebook/internal/phonebook/events"
	"github.com/gartstein/phonebook/internal/phonebook/handlers"
	"github.com/gartstein/phonebook/internal/phonebook/metrics"
	"go.uber.org/zap"
)

const dbConnectRetries = 5

// eventProducer is what main needs from either producer implementation.
type eventProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		// The logger depends on the config, so report with a bootstrap one.
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger := initLogger(cfg.LogDevelopment)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	m := metrics.New()
	companySvc := controller.NewCompanyService(repo, producer, m, logger)
	personSvc := controller.NewPersonService(repo, producer, m, logger)

	router := handlers.NewRouter(
		handlers.NewCompanyHandler(companySvc, logger),
		handlers.NewPersonHandler(personSvc, logger),
		m,
		repo,
		logger,
	)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, router, logger)
	server.SetServing(true)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger builds a production logger, or a development one when asked.
func initLogger(development bool) *zap.Logger {
	build := zap.NewProduction
	if development {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func configPath() string {
	if path := os.Getenv("PHONEBOOK_CONFIG"); path != "" {
		return path
	}
	return filepath.Join("internal", "phonebook", "config", "config.yaml")
}

// connectDatabase opens the store, retrying while the database comes up.
func connectDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.Repository, error) {
	dbConf := &gorm.Config{
		Driver:     cfg.DBDriver,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		DBName:     cfg.DBName,
		SSLMode:    cfg.DBSSLMode,
		SQLitePath: cfg.SQLitePath,
	}

	var repo *gorm.Repository
	connect := func() error {
		var err error
		repo, err = gorm.NewRepository(dbConf)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), dbConnectRetries)
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, err
	}
	return repo, nil
}

// initProducer publishes to Kafka when brokers are configured and discards
// events otherwise.
func initProducer(cfg *config.Config, logger *zap.Logger) (eventProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no Kafka brokers configured, change events are discarded")
		return events.NopProducer{}, nil
	}
	return events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure,
// then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
