package initializer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/infra"
	infraeventbus "github.com/amirasaad/ledgersync/infra/eventbus"
	"github.com/amirasaad/ledgersync/infra/ingest"
	"github.com/amirasaad/ledgersync/infra/kafkaconn"
	"github.com/amirasaad/ledgersync/infra/ledgerclient"
	infranotify "github.com/amirasaad/ledgersync/infra/notify"
	infrarepo "github.com/amirasaad/ledgersync/infra/repository"
	"github.com/amirasaad/ledgersync/infra/search"
	"github.com/amirasaad/ledgersync/pkg/app"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/provider/notify"
	cursorrepo "github.com/amirasaad/ledgersync/pkg/repository/cursor"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/segmentio/kafka-go"
)

// Runtime holds the wired dependencies plus the handles cmd needs to run
// and shut them down.
type Runtime struct {
	Deps   *app.Deps
	Cursor cursorrepo.Repository
	Kafka  *kafkaconn.Conn
	Logger *slog.Logger

	closers []func() error
}

// Close releases every resource opened by InitializeDependencies, newest
// first.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// NewConsumer builds the block consumer on top of the runtime's Kafka
// connection.
func (r *Runtime) NewConsumer(cfg *config.App, processor ingest.BlockProcessor) *ingest.Consumer {
	reader := r.Kafka.Reader(cfg.Kafka.GroupID, cfg.Kafka.BlocksTopic)
	dlq := r.Kafka.Writer(cfg.Kafka.DLQTopic)
	r.closers = append(r.closers, reader.Close, dlq.Close)

	rc := cfg.Reconcile
	return ingest.NewConsumer(reader, dlq, processor, r.Cursor, ingest.Config{
		StartBlock:   rc.StartBlock,
		RetryBackoff: rc.RetryBackoff,
		MaxBackoff:   rc.MaxBackoff,
		MaxAttempts:  rc.MaxAttempts,
		CallTimeout:  rc.StoreTimeout,
	}, r.Logger)
}

// InitializeDependencies opens every backing store and client named by cfg.
func InitializeDependencies(cfg *config.App) (rt *Runtime, err error) {
	logger := SetupLogger(cfg.Log)
	rt = &Runtime{Logger: logger}
	opened := rt
	defer func() {
		if err != nil {
			_ = opened.Close()
		}
	}()

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		rt.closers = append(rt.closers, sqlDB.Close)
	}
	if err = infra.Migrate(db, cfg.DB.MigrationsPath, logger); err != nil {
		return nil, err
	}

	rt.Kafka, err = kafkaconn.New(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("failed to configure kafka: %w", err)
	}

	rates, err := infra.NewRateCache(logger, cfg.ExchangeRateCache, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exchange rate cache: %w", err)
	}

	retrying := retryablehttp.NewClient()
	retrying.RetryMax = 2
	retrying.Logger = logger
	store, err := search.NewElasticStore(cfg.Index, &retryablehttp.RoundTripper{Client: retrying}, logger)
	if err != nil {
		return nil, err
	}

	notifier, err := newNotifier(cfg, rt, logger)
	if err != nil {
		return nil, err
	}

	rt.Cursor = infrarepo.NewCursorRepository(db)
	rt.Deps = &app.Deps{
		TxLog:     infrarepo.NewTxLogRepository(db),
		Journal:   infrarepo.NewCompensationRepository(db),
		Countries: infrarepo.NewCountryRepository(db),
		Ledger:    ledgerclient.New(cfg.Ledger, logger),
		Notifier:  notifier,
		Index:     store,
		Rates:     rates,
		EventBus:  infraeventbus.NewWithMemory(logger),
		Logger:    logger,
	}
	return rt, nil
}

func newNotifier(cfg *config.App, rt *Runtime, logger *slog.Logger) (notify.Dispatcher, error) {
	if cfg.Notify == nil {
		return infranotify.NewLogDispatcher(logger), nil
	}
	switch cfg.Notify.Driver {
	case "log":
		return infranotify.NewLogDispatcher(logger), nil
	case "kafka", "":
		w := rt.Kafka.Writer(cfg.Kafka.NotificationsTopic)
		w.RequiredAcks = kafka.RequireOne
		rt.closers = append(rt.closers, w.Close)
		return infranotify.NewKafkaDispatcher(w, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}
}
