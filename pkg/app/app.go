package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/compensation"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/decoder"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/amirasaad/ledgersync/pkg/provider/index"
	"github.com/amirasaad/ledgersync/pkg/provider/ledger"
	"github.com/amirasaad/ledgersync/pkg/provider/notify"
	"github.com/amirasaad/ledgersync/pkg/pump"
	comprepo "github.com/amirasaad/ledgersync/pkg/repository/compensation"
	countryrepo "github.com/amirasaad/ledgersync/pkg/repository/country"
	txlogrepo "github.com/amirasaad/ledgersync/pkg/repository/txlog"
	"github.com/amirasaad/ledgersync/pkg/service/servicerequest"
)

// Deps contains everything the reconciliation core needs from the outside.
type Deps struct {
	TxLog     txlogrepo.Repository
	Journal   comprepo.Repository
	Countries countryrepo.Repository
	Ledger    ledger.Client
	Notifier  notify.Dispatcher
	Index     index.Store
	Rates     exchange.RateCache
	EventBus  eventbus.Bus
	Logger    *slog.Logger
}

type App struct {
	Deps            *Deps
	Config          *config.App
	Recorder        *common.Recorder
	Compensations   *compensation.Dispatcher
	Sweeper         *compensation.Sweeper
	Pump            *pump.Pump
	ServiceRequests *servicerequest.Service
}

// New wires the handlers onto the bus and fails if any decodable event type
// is left without a handler.
func New(deps *Deps, cfg *config.App) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	rc := reconcileConfig(cfg)

	app := &App{Deps: deps, Config: cfg}
	app.Compensations = compensation.NewDispatcher(deps.Journal, deps.Ledger, ledgerTimeout(cfg), deps.Logger)
	app.Recorder = common.NewRecorder(deps.TxLog, app.Compensations, rc.StoreTimeout, deps.Logger)
	app.Sweeper = compensation.NewSweeper(app.Compensations, deps.Journal, rc.SweepInterval, deps.Logger)

	app.setupEventBus()
	if err := CheckRegistered(deps.EventBus, decoder.SupportedTypes()); err != nil {
		return nil, err
	}

	app.Pump = pump.New(decoder.New(), deps.EventBus, rc.Concurrency, deps.Logger)

	indexName, querySize := "", 0
	if cfg != nil && cfg.Index != nil {
		indexName, querySize = cfg.Index.ServiceRequestIndex, cfg.Index.QuerySize
	}
	app.ServiceRequests = servicerequest.New(
		deps.Index,
		deps.Rates,
		deps.Countries,
		indexName,
		querySize,
		deps.Logger,
	)
	return app, nil
}

// MissingHandlersError lists decodable event types with no handler.
type MissingHandlersError struct {
	Types []string
}

func (e *MissingHandlersError) Error() string {
	return fmt.Sprintf("no handler registered for %v", e.Types)
}

// CheckRegistered verifies every type in want has a handler on bus.
func CheckRegistered(bus eventbus.Bus, want []events.EventType) error {
	var missing []string
	for _, t := range want {
		if !bus.Registered(t) {
			missing = append(missing, t.String())
		}
	}
	if len(missing) > 0 {
		return &MissingHandlersError{Types: missing}
	}
	return nil
}

func reconcileConfig(cfg *config.App) config.Reconcile {
	if cfg == nil || cfg.Reconcile == nil {
		return config.Reconcile{}
	}
	return *cfg.Reconcile
}

func ledgerTimeout(cfg *config.App) time.Duration {
	if cfg == nil || cfg.Ledger == nil {
		return 0
	}
	return cfg.Ledger.Timeout
}
