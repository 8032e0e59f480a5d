package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/apiclient"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/adapter/tui"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/niksmo/storefront/pkg/query"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/niksmo/storefront/pkg/store"
	"github.com/twmb/franz-go/pkg/sr"
)

type stores struct {
	user   *store.Value[*domain.User]
	search *store.Value[string]
}

type App struct {
	ctx     context.Context
	cfg     config.Config
	logFile *os.File

	tlsCfg         *tls.Config
	eventsSerde    schema.Serde
	eventsProducer *kafka.ClientEventsProducer

	db          storage.SQLDB
	apiClient   apiclient.Client
	stores      stores
	router      *location.Router
	queryClient *query.Client
	service     service.Service
	program     *tea.Program
	done        chan struct{}
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg, done: make(chan struct{})}

	app.initLogger()
	app.initStorage()
	app.initEvents()
	app.initOutboundAdapters()
	app.initState()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

// initLogger writes JSON logs to the log file; the terminal belongs to
// the UI.
func (app *App) initLogger() {
	const op = "App.initLogger"

	f, err := os.OpenFile(
		app.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.logFile = f

	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(f, opts))
	slog.SetDefault(logger)
	slog.Info("config is loaded", "config", app.cfg)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.Storage.Path)
	if err != nil {
		app.fallDown(op, err)
	}
	app.db = db
}

// initEvents connects the client events producer when brokers are
// configured.
func (app *App) initEvents() {
	const op = "App.initEvents"

	if !app.cfg.EventsEnabled() {
		slog.Info("client events are disabled", "op", op)
		return
	}

	if app.cfg.TLSEnabled() {
		tlsFiles := app.cfg.Broker.TLS
		tlsCfg, err := adapter.MakeTLSConfig(tlsFiles.CA, tlsFiles.Cert, tlsFiles.Key)
		if err != nil {
			app.fallDown(op, err)
		}
		app.tlsCfg = tlsCfg
	}

	app.initSerdes()

	topic := app.cfg.Broker.Topics.ClientEvents
	p, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(app.ctx, app.cfg.Broker.SeedBrokers, topic, app.tlsCfg),
		kafka.ProducerEncoderOpt(app.eventsSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.eventsProducer = &p
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsCfg != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsCfg))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	subject := schema.TopicSubject(app.cfg.Broker.Topics.ClientEvents)
	serde, err := schema.NewSerdeClientFindProductEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.eventsSerde = serde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	cl, err := apiclient.New(app.cfg.API.BaseURL, app.cfg.API.Timeout)
	if err != nil {
		app.fallDown(op, err)
	}
	app.apiClient = cl
}

func (app *App) initState() {
	app.stores.user = store.NewValue[*domain.User](nil)
	app.stores.search = store.NewValue("")
	app.router = location.NewRouter(location.MustParse("/"))
	app.queryClient = query.NewClient(
		query.StaleTimeOpt(app.cfg.Catalog.StaleTime),
		query.GCTimeOpt(app.cfg.Catalog.GCTime),
	)
}

func (app *App) initCoreService() {
	var producer port.ClientEventsProducer
	if app.eventsProducer != nil {
		producer = app.eventsProducer
	}

	sessions := storage.NewSessionRepository(
		storage.NewLocalStorage(app.db), schema.NewUserCodecV1(),
	)

	app.service = service.New(
		app.apiClient,
		app.apiClient,
		sessions,
		producer,
		app.stores.user,
		app.cfg.Catalog.PageSize,
	)
}

func (app *App) initInboundAdapters() {
	shell := tui.NewShell(
		app.ctx,
		app.service,
		app.queryClient,
		app.router,
		app.stores.user,
		app.stores.search,
		app.cfg.Catalog.PageSize,
	)
	app.program = tea.NewProgram(shell,
		tea.WithAltScreen(),
		tea.WithContext(app.ctx),
	)
}

// Run starts the UI. stopFn is called when the UI exits.
func (app *App) Run(stopFn context.CancelFunc) {
	const op = "App.Run"
	log := slog.With("op", op)

	go func() {
		defer close(app.done)
		defer stopFn()

		final, err := app.program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Error("ui stopped with error", "err", err)
		}
		if shell, ok := final.(tui.Shell); ok {
			shell.Close()
		}
	}()

	log.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.program.Quit()
	select {
	case <-app.done:
	case <-ctx.Done():
		slog.Warn("ui did not stop in time")
	}

	app.queryClient.Close()
	if app.eventsProducer != nil {
		app.eventsProducer.Close(ctx)
	}
	app.db.Close()

	slog.Info("application is closed")
	_ = app.logFile.Close()
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
