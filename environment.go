package studio

import (
	"context"
	"sync"
	"time"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Environment provides application-level services (the document store,
// configuration, tracing) to the rest of the process. It is constructed
// once at startup and passed explicitly to everything that needs it.
type Environment interface {
	// Returns the settings object. The settings object is not
	// necessarily safe for concurrent access.
	Settings() *Settings

	// Client is nil when the environment is not backed by MongoDB.
	Client() *mongo.Client
	Store() db.Store

	Tracer(name string) trace.Tracer

	// RegisterCloser adds a function object to an internal
	// tracker to be called by the Close method before process
	// termination. The ID is used in reporting, but must be
	// unique or a new closer could overwrite an existing closer
	// in some implementations.
	RegisterCloser(string, func(context.Context) error)
	// Close calls all registered closers in the environment.
	Close(context.Context) error
}

// NewEnvironment constructs an Environment instance, establishing a
// new connection to the database and, when enabled, a trace exporter.
//
// When NewEnvironment returns without an error, you should assume
// that the database is reachable.
func NewEnvironment(ctx context.Context, settings *Settings) (Environment, error) {
	if settings == nil {
		return nil, errors.New("settings must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	e := &envState{
		settings:       settings,
		closers:        map[string]func(context.Context) error{},
		tracerProvider: noop.NewTracerProvider(),
	}

	if err := e.initDB(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := e.initTracer(ctx); err != nil {
		catcher := grip.NewBasicCatcher()
		catcher.Add(err)
		catcher.Add(e.Close(ctx))
		return nil, errors.WithStack(catcher.Resolve())
	}

	return e, nil
}

// NewStoreEnvironment constructs an Environment around an existing store,
// for tools and tests that do not connect to MongoDB.
func NewStoreEnvironment(settings *Settings, store db.Store) (Environment, error) {
	if settings == nil {
		settings = &Settings{}
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	return &envState{
		settings:       settings,
		store:          store,
		closers:        map[string]func(context.Context) error{},
		tracerProvider: noop.NewTracerProvider(),
	}, nil
}

type envState struct {
	settings       *Settings
	client         *mongo.Client
	store          db.Store
	tracerProvider trace.TracerProvider
	mu             sync.RWMutex
	closers        map[string]func(context.Context) error
}

func (e *envState) initDB(ctx context.Context) error {
	conf := e.settings.Database

	opts := options.Client().
		ApplyURI(conf.Url).
		SetConnectTimeout(conf.ConnectTimeout()).
		SetTimeout(conf.QueryTimeout())

	var err error
	e.client, err = mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "connecting to the database")
	}

	store := db.NewMongoStore(e.client, conf.DB)
	if err = store.Ping(ctx, conf.ConnectTimeout()); err != nil {
		catcher := grip.NewBasicCatcher()
		catcher.Add(err)
		catcher.Add(e.client.Disconnect(ctx))
		return catcher.Resolve()
	}
	e.store = store

	e.RegisterCloser("database", func(ctx context.Context) error {
		return errors.Wrap(e.client.Disconnect(ctx), "disconnecting from the database")
	})

	grip.Info(message.Fields{
		"message":  "connected to database",
		"database": conf.DB,
	})

	return nil
}

func (e *envState) initTracer(ctx context.Context) error {
	conf := e.settings.Tracer
	if !conf.Enabled {
		return nil
	}

	clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(conf.CollectorEndpoint)}
	if conf.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(clientOpts...))
	if err != nil {
		return errors.Wrap(err, "initializing otel exporter")
	}

	attrs := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(BuildRevision),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(attrs),
	)
	otel.SetTracerProvider(tp)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		grip.Error(errors.Wrap(err, "otel error"))
	}))
	e.tracerProvider = tp

	e.RegisterCloser("tracer", func(ctx context.Context) error {
		catcher := grip.NewBasicCatcher()
		catcher.Add(tp.Shutdown(ctx))
		catcher.Add(exp.Shutdown(ctx))
		return catcher.Resolve()
	})

	return nil
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client
}

func (e *envState) Store() db.Store {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store
}

func (e *envState) Tracer(name string) trace.Tracer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.tracerProvider.Tracer(name)
}

func (e *envState) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.closers[name]; ok {
		grip.Critical(message.Fields{
			"closer":  name,
			"message": "duplicate closer registered",
			"cause":   "programmer error",
		})
	}
	e.closers[name] = closer
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	deadline, _ := ctx.Deadline()
	catcher := grip.NewBasicCatcher()
	wg := &sync.WaitGroup{}
	for n, closer := range e.closers {
		if closer == nil {
			continue
		}

		wg.Add(1)
		go func(name string, close func(context.Context) error) {
			defer wg.Done()
			grip.Info(message.Fields{
				"message":      "calling closer",
				"closer":       name,
				"timeout_secs": time.Until(deadline).Seconds(),
				"deadline":     deadline,
			})
			catcher.Add(close(ctx))
		}(n, closer)
	}

	wg.Wait()
	return catcher.Resolve()
}
