package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/common/ratelimit"
	"interactions-relay/internal/config"
	"interactions-relay/internal/handlers"
	"interactions-relay/internal/publisher"
	"interactions-relay/internal/signature"
	"interactions-relay/internal/telemetry"
)

const (
	serviceName         = "interactions-relay"
	brokerHealthTimeout = 5 * time.Second
)

// App holds all the application dependencies
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Broker    brokers.Broker
	Publisher publisher.Publisher
	Handler   http.Handler

	async          *publisher.Async
	shutdownTracer func(context.Context) error
}

// New creates a new application instance with all dependencies. The config
// must already be validated.
func New(cfg *config.Config) (*App, error) {
	logger := logging.GetGlobalLogger().WithFields(logging.String("component", "app"))

	var shutdownTracer func(context.Context) error
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer(serviceName, logger)
		if err != nil {
			logger.Warn("Tracing initialization failed, continuing without tracing", logging.Err(err))
		} else {
			shutdownTracer = shutdown
		}
	}

	broker := ConnectBroker(cfg, NewBrokerRegistry(), logger)

	app, err := NewWithBroker(cfg, broker, logger)
	if err != nil {
		if broker != nil {
			broker.Close()
		}
		if shutdownTracer != nil {
			shutdownTracer(context.Background())
		}
		return nil, err
	}
	app.shutdownTracer = shutdownTracer
	return app, nil
}

// NewWithBroker wires the HTTP surface around an already provisioned
// broker. A nil broker disables publishing.
func NewWithBroker(cfg *config.Config, broker brokers.Broker, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	publicKey, err := signature.ParsePublicKey(cfg.DiscordPublicKey)
	if err != nil {
		return nil, errors.ConfigError("DISCORD_PUBLIC_KEY is not a valid Ed25519 public key").WithContext("cause", err.Error())
	}
	verifier := signature.NewVerifier(publicKey,
		signature.WithMaxAge(cfg.SignatureMaxAge),
		signature.WithMaxFutureSkew(cfg.SignatureMaxFutureSkew),
		signature.WithLogger(logger),
	)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Broker:    broker,
		Publisher: publisher.Noop{},
	}

	if broker != nil {
		app.async = publisher.NewAsync(broker,
			publisher.WithTimeout(cfg.PublishTimeout),
			publisher.WithMaxInFlight(int64(cfg.PublishMaxInFlight)),
			publisher.WithLogger(logger),
			publisher.WithTracer(telemetry.Tracer()),
		)
		app.Publisher = app.async
	}

	h := handlers.New(verifier, app.Publisher, cfg.MaxBodyBytes, logger)

	router := mux.NewRouter()
	SetupRoutes(router, h, logger, InitializeRateLimiter(cfg, logger), ratelimit.KeyFunc(cfg.RateLimitTrustProxy))

	app.Handler = router
	if cfg.TracingEnabled {
		app.Handler = instrument(router)
	}

	return app, nil
}

// Shutdown drains in-flight publishes, then releases the broker and the
// tracer. The HTTP server must already be stopped.
func (app *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if app.async != nil {
		if err := app.async.Close(ctx); err != nil {
			app.Logger.Warn("Publisher did not drain before shutdown deadline",
				logging.Int64("dropped", app.async.Dropped()),
				logging.Err(err),
			)
			firstErr = err
		}
	}

	if app.Broker != nil {
		if err := app.Broker.Close(); err != nil {
			app.Logger.Warn("Error closing message bus", logging.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		} else {
			app.Logger.Info("Message bus closed")
		}
	}

	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(ctx); err != nil {
			app.Logger.Warn("Error flushing traces", logging.Err(err))
		}
	}

	return firstErr
}
