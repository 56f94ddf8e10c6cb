package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/internal/config"
	"github.com/clinicore/backend/internal/event"
	"github.com/clinicore/backend/internal/federation"
	httphandler "github.com/clinicore/backend/internal/handler/http"
	"github.com/clinicore/backend/internal/mail"
	"github.com/clinicore/backend/internal/repository/postgres"
	"github.com/clinicore/backend/internal/service"
	"github.com/clinicore/backend/pkg/database"
	"github.com/clinicore/backend/pkg/health"
	"github.com/clinicore/backend/pkg/httpclient"
	pkgkafka "github.com/clinicore/backend/pkg/kafka"
	"github.com/clinicore/backend/pkg/logger"
)

// App wires the clinic backend together and owns its lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	producer *pkgkafka.Producer
	server   *http.Server
}

// New builds the application: database pool, event producer, services,
// handlers, and the HTTP server.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	l := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(l)

	poolCfg := cfg.Postgres.Pool()
	pool, err := database.NewPostgresPool(ctx, &poolCfg, l)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	var events event.Publisher = event.NoopPublisher{}
	var producer *pkgkafka.Producer
	if cfg.Kafka.Enabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.Kafka.Brokers), l)
		events = event.NewKafkaPublisher(producer, l)
	}

	manager := auth.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	doctorRepo := postgres.NewDoctorRepository(pool)

	// The tokeninfo fallback hits an external endpoint; a breaker keeps a
	// Google outage from tying up login requests in retries.
	tokenInfoClient := httpclient.NewBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultBreakerConfig("google-tokeninfo"),
		l,
	)
	verifier := federation.NewGoogleVerifier(cfg.Google.ClientID, tokenInfoClient)

	var mailer mail.Sender
	if cfg.SMTP.Enabled {
		mailer = mail.NewSMTPSender(cfg.SMTP.Addr(), cfg.SMTP.Host, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		mailer = mail.NewLogSender(l)
	}

	authSvc := service.NewAuthService(userRepo, tokenRepo, manager, verifier, mailer, events, l, cfg.FrontendURL)
	userSvc := service.NewUserService(userRepo)
	patientSvc := service.NewPatientService(patientRepo, events)
	doctorSvc := service.NewDoctorService(doctorRepo)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	secureCookies := !cfg.IsDevelopment()

	router := httphandler.NewRouter(httphandler.RouterConfig{
		ServiceName:  cfg.ServiceName,
		Logger:       l,
		TokenManager: manager,
		Health:       healthHandler,
		Auth:         httphandler.NewAuthHandler(authSvc, l, cfg.JWT.RefreshTTL, secureCookies),
		Users:        httphandler.NewUserHandler(userSvc, authSvc, l),
		Patients:     httphandler.NewPatientHandler(patientSvc, l),
		Doctors:      httphandler.NewDoctorHandler(doctorSvc, l),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		logger:   l,
		pool:     pool,
		producer: producer,
		server:   server,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. Shutdown is graceful within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	a.close()
	return nil
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()
}
