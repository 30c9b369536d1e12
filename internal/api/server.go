package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/api/handler"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/api/handler/router"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/authenticating"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/tracking"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	cleanups   []func() error
}

type options struct {
	healthChecks map[string]handler.HealthCheck
	cronServices handler.CronJobServices
	cleanups     []func() error
}

type Option func(*options)

// WithHealthCheck registra uma dependência verificada em /healthcheck
func WithHealthCheck(name string, check handler.HealthCheck) Option {
	return func(o *options) {
		o.healthChecks[name] = check
	}
}

// WithCronJobs expõe os agendadores para execução manual
func WithCronJobs(services handler.CronJobServices) Option {
	return func(o *options) {
		o.cronServices = services
	}
}

// WithCleanup registra uma operação executada no desligamento
func WithCleanup(cleanup func() error) Option {
	return func(o *options) {
		o.cleanups = append(o.cleanups, cleanup)
	}
}

func New(
	config *config.Config,
	tracker tracking.Tracker,
	authenticator authenticating.Authenticator,
	opts ...Option,
) (*Server, error) {
	o := &options{healthChecks: map[string]handler.HealthCheck{}}
	for _, opt := range opts {
		opt(o)
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, tracker, authenticator, o.healthChecks, o.cronServices),
			ReadHeaderTimeout: 2 * time.Second,
		},
		cleanups: o.cleanups,
	}

	return srv, nil
}

// NewHandler monta o router com a cadeia global de middlewares
func NewHandler(
	config *config.Config,
	tracker tracking.Tracker,
	authenticator authenticating.Authenticator,
	healthChecks map[string]handler.HealthCheck,
	cronServices handler.CronJobServices,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(healthChecks)...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Scorecard(tracker)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins...),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}
	logrus.Info("Servidor HTTP desligado com sucesso")

	// Conexões são fechadas só depois que as requisições em andamento terminam
	for _, cleanup := range s.cleanups {
		if err := cleanup(); err != nil {
			logrus.WithError(err).Warn("Erro ao liberar recurso no desligamento")
		}
	}

	return nil
}
