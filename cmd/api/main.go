package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/cache"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/repository"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/api"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/api/handler"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/scheduler"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/authenticating"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/tracking"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)

	userRepo := repository.NewUserRepository(pgConn)
	snapshotRepo := repository.NewSnapshotRepository(pgConn)
	preferencesRepo := repository.NewPreferencesRepository(pgConn)
	settingsRepo := repository.NewBusinessSettingsRepository(pgConn)
	targetRepo := repository.NewTargetRepository(pgConn)

	redisClient := redisconn(ctx, cfg.Redis)
	snapshotCache := snapshotCacheFor(redisClient, cfg.Redis)

	authenticator := authenticating.NewService(userRepo, cfg)
	tracker := tracking.NewService(snapshotRepo, preferencesRepo, settingsRepo, targetRepo, snapshotCache, cfg)

	weeklySnapshotSyncService := scheduler.NewWeeklySnapshotSyncService(settingsRepo, tracker, cfg)
	if err := weeklySnapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de abertura semanal de snapshots")
	} else {
		logrus.Info("Agendador de abertura semanal de snapshots iniciado com sucesso")
	}

	opts := []api.Option{
		api.WithHealthCheck("postgres", pgConn.Ping),
		api.WithCronJobs(handler.CronJobServices{
			WeeklySnapshotSyncService: weeklySnapshotSyncService,
		}),
		api.WithCleanup(pgConn.Close),
	}
	if redisClient != nil {
		opts = append(opts,
			api.WithHealthCheck("redis", func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
			api.WithCleanup(redisClient.Close),
		)
	}

	server, err := api.New(cfg, tracker, authenticator, opts...)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisconn devolve nil quando o cache está desligado ou indisponível; a API segue sem cache
func redisconn(ctx context.Context, redisConfig config.Redis) *redis.Client {
	client, err := cache.NewClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Warn("Redis indisponível, scorecard seguirá sem cache")
		return nil
	}
	if client == nil {
		logrus.Info("Cache de snapshots desligado (REDIS_ADDR vazio)")
		return nil
	}

	logrus.WithField("addr", redisConfig.Addr).Info("Conexão com Redis estabelecida com sucesso")
	return client
}

func snapshotCacheFor(client *redis.Client, redisConfig config.Redis) cache.SnapshotCache {
	if client == nil {
		return cache.NoopSnapshotCache{}
	}
	return cache.NewRedisSnapshotCache(client, redisConfig.CacheTTL)
}
