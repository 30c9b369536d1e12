package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/repository"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
)

// WeekEnsurer cria o snapshot vazio da semana atual de um negócio
type WeekEnsurer interface {
	EnsureCurrentWeek(ctx context.Context, businessID string) (bool, error)
}

type WeeklySnapshotSyncConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// SyncResult resume a última execução
type SyncResult struct {
	Businesses int `json:"businesses"`
	Created    int `json:"created"`
	Failed     int `json:"failed"`
}

// WeeklySnapshotSyncService abre a semana corrente de todos os negócios configurados,
// para que a grade já encontre a linha criada na primeira leitura
type WeeklySnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              WeeklySnapshotSyncConfig
	settingsRepo        repository.BusinessSettingsRepository
	tracker             WeekEnsurer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          SyncResult
}

func NewWeeklySnapshotSyncService(
	settingsRepo repository.BusinessSettingsRepository,
	tracker WeekEnsurer,
	appConfig *config.Config,
) *WeeklySnapshotSyncService {
	syncConfig := WeeklySnapshotSyncConfig{
		CronSchedule:      appConfig.WeeklySnapshotSync.CronSchedule,
		MaxConcurrentJobs: appConfig.WeeklySnapshotSync.MaxConcurrentJobs,
		SyncEnabled:       appConfig.WeeklySnapshotSync.Enabled,
	}
	if syncConfig.MaxConcurrentJobs <= 0 {
		syncConfig.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("scheduler: configuração da abertura semanal de snapshots carregada")

	return &WeeklySnapshotSyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       syncConfig,
		settingsRepo: settingsRepo,
		tracker:      tracker,
	}
}

func (s *WeeklySnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("scheduler: abertura semanal de snapshots desabilitada por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllBusinesses(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar abertura semanal de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: parando abertura semanal de snapshots")
		s.scheduler.Stop()
	}()

	return nil
}

// tryStart marca a execução como em andamento; false quando outra já está rodando
func (s *WeeklySnapshotSyncService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *WeeklySnapshotSyncService) finish(result SyncResult) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastResult = result
	s.lastSyncCompletedAt = time.Now()
}

func (s *WeeklySnapshotSyncService) syncAllBusinesses(ctx context.Context) {
	if !s.tryStart() {
		logrus.Info("scheduler: abertura semanal já em andamento, ignorando")
		return
	}
	s.run(ctx)
}

func (s *WeeklySnapshotSyncService) run(ctx context.Context) SyncResult {
	result := SyncResult{}
	defer func() { s.finish(result) }()

	startTime := time.Now()

	businessIDs, err := s.settingsRepo.ListBusinessIDs(ctx)
	if err != nil {
		logrus.WithError(err).Error("scheduler: erro ao listar negócios")
		return result
	}

	result.Businesses = len(businessIDs)
	if len(businessIDs) == 0 {
		logrus.Info("scheduler: nenhum negócio configurado")
		return result
	}

	var created, failed int64
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, businessID := range businessIDs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(id string) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			ok, err := s.tracker.EnsureCurrentWeek(ctx, id)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				logrus.WithError(err).WithField("business_id", id).Error("scheduler: erro ao abrir semana atual")
				return
			}
			if ok {
				atomic.AddInt64(&created, 1)
			}
		}(businessID)
	}

	wg.Wait()

	result.Created = int(created)
	result.Failed = int(failed)

	logrus.WithFields(logrus.Fields{
		"duration":   time.Since(startTime).String(),
		"businesses": result.Businesses,
		"created":    result.Created,
		"failed":     result.Failed,
	}).Info("scheduler: abertura semanal de snapshots concluída")

	return result
}

// TriggerManualSync dispara a abertura semanal fora do agendamento
func (s *WeeklySnapshotSyncService) TriggerManualSync() bool {
	if !s.tryStart() {
		logrus.Info("scheduler: abertura semanal já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("scheduler: iniciando abertura semanal manual")
	go s.run(context.Background())
	return true
}

func (s *WeeklySnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_result":            s.lastResult,
	}
}
