package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeWeeklySnapshots = "weekly-snapshots"
	CronJobTypeAll             = "all"
)

// ManualSyncer é implementado pelos agendadores que aceitam execução manual
type ManualSyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	WeeklySnapshotSyncService ManualSyncer
}

func (s CronJobServices) byType() map[string]ManualSyncer {
	services := map[string]ManualSyncer{}
	if s.WeeklySnapshotSyncService != nil {
		services[CronJobTypeWeeklySnapshots] = s.WeeklySnapshotSyncService
	}
	return services
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		available := services.byType()

		var selected map[string]ManualSyncer
		switch cronType {
		case CronJobTypeAll:
			selected = available
		case CronJobTypeWeeklySnapshots:
			service, ok := available[cronType]
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização semanal não disponível", nil)
				return
			}
			selected = map[string]ManualSyncer{cronType: service}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: weekly-snapshots, all", nil)
			return
		}

		started := make(map[string]bool, len(selected))
		for name, service := range selected {
			started[name] = service.TriggerManualSync()
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"type":    cronType,
			"started": started,
		}).Info("cron: execução manual solicitada")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"started": started,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any)
		for name, service := range services.byType() {
			status[name] = service.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
