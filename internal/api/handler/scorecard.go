package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/tracking"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/middleware"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/utils"
)

// UpdateMetricRequest aceita o valor como texto ("1,200") ou número
type UpdateMetricRequest struct {
	Value any `json:"value"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

func userIDFromRequest(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return strconv.Itoa(claims.UserID)
}

// expandedFromQuery aceita ?expanded=a,b e ?expanded=a&expanded=b
func expandedFromQuery(r *http.Request) []string {
	var expanded []string
	for _, value := range r.URL.Query()["expanded"] {
		expanded = append(expanded, utils.SplitCSV(value)...)
	}
	return expanded
}

func rawMetricValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// GetScorecard monta a grade semanal do negócio
func GetScorecard(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		view, err := service.GetScorecard(r.Context(), businessID, userIDFromRequest(r), expandedFromQuery(r))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao montar o scorecard", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, view)
	}
}

// UpdateMetric grava o valor de uma métrica em uma semana
func UpdateMetric(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())

		var req UpdateMetricRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		raw, ok := rawMetricValue(req.Value)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "O valor deve ser texto ou número", nil)
			return
		}

		snapshot, err := service.UpdateMetric(r.Context(), &tracking.UpdateMetricRequest{
			BusinessID: params.ByName("business_id"),
			UserID:     userIDFromRequest(r),
			WeekKey:    params.ByName("week_key"),
			Field:      params.ByName("field"),
			RawValue:   raw,
		})
		if err != nil {
			// Em falha de gravação o snapshot otimista volta nos detalhes
			writeServiceError(w, r, err, "Erro ao gravar métrica", snapshot)
			return
		}

		writeJSON(w, r, http.StatusOK, snapshot)
	}
}

// UpdateNotes grava as anotações de uma semana
func UpdateNotes(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())

		var req UpdateNotesRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		snapshot, err := service.UpdateNotes(
			r.Context(),
			params.ByName("business_id"),
			userIDFromRequest(r),
			params.ByName("week_key"),
			req.Notes,
		)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gravar anotações", snapshot)
			return
		}

		writeJSON(w, r, http.StatusOK, snapshot)
	}
}

func GetSettings(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		settings, err := service.GetSettings(r.Context(), businessID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar configurações", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, settings)
	}
}

func UpdateSettings(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings domain.BusinessSettings
		if err := decodeBody(r, &settings); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		settings.BusinessID = httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		saved, err := service.UpdateSettings(r.Context(), &settings)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gravar configurações", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, saved)
	}
}

func GetPreferences(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		preferences, err := service.GetPreferences(r.Context(), businessID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar preferências", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, preferences)
	}
}

func UpdatePreferences(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var preferences domain.Preferences
		if err := decodeBody(r, &preferences); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		preferences.BusinessID = httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		saved, err := service.UpdatePreferences(r.Context(), &preferences)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gravar preferências", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, saved)
	}
}

// ListTargets lista as metas do ano fiscal (?fiscal_year=); sem parâmetro usa o ano corrente
func ListTargets(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		fiscalYear := 0
		if value := r.URL.Query().Get("fiscal_year"); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Ano fiscal inválido", map[string]any{"fiscal_year": value})
				return
			}
			fiscalYear = parsed
		}

		targets, err := service.ListTargets(r.Context(), businessID, fiscalYear)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar metas", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, targets)
	}
}

func SetTarget(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var target domain.Target
		if err := decodeBody(r, &target); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		target.BusinessID = httprouter.ParamsFromContext(r.Context()).ByName("business_id")

		saved, err := service.SetTarget(r.Context(), &target)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gravar meta", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, saved)
	}
}

// ListWeeks devolve o histórico de snapshots entre ?from= e ?to= (chaves de semana)
func ListWeeks(service tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")
		query := r.URL.Query()

		snapshots, err := service.ListWeeks(r.Context(), businessID, query.Get("from"), query.Get("to"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar semanas", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, snapshots)
	}
}
