package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cachemocks "github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/cache/mocks"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/repository/mocks"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
)

const businessID = "biz-1"

// Sexta-feira, segundo trimestre do ano civil
var today = time.Date(2024, time.May, 17, 10, 30, 0, 0, time.Local)

type testDeps struct {
	snapshots   *mocks.MockSnapshotRepository
	preferences *mocks.MockPreferencesRepository
	settings    *mocks.MockBusinessSettingsRepository
	targets     *mocks.MockTargetRepository
	cache       *cachemocks.MockSnapshotCache
	service     *Service
}

func newTestService(t *testing.T) *testDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &testDeps{
		snapshots:   mocks.NewMockSnapshotRepository(ctrl),
		preferences: mocks.NewMockPreferencesRepository(ctrl),
		settings:    mocks.NewMockBusinessSettingsRepository(ctrl),
		targets:     mocks.NewMockTargetRepository(ctrl),
		cache:       cachemocks.NewMockSnapshotCache(ctrl),
	}

	cfg := &config.Config{
		Scorecard: config.Scorecard{
			DefaultFiscalConvention: "calendar",
			DefaultFiscalStartMonth: 7,
			DefaultWeekConvention:   "week_ending",
			RecentWeeksLimit:        80,
		},
	}

	deps.service = NewService(
		deps.snapshots,
		deps.preferences,
		deps.settings,
		deps.targets,
		deps.cache,
		cfg,
		WithClock(func() time.Time { return today }),
	)

	return deps
}

func snapshot(weekKey string, revenue float64) *domain.WeeklyMetricSnapshot {
	s := domain.NewWeeklyMetricSnapshot(businessID, "user-1", weekKey)
	s.ID = "snap-" + weekKey
	s.Revenue = &revenue
	return s
}

func trackingCode(t *testing.T, err error) string {
	t.Helper()
	var trackingErr *TrackingError
	require.True(t, errors.As(err, &trackingErr), "esperava TrackingError, recebeu %v", err)
	return trackingErr.Code
}

func findRow(view *domain.ScorecardView, field string) *domain.MetricRow {
	for i := range view.Metrics {
		if view.Metrics[i].Field == field {
			return &view.Metrics[i]
		}
	}
	return nil
}

func TestGetScorecard(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	stored := []*domain.WeeklyMetricSnapshot{
		snapshot("2024-04-12", 2000),
		snapshot("2024-04-05", 1000),
		snapshot("2024-02-02", 700),
	}
	stored[0].CustomKPIs["nps"] = 40
	current := domain.NewWeeklyMetricSnapshot(businessID, "user-1", "2024-05-17")

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return(nil, false, nil)
	deps.snapshots.EXPECT().ListRecent(gomock.Any(), businessID, 80).Return(stored, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, stored).Return(nil)
	deps.snapshots.EXPECT().Create(gomock.Any(), businessID, "user-1", "2024-05-17").Return(current, nil)
	deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)
	deps.preferences.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.targets.EXPECT().ListByFiscalYear(gomock.Any(), businessID, 2024).Return([]*domain.Target{
		{BusinessID: businessID, FiscalYear: 2024, Metric: domain.MetricRevenue, Quarters: [4]float64{3000, 6000, 0, 0}, Annual: 9000},
	}, nil)

	view, err := deps.service.GetScorecard(ctx, businessID, "user-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-17", view.CurrentWeekKey)
	assert.Equal(t, 2024, view.FiscalYear)
	assert.Len(t, view.Quarters, 5)
	assert.Empty(t, view.Expanded)

	revenue := findRow(view, domain.MetricRevenue)
	require.NotNil(t, revenue)
	assert.Equal(t, 3000.0, revenue.QuarterToDate)
	assert.Equal(t, 6000.0, revenue.QuarterTarget)
	assert.Equal(t, 9000.0, revenue.AnnualTarget)
	assert.Equal(t, 51.65, revenue.PercentComplete)
	assert.Equal(t, "ahead", revenue.Trend)
	assert.True(t, revenue.TrendEvaluated)
	assert.Equal(t, 700.0, revenue.Previews["calendar-2024-Q1"])
	assert.Len(t, revenue.Previews, 4)

	leads := findRow(view, domain.MetricLeads)
	require.NotNil(t, leads)
	assert.Equal(t, "on-track", leads.Trend, "meta zero é sempre on-track")

	nps := findRow(view, "kpi:nps")
	require.NotNil(t, nps)
	assert.Equal(t, 40.0, nps.QuarterToDate, "KPI customizado entra na soma do trimestre")
	assert.Equal(t, 0.0, nps.Previews["calendar-2024-Q1"])

	assert.True(t, view.EditableWeeks["2024-05-17"])
	assert.False(t, view.EditableWeeks["2024-04-05"])
	assert.False(t, view.EditableWeeks["2024-05-24"])
	assert.Len(t, view.EditableWeeks, 13)
}

func TestGetScorecard_CacheHitAndExpansion(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	cached := []*domain.WeeklyMetricSnapshot{
		snapshot("2024-05-17", 500),
		snapshot("2024-02-02", 700),
	}

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
		BusinessID:        businessID,
		FiscalConvention:  "calendar",
		WeekConvention:    "week_ending",
		PastWeeksUnlocked: true,
	}, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return(cached, true, nil)
	deps.preferences.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.Preferences{
		BusinessID:     businessID,
		EnabledMetrics: []string{domain.MetricRevenue},
	}, nil)
	deps.targets.EXPECT().ListByFiscalYear(gomock.Any(), businessID, 2024).Return(nil, nil)

	view, err := deps.service.GetScorecard(ctx, businessID, "user-1", []string{"calendar-2024-Q1", "fiscal-2024-Q1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"calendar-2024-Q1"}, view.Expanded, "IDs de outra convenção são descartados")
	require.Len(t, view.Metrics, 1)

	revenue := view.Metrics[0]
	assert.Equal(t, 500.0, revenue.QuarterToDate)
	assert.Len(t, revenue.Previews, 3)

	assert.True(t, view.EditableWeeks["2024-02-02"], "semanas passadas desbloqueadas")
	assert.False(t, view.EditableWeeks["2024-06-28"])
}

func TestGetScorecard_Errors(t *testing.T) {
	tests := []struct {
		name       string
		businessID string
		setup      func(deps *testDeps)
		wantErr    error
		wantCode   string
	}{
		{
			name:       "negócio obrigatório",
			businessID: "",
			setup:      func(deps *testDeps) {},
			wantErr:    ErrBusinessIDRequired,
			wantCode:   apiErrors.ErrMissingRequiredData,
		},
		{
			name:       "convenção fiscal inválida",
			businessID: businessID,
			setup: func(deps *testDeps) {
				deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
					BusinessID:       businessID,
					FiscalConvention: "lunar",
					WeekConvention:   "week_ending",
				}, nil)
			},
			wantErr:  ErrInvalidConfiguration,
			wantCode: apiErrors.ErrInvalidConfiguration,
		},
		{
			name:       "mês inicial inválido",
			businessID: businessID,
			setup: func(deps *testDeps) {
				deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
					BusinessID:           businessID,
					FiscalConvention:     "fiscal",
					FiscalYearStartMonth: 13,
					WeekConvention:       "week_ending",
				}, nil)
			},
			wantErr:  ErrInvalidConfiguration,
			wantCode: apiErrors.ErrInvalidConfiguration,
		},
		{
			name:       "falha ao listar snapshots",
			businessID: businessID,
			setup: func(deps *testDeps) {
				deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
				deps.cache.EXPECT().Get(gomock.Any(), businessID).Return(nil, false, errors.New("redis down"))
				deps.snapshots.EXPECT().ListRecent(gomock.Any(), businessID, 80).Return(nil, errors.New("db down"))
			},
			wantErr:  ErrFetchSnapshots,
			wantCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestService(t)
			tt.setup(deps)

			view, err := deps.service.GetScorecard(context.Background(), tt.businessID, "user-1", nil)

			assert.Nil(t, view)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, trackingCode(t, err))
		})
	}
}

func TestGetScorecard_CreateFailureStillRenders(t *testing.T) {
	deps := newTestService(t)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return(nil, false, nil)
	deps.snapshots.EXPECT().ListRecent(gomock.Any(), businessID, 80).Return([]*domain.WeeklyMetricSnapshot{}, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Any()).Return(nil)
	deps.snapshots.EXPECT().Create(gomock.Any(), businessID, "user-1", "2024-05-17").Return(nil, errors.New("db down"))
	deps.preferences.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.targets.EXPECT().ListByFiscalYear(gomock.Any(), businessID, 2024).Return(nil, nil)

	view, err := deps.service.GetScorecard(context.Background(), businessID, "user-1", nil)
	require.NoError(t, err)
	assert.True(t, view.EditableWeeks["2024-05-17"])
	assert.Len(t, view.Metrics, len(domain.BuiltInMetrics))
}

func TestGetScorecard_UsesSingleReadingOfClock(t *testing.T) {
	deps := newTestService(t)

	// Primeira leitura na sexta às 23:59:59, as seguintes já no sábado (semana seguinte)
	readings := 0
	WithClock(func() time.Time {
		readings++
		if readings == 1 {
			return time.Date(2024, time.May, 17, 23, 59, 59, 0, time.Local)
		}
		return time.Date(2024, time.May, 18, 0, 0, 1, 0, time.Local)
	})(deps.service)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{snapshot("2024-05-17", 10)}, true, nil)
	deps.preferences.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.targets.EXPECT().ListByFiscalYear(gomock.Any(), businessID, 2024).Return([]*domain.Target{}, nil)

	view, err := deps.service.GetScorecard(context.Background(), businessID, "user-1", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, readings)
	assert.Equal(t, "2024-05-17", view.CurrentWeekKey)
	assert.True(t, view.EditableWeeks["2024-05-17"])
	assert.False(t, view.EditableWeeks["2024-05-24"])
}

func TestUpdateMetric_CurrentWeek(t *testing.T) {
	deps := newTestService(t)
	current := snapshot("2024-05-17", 100)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{current}, true, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, snapshots []*domain.WeeklyMetricSnapshot) error {
			require.Len(t, snapshots, 1)
			assert.Equal(t, 1200.0, *snapshots[0].Revenue, "valor otimista já está na coleção")
			return nil
		})
	deps.snapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.WeeklyMetricSnapshot) error {
			assert.Equal(t, "snap-2024-05-17", s.ID)
			assert.Equal(t, "user-2", s.UserID)
			return nil
		})
	deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

	updated, err := deps.service.UpdateMetric(context.Background(), &UpdateMetricRequest{
		BusinessID: businessID,
		UserID:     "user-2",
		WeekKey:    "2024-05-17",
		Field:      domain.MetricRevenue,
		RawValue:   "$1,200",
	})
	require.NoError(t, err)

	assert.Equal(t, 1200.0, *updated.Revenue)
	assert.Equal(t, 100.0, *current.Revenue, "coleção original não é alterada")
}

func TestUpdateMetric_NegativeValues(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   string
		want  float64
	}{
		{name: "prejuízo líquido é mantido", field: domain.MetricNetProfit, raw: "-500", want: -500},
		{name: "saldo negativo é mantido", field: domain.MetricCashInBank, raw: "-$1,250.40", want: -1250.4},
		{name: "KPI customizado aceita negativo", field: "kpi:nps", raw: "-12", want: -12},
		{name: "receita negativa vira zero", field: domain.MetricRevenue, raw: "-500", want: 0},
		{name: "leads negativos viram zero", field: domain.MetricLeads, raw: "-3", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestService(t)

			deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
			deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{snapshot("2024-05-17", 100)}, true, nil)
			deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Any()).Return(nil)
			deps.snapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, s *domain.WeeklyMetricSnapshot) error {
					value, ok := s.Value(tt.field)
					assert.True(t, ok)
					assert.Equal(t, tt.want, value)
					return nil
				})
			deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

			updated, err := deps.service.UpdateMetric(context.Background(), &UpdateMetricRequest{
				BusinessID: businessID,
				UserID:     "user-1",
				WeekKey:    "2024-05-17",
				Field:      tt.field,
				RawValue:   tt.raw,
			})
			require.NoError(t, err)

			value, ok := updated.Value(tt.field)
			assert.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestUpdateMetric_PastWeekUnlockedCreatesSnapshot(t *testing.T) {
	deps := newTestService(t)
	created := domain.NewWeeklyMetricSnapshot(businessID, "user-1", "2024-03-01")
	created.ID = "new-id"

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
		BusinessID:        businessID,
		FiscalConvention:  "calendar",
		WeekConvention:    "week_ending",
		PastWeeksUnlocked: true,
	}, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{}, true, nil)
	deps.snapshots.EXPECT().Create(gomock.Any(), businessID, "user-1", "2024-03-01").Return(created, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Len(1)).Return(nil)
	deps.snapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

	updated, err := deps.service.UpdateMetric(context.Background(), &UpdateMetricRequest{
		BusinessID: businessID,
		UserID:     "user-1",
		WeekKey:    "2024-03-01",
		Field:      "kpi:nps",
		RawValue:   "42",
	})
	require.NoError(t, err)

	value, ok := updated.Value("kpi:nps")
	assert.True(t, ok)
	assert.Equal(t, 42.0, value)
}

func TestUpdateMetric_Rejected(t *testing.T) {
	lockedSettings := func(deps *testDeps) {
		deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	}

	tests := []struct {
		name     string
		request  *UpdateMetricRequest
		setup    func(deps *testDeps)
		wantErr  error
		wantCode string
	}{
		{
			name:     "métrica desconhecida",
			request:  &UpdateMetricRequest{BusinessID: businessID, WeekKey: "2024-05-17", Field: "ebitda", RawValue: "1"},
			setup:    func(deps *testDeps) {},
			wantErr:  ErrUnknownMetric,
			wantCode: apiErrors.ErrUnknownMetric,
		},
		{
			name:     "semana passada bloqueada",
			request:  &UpdateMetricRequest{BusinessID: businessID, WeekKey: "2024-04-05", Field: domain.MetricRevenue, RawValue: "1"},
			setup:    lockedSettings,
			wantErr:  ErrWeekLocked,
			wantCode: apiErrors.ErrWeekLocked,
		},
		{
			name:     "semana futura bloqueada",
			request:  &UpdateMetricRequest{BusinessID: businessID, WeekKey: "2024-05-24", Field: domain.MetricRevenue, RawValue: "1"},
			setup:    lockedSettings,
			wantErr:  ErrWeekLocked,
			wantCode: apiErrors.ErrWeekLocked,
		},
		{
			name:     "chave fora da convenção",
			request:  &UpdateMetricRequest{BusinessID: businessID, WeekKey: "2024-05-16", Field: domain.MetricRevenue, RawValue: "1"},
			setup:    lockedSettings,
			wantErr:  ErrInvalidWeekKey,
			wantCode: apiErrors.ErrInvalidFormat,
		},
		{
			name:     "chave malformada",
			request:  &UpdateMetricRequest{BusinessID: businessID, WeekKey: "17/05/2024", Field: domain.MetricRevenue, RawValue: "1"},
			setup:    lockedSettings,
			wantErr:  ErrInvalidWeekKey,
			wantCode: apiErrors.ErrInvalidFormat,
		},
		{
			name:     "negócio obrigatório",
			request:  &UpdateMetricRequest{WeekKey: "2024-05-17", Field: domain.MetricRevenue, RawValue: "1"},
			setup:    func(deps *testDeps) {},
			wantErr:  ErrBusinessIDRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestService(t)
			tt.setup(deps)

			updated, err := deps.service.UpdateMetric(context.Background(), tt.request)

			assert.Nil(t, updated)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, trackingCode(t, err))
		})
	}
}

func TestUpdateMetric_PersistFailureKeepsOptimisticValue(t *testing.T) {
	deps := newTestService(t)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{snapshot("2024-05-17", 100)}, true, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Any()).Return(nil)
	deps.snapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	updated, err := deps.service.UpdateMetric(context.Background(), &UpdateMetricRequest{
		BusinessID: businessID,
		WeekKey:    "2024-05-17",
		Field:      domain.MetricLeads,
		RawValue:   "abc",
	})

	assert.ErrorIs(t, err, ErrPersistSnapshot)
	require.NotNil(t, updated)
	assert.Equal(t, 0.0, *updated.Leads, "texto não numérico vira zero")
	assert.Equal(t, 100.0, *updated.Revenue)
}

func TestUpdateNotes(t *testing.T) {
	deps := newTestService(t)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
	deps.cache.EXPECT().Get(gomock.Any(), businessID).Return([]*domain.WeeklyMetricSnapshot{snapshot("2024-05-17", 100)}, true, nil)
	deps.cache.EXPECT().Set(gomock.Any(), businessID, gomock.Any()).Return(nil)
	deps.snapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

	updated, err := deps.service.UpdateNotes(context.Background(), businessID, "user-1", "2024-05-17", "  feriado na quarta  ")
	require.NoError(t, err)
	assert.Equal(t, "feriado na quarta", updated.Notes)
	assert.Equal(t, 100.0, *updated.Revenue)
}

func TestUpdateSettings(t *testing.T) {
	t.Run("configuração válida é salva", func(t *testing.T) {
		deps := newTestService(t)
		settings := &domain.BusinessSettings{
			BusinessID:           businessID,
			FiscalConvention:     "fiscal",
			FiscalYearStartMonth: 7,
			WeekConvention:       "week_beginning",
		}

		deps.settings.EXPECT().Save(gomock.Any(), settings).Return(nil)
		deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

		saved, err := deps.service.UpdateSettings(context.Background(), settings)
		require.NoError(t, err)
		assert.Equal(t, 7, saved.FiscalYearStartMonth)
	})

	t.Run("ano civil sempre começa em janeiro", func(t *testing.T) {
		deps := newTestService(t)
		settings := &domain.BusinessSettings{
			BusinessID:           businessID,
			FiscalConvention:     "calendar",
			FiscalYearStartMonth: 0,
			WeekConvention:       "week_ending",
		}

		deps.settings.EXPECT().Save(gomock.Any(), settings).Return(nil)
		deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

		saved, err := deps.service.UpdateSettings(context.Background(), settings)
		require.NoError(t, err)
		assert.Equal(t, 1, saved.FiscalYearStartMonth)
	})

	t.Run("convenção semanal inválida não é salva", func(t *testing.T) {
		deps := newTestService(t)

		_, err := deps.service.UpdateSettings(context.Background(), &domain.BusinessSettings{
			BusinessID:       businessID,
			FiscalConvention: "calendar",
			WeekConvention:   "sunday",
		})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Equal(t, apiErrors.ErrInvalidConfiguration, trackingCode(t, err))
	})

	t.Run("padrão quando não há registro", func(t *testing.T) {
		deps := newTestService(t)
		deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)

		settings, err := deps.service.GetSettings(context.Background(), businessID)
		require.NoError(t, err)
		assert.Equal(t, "calendar", settings.FiscalConvention)
		assert.Equal(t, "week_ending", settings.WeekConvention)
		assert.False(t, settings.PastWeeksUnlocked)
	})
}

func TestSetTarget(t *testing.T) {
	tests := []struct {
		name       string
		target     *domain.Target
		setup      func(deps *testDeps)
		wantErr    error
		wantAnnual float64
	}{
		{
			name:   "anual zerado vira soma dos trimestres",
			target: &domain.Target{BusinessID: businessID, FiscalYear: 2024, Metric: domain.MetricRevenue, Quarters: [4]float64{100, 200.5, 300, 400}},
			setup: func(deps *testDeps) {
				deps.targets.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAnnual: 1000.5,
		},
		{
			name:   "anual informado é mantido",
			target: &domain.Target{BusinessID: businessID, FiscalYear: 2024, Metric: "kpi:nps", Quarters: [4]float64{1, 1, 1, 1}, Annual: 10},
			setup: func(deps *testDeps) {
				deps.targets.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAnnual: 10,
		},
		{
			name:    "métrica desconhecida",
			target:  &domain.Target{BusinessID: businessID, FiscalYear: 2024, Metric: "ebitda"},
			setup:   func(deps *testDeps) {},
			wantErr: ErrUnknownMetric,
		},
		{
			name:    "meta negativa",
			target:  &domain.Target{BusinessID: businessID, FiscalYear: 2024, Metric: domain.MetricLeads, Quarters: [4]float64{1, -1, 0, 0}},
			setup:   func(deps *testDeps) {},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "ano fiscal obrigatório",
			target:  &domain.Target{BusinessID: businessID, Metric: domain.MetricLeads},
			setup:   func(deps *testDeps) {},
			wantErr: ErrInvalidTarget,
		},
		{
			name:   "falha ao salvar",
			target: &domain.Target{BusinessID: businessID, FiscalYear: 2024, Metric: domain.MetricLeads},
			setup: func(deps *testDeps) {
				deps.targets.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: ErrPersistTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestService(t)
			tt.setup(deps)

			saved, err := deps.service.SetTarget(context.Background(), tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAnnual, saved.Annual)
		})
	}
}

func TestListTargets_DefaultsToCurrentFiscalYear(t *testing.T) {
	deps := newTestService(t)

	deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
		BusinessID:           businessID,
		FiscalConvention:     "fiscal",
		FiscalYearStartMonth: 4,
		WeekConvention:       "week_ending",
	}, nil)
	deps.targets.EXPECT().ListByFiscalYear(gomock.Any(), businessID, 2025).Return([]*domain.Target{}, nil)

	targets, err := deps.service.ListTargets(context.Background(), businessID, 0)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestListWeeks(t *testing.T) {
	t.Run("sem limites usa a janela da grade", func(t *testing.T) {
		deps := newTestService(t)
		deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
		deps.snapshots.EXPECT().ListByRange(gomock.Any(), businessID, "2023-10-01", "2024-12-31").
			Return([]*domain.WeeklyMetricSnapshot{snapshot("2024-05-17", 10)}, nil)

		weeks, err := deps.service.ListWeeks(context.Background(), businessID, "", "")
		require.NoError(t, err)
		require.Len(t, weeks, 1)
		assert.Equal(t, "2024-05-17", weeks[0].WeekKey)
	})

	t.Run("limites explícitos não consultam configuração", func(t *testing.T) {
		deps := newTestService(t)
		deps.snapshots.EXPECT().ListByRange(gomock.Any(), businessID, "2024-01-05", "2024-03-29").
			Return([]*domain.WeeklyMetricSnapshot{}, nil)

		weeks, err := deps.service.ListWeeks(context.Background(), businessID, "2024-01-05", "2024-03-29")
		require.NoError(t, err)
		assert.Empty(t, weeks)
	})

	t.Run("fim anterior ao início", func(t *testing.T) {
		deps := newTestService(t)

		_, err := deps.service.ListWeeks(context.Background(), businessID, "2024-03-29", "2024-01-05")
		assert.ErrorIs(t, err, ErrInvalidWeekKey)
		assert.Equal(t, apiErrors.ErrInvalidFormat, trackingCode(t, err))
	})

	t.Run("chave malformada", func(t *testing.T) {
		deps := newTestService(t)

		_, err := deps.service.ListWeeks(context.Background(), businessID, "05/01/2024", "2024-03-29")
		assert.ErrorIs(t, err, ErrInvalidWeekKey)
	})

	t.Run("falha no banco", func(t *testing.T) {
		deps := newTestService(t)
		deps.snapshots.EXPECT().ListByRange(gomock.Any(), businessID, "2024-01-05", "2024-03-29").
			Return(nil, errors.New("db down"))

		_, err := deps.service.ListWeeks(context.Background(), businessID, "2024-01-05", "2024-03-29")
		assert.ErrorIs(t, err, ErrFetchSnapshots)
		assert.Equal(t, apiErrors.ErrDatabaseOperation, trackingCode(t, err))
	})
}

func TestPreferences(t *testing.T) {
	t.Run("sem registro todas as métricas visíveis", func(t *testing.T) {
		deps := newTestService(t)
		deps.preferences.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)

		preferences, err := deps.service.GetPreferences(context.Background(), businessID)
		require.NoError(t, err)
		assert.Equal(t, domain.BuiltInMetrics, preferences.EnabledMetrics)
		assert.Empty(t, preferences.SuppressedKPIs)
	})

	t.Run("métrica desconhecida é rejeitada", func(t *testing.T) {
		deps := newTestService(t)

		_, err := deps.service.UpdatePreferences(context.Background(), &domain.Preferences{
			BusinessID:     businessID,
			EnabledMetrics: []string{domain.MetricRevenue, "kpi:nps"},
		})
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})

	t.Run("preferências válidas são salvas", func(t *testing.T) {
		deps := newTestService(t)
		preferences := &domain.Preferences{
			BusinessID:     businessID,
			EnabledMetrics: []string{domain.MetricRevenue},
		}
		deps.preferences.EXPECT().Save(gomock.Any(), preferences).Return(nil)

		saved, err := deps.service.UpdatePreferences(context.Background(), preferences)
		require.NoError(t, err)
		assert.NotNil(t, saved.SuppressedKPIs)
	})
}

func TestEnsureCurrentWeek(t *testing.T) {
	t.Run("semana já existe", func(t *testing.T) {
		deps := newTestService(t)
		deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(nil, nil)
		deps.snapshots.EXPECT().Get(gomock.Any(), businessID, "2024-05-17").Return(snapshot("2024-05-17", 1), nil)

		created, err := deps.service.EnsureCurrentWeek(context.Background(), businessID)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("cria semana ausente", func(t *testing.T) {
		deps := newTestService(t)
		deps.settings.EXPECT().GetByBusinessID(gomock.Any(), businessID).Return(&domain.BusinessSettings{
			BusinessID:       businessID,
			FiscalConvention: "calendar",
			WeekConvention:   "week_beginning",
		}, nil)
		deps.snapshots.EXPECT().Get(gomock.Any(), businessID, "2024-05-13").Return(nil, nil)
		deps.snapshots.EXPECT().Create(gomock.Any(), businessID, "", "2024-05-13").Return(domain.NewWeeklyMetricSnapshot(businessID, "", "2024-05-13"), nil)
		deps.cache.EXPECT().Invalidate(gomock.Any(), businessID).Return(nil)

		created, err := deps.service.EnsureCurrentWeek(context.Background(), businessID)
		require.NoError(t, err)
		assert.True(t, created)
	})
}
