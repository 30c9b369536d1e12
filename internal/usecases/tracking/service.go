package tracking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/cache"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/repository"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/scorecard"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/utils"
)

type Tracker interface {
	GetScorecard(ctx context.Context, businessID, userID string, expanded []string) (*domain.ScorecardView, error)
	UpdateMetric(ctx context.Context, request *UpdateMetricRequest) (*domain.WeeklyMetricSnapshot, error)
	UpdateNotes(ctx context.Context, businessID, userID, weekKey, notes string) (*domain.WeeklyMetricSnapshot, error)
	GetSettings(ctx context.Context, businessID string) (*domain.BusinessSettings, error)
	UpdateSettings(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error)
	ListTargets(ctx context.Context, businessID string, fiscalYear int) ([]*domain.Target, error)
	SetTarget(ctx context.Context, target *domain.Target) (*domain.Target, error)
	GetPreferences(ctx context.Context, businessID string) (*domain.Preferences, error)
	UpdatePreferences(ctx context.Context, preferences *domain.Preferences) (*domain.Preferences, error)
	EnsureCurrentWeek(ctx context.Context, businessID string) (bool, error)
	ListWeeks(ctx context.Context, businessID, fromWeekKey, toWeekKey string) ([]*domain.WeeklyMetricSnapshot, error)
}

// UpdateMetricRequest carrega o valor como digitado na grade; a conversão numérica é feita aqui
type UpdateMetricRequest struct {
	BusinessID string
	UserID     string
	WeekKey    string
	Field      string
	RawValue   string
}

type Service struct {
	snapshotRepository    repository.SnapshotRepository
	preferencesRepository repository.PreferencesRepository
	settingsRepository    repository.BusinessSettingsRepository
	targetRepository      repository.TargetRepository
	cache                 cache.SnapshotCache
	cfg                   config.Scorecard
	now                   func() time.Time
}

type Option func(*Service)

// WithClock troca o relógio usado para "hoje"
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(
	snapshotRepository repository.SnapshotRepository,
	preferencesRepository repository.PreferencesRepository,
	settingsRepository repository.BusinessSettingsRepository,
	targetRepository repository.TargetRepository,
	snapshotCache cache.SnapshotCache,
	cfg *config.Config,
	opts ...Option,
) *Service {
	if snapshotCache == nil {
		snapshotCache = cache.NoopSnapshotCache{}
	}

	s := &Service{
		snapshotRepository:    snapshotRepository,
		preferencesRepository: preferencesRepository,
		settingsRepository:    settingsRepository,
		targetRepository:      targetRepository,
		cache:                 snapshotCache,
		cfg:                   cfg.Scorecard,
		now:                   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) defaultSettings(businessID string) *domain.BusinessSettings {
	return &domain.BusinessSettings{
		BusinessID:           businessID,
		FiscalConvention:     s.cfg.DefaultFiscalConvention,
		FiscalYearStartMonth: s.cfg.DefaultFiscalStartMonth,
		WeekConvention:       s.cfg.DefaultWeekConvention,
	}
}

func (s *Service) settingsFor(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	settings, err := s.settingsRepository.GetByBusinessID(ctx, businessID)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao buscar configuração")
		return nil, NewTrackingError(ErrFetchSettings, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar configuração do negócio")
	}
	if settings == nil {
		return s.defaultSettings(businessID), nil
	}
	return settings, nil
}

// conventions valida a configuração antes de qualquer cálculo de datas
func conventions(settings *domain.BusinessSettings) (scorecard.FiscalCalendar, scorecard.WeekConvention, error) {
	calendar, err := scorecard.NewFiscalCalendar(
		scorecard.FiscalConvention(settings.FiscalConvention),
		time.Month(settings.FiscalYearStartMonth),
	)
	if err != nil {
		return scorecard.FiscalCalendar{}, "", NewTrackingError(ErrInvalidConfiguration, apiErrors.ErrInvalidConfiguration, settings.BusinessID, err.Error())
	}

	weekConvention, err := scorecard.ParseWeekConvention(settings.WeekConvention)
	if err != nil {
		return scorecard.FiscalCalendar{}, "", NewTrackingError(ErrInvalidConfiguration, apiErrors.ErrInvalidConfiguration, settings.BusinessID, err.Error())
	}

	return calendar, weekConvention, nil
}

// loadSnapshots devolve a coleção em memória do negócio, do cache quando possível
func (s *Service) loadSnapshots(ctx context.Context, businessID string) ([]*domain.WeeklyMetricSnapshot, error) {
	snapshots, hit, err := s.cache.Get(ctx, businessID)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Warn("tracking: cache indisponível, lendo do banco")
	}
	if hit {
		return snapshots, nil
	}

	snapshots, err = s.snapshotRepository.ListRecent(ctx, businessID, s.cfg.RecentWeeksLimit)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao listar snapshots")
		return nil, NewTrackingError(ErrFetchSnapshots, apiErrors.ErrDatabaseOperation, businessID, "Falha ao listar snapshots semanais")
	}

	if err := s.cache.Set(ctx, businessID, snapshots); err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Warn("tracking: erro ao gravar cache")
	}

	return snapshots, nil
}

func (s *Service) invalidate(ctx context.Context, businessID string) {
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Warn("tracking: erro ao invalidar cache")
	}
}

func (s *Service) GetScorecard(ctx context.Context, businessID, userID string, expanded []string) (*domain.ScorecardView, error) {
	if businessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	settings, err := s.settingsFor(ctx, businessID)
	if err != nil {
		return nil, err
	}

	calendar, weekConvention, err := conventions(settings)
	if err != nil {
		return nil, err
	}

	today := s.now()
	quarters := calendar.CurrentQuarters(today)
	expansion := domain.NewExpansionState(expanded...).Retain(quarters)

	snapshots, err := s.loadSnapshots(ctx, businessID)
	if err != nil {
		return nil, err
	}

	index := scorecard.NewSnapshotIndex(snapshots)
	policy := scorecard.NewEditabilityPolicy(weekConvention, func() time.Time { return today })
	currentKey := policy.CurrentWeekKey()

	live, ok := index.Get(currentKey)
	if !ok {
		live = s.createLiveSnapshot(ctx, businessID, userID, currentKey)
	}

	columns := scorecard.BuildColumns(scorecard.ColumnInput{
		Quarters:   quarters,
		Expansion:  expansion,
		Index:      index,
		Convention: weekConvention,
		Today:      today,
		Live:       live,
	})

	preferences, err := s.preferencesRepository.GetByBusinessID(ctx, businessID)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao buscar preferências")
		return nil, NewTrackingError(ErrFetchPreferences, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar preferências")
	}

	current, _ := scorecard.CurrentQuarter(quarters)
	targets, err := s.targetRepository.ListByFiscalYear(ctx, businessID, calendar.FiscalYearFor(today))
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao buscar metas")
		return nil, NewTrackingError(ErrFetchTargets, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar metas")
	}

	targetByMetric := make(map[string]*domain.Target, len(targets))
	for _, target := range targets {
		targetByMetric[target.Metric] = target
	}

	progress := scorecard.QuarterProgress(current, today)
	withLive := append(make([]*domain.WeeklyMetricSnapshot, 0, len(snapshots)+1), snapshots...)
	fields := visibleFields(preferences, append(withLive, live), targets)

	metrics := make([]domain.MetricRow, 0, len(fields))
	for _, field := range fields {
		target := targetByMetric[field]
		qtd := scorecard.QuarterToDate(columns, field)
		quarterTarget := target.QuarterTarget(current.Number)
		trend, evaluated := scorecard.ClassifyProgress(qtd, quarterTarget, progress)

		row := domain.MetricRow{
			Field:           field,
			QuarterToDate:   qtd,
			QuarterTarget:   quarterTarget,
			PercentComplete: utils.RoundWithTwoDecimalPlace(progress),
			Trend:           string(trend),
			TrendEvaluated:  evaluated,
			Previews:        make(map[string]float64),
		}
		if target != nil {
			row.AnnualTarget = target.Annual
		}

		for _, column := range columns {
			if column.Kind == domain.ColumnQuarterCollapsed && column.Quarter != nil {
				row.Previews[column.Quarter.ID] = scorecard.CollapsedPreview(column, field)
			}
		}

		metrics = append(metrics, row)
	}

	editable := make(map[string]bool)
	for _, column := range columns {
		if column.Kind == domain.ColumnWeek {
			editable[column.WeekKey] = policy.IsEditable(column.IsCurrentWeek, column.WeekKey, settings.PastWeeksUnlocked)
		}
	}

	expandedIDs := expansion.IDs()
	sort.Strings(expandedIDs)

	return &domain.ScorecardView{
		BusinessID:        businessID,
		FiscalYear:        calendar.FiscalYearFor(today),
		CurrentWeekKey:    currentKey,
		WeekConvention:    string(weekConvention),
		PastWeeksUnlocked: settings.PastWeeksUnlocked,
		Quarters:          quarters,
		Expanded:          expandedIDs,
		Columns:           columns,
		EditableWeeks:     editable,
		Metrics:           metrics,
	}, nil
}

// createLiveSnapshot cria a linha da semana atual na primeira leitura.
// Se o banco falhar a grade ainda é montada com um snapshot vazio não salvo.
func (s *Service) createLiveSnapshot(ctx context.Context, businessID, userID, weekKey string) *domain.WeeklyMetricSnapshot {
	created, err := s.snapshotRepository.Create(ctx, businessID, userID, weekKey)
	if err != nil || created == nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"business_id": businessID,
			"week_key":    weekKey,
		}).Warn("tracking: não foi possível criar o snapshot da semana atual")
		return domain.NewWeeklyMetricSnapshot(businessID, userID, weekKey)
	}

	s.invalidate(ctx, businessID)
	return created
}

// visibleFields lista as métricas nativas visíveis seguidas dos KPIs customizados
// conhecidos (presentes em algum snapshot ou com meta), em ordem alfabética.
func visibleFields(preferences *domain.Preferences, snapshots []*domain.WeeklyMetricSnapshot, targets []*domain.Target) []string {
	fields := make([]string, 0, len(domain.BuiltInMetrics))
	for _, metric := range domain.BuiltInMetrics {
		if preferences.MetricVisible(metric) {
			fields = append(fields, metric)
		}
	}

	kpis := make(map[string]struct{})
	for _, snapshot := range snapshots {
		if snapshot == nil {
			continue
		}
		for id := range snapshot.CustomKPIs {
			kpis[id] = struct{}{}
		}
	}
	for _, target := range targets {
		if strings.HasPrefix(target.Metric, domain.CustomKPIPrefix) && domain.IsKnownField(target.Metric) {
			kpis[strings.TrimPrefix(target.Metric, domain.CustomKPIPrefix)] = struct{}{}
		}
	}

	ids := make([]string, 0, len(kpis))
	for id := range kpis {
		if preferences.KPIVisible(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		fields = append(fields, domain.CustomKPIPrefix+id)
	}

	return fields
}

// editableSnapshot valida a chave e a trava de edição e devolve uma cópia do snapshot
// da semana, criando a linha quando ela ainda não existe.
func (s *Service) editableSnapshot(ctx context.Context, businessID, userID, weekKey string) (*domain.WeeklyMetricSnapshot, []*domain.WeeklyMetricSnapshot, error) {
	if businessID == "" {
		return nil, nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	settings, err := s.settingsFor(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}

	_, weekConvention, err := conventions(settings)
	if err != nil {
		return nil, nil, err
	}

	date, err := scorecard.ParseWeekKey(weekKey)
	if err != nil || date.Weekday() != weekConvention.TargetWeekday() {
		return nil, nil, NewTrackingError(ErrInvalidWeekKey, apiErrors.ErrInvalidFormat, businessID,
			fmt.Sprintf("%q não é uma semana válida para a convenção %s", weekKey, weekConvention))
	}

	today := s.now()
	policy := scorecard.NewEditabilityPolicy(weekConvention, func() time.Time { return today })
	isCurrent := weekKey == policy.CurrentWeekKey()
	if !policy.IsEditable(isCurrent, weekKey, settings.PastWeeksUnlocked) {
		return nil, nil, NewTrackingError(ErrWeekLocked, apiErrors.ErrWeekLocked, businessID,
			fmt.Sprintf("semana %s bloqueada para edição", weekKey))
	}

	snapshots, err := s.loadSnapshots(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}

	snapshot, ok := scorecard.NewSnapshotIndex(snapshots).Get(weekKey)
	if !ok {
		snapshot, err = s.snapshotRepository.Create(ctx, businessID, userID, weekKey)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"business_id": businessID,
				"week_key":    weekKey,
			}).Error("tracking: erro ao criar snapshot")
			return nil, nil, NewTrackingError(ErrPersistSnapshot, apiErrors.ErrDatabaseOperation, businessID, "Falha ao criar snapshot da semana")
		}
		if snapshot == nil {
			snapshot = domain.NewWeeklyMetricSnapshot(businessID, userID, weekKey)
		}
	}

	updated := snapshot.Clone()
	if userID != "" {
		updated.UserID = userID
	}

	return updated, snapshots, nil
}

// persist aplica a alteração otimista na coleção em cache e depois grava no banco.
// Uma falha de gravação é devolvida sem desfazer o valor otimista.
func (s *Service) persist(ctx context.Context, updated *domain.WeeklyMetricSnapshot, snapshots []*domain.WeeklyMetricSnapshot) (*domain.WeeklyMetricSnapshot, error) {
	optimistic := make([]*domain.WeeklyMetricSnapshot, 0, len(snapshots)+1)
	replaced := false
	for _, snapshot := range snapshots {
		if snapshot.WeekKey == updated.WeekKey {
			optimistic = append(optimistic, updated)
			replaced = true
			continue
		}
		optimistic = append(optimistic, snapshot)
	}
	if !replaced {
		optimistic = append(optimistic, updated)
	}

	if err := s.cache.Set(ctx, updated.BusinessID, optimistic); err != nil {
		logrus.WithError(err).WithField("business_id", updated.BusinessID).Warn("tracking: erro ao gravar cache otimista")
	}

	if err := s.snapshotRepository.Upsert(ctx, updated); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"business_id": updated.BusinessID,
			"week_key":    updated.WeekKey,
		}).Error("tracking: erro ao salvar snapshot")
		return updated, NewTrackingError(ErrPersistSnapshot, apiErrors.ErrDatabaseOperation, updated.BusinessID, "Falha ao salvar snapshot; o valor exibido ainda não foi gravado")
	}

	s.invalidate(ctx, updated.BusinessID)
	return updated, nil
}

func (s *Service) UpdateMetric(ctx context.Context, request *UpdateMetricRequest) (*domain.WeeklyMetricSnapshot, error) {
	if !domain.IsKnownField(request.Field) {
		return nil, NewTrackingError(ErrUnknownMetric, apiErrors.ErrUnknownMetric, request.BusinessID, request.Field)
	}

	updated, snapshots, err := s.editableSnapshot(ctx, request.BusinessID, request.UserID, request.WeekKey)
	if err != nil {
		return nil, err
	}

	if err := updated.SetValue(request.Field, utils.ParseMetricValue(request.RawValue, domain.AllowsNegative(request.Field))); err != nil {
		return nil, NewTrackingError(ErrUnknownMetric, apiErrors.ErrUnknownMetric, request.BusinessID, request.Field)
	}

	return s.persist(ctx, updated, snapshots)
}

func (s *Service) UpdateNotes(ctx context.Context, businessID, userID, weekKey, notes string) (*domain.WeeklyMetricSnapshot, error) {
	updated, snapshots, err := s.editableSnapshot(ctx, businessID, userID, weekKey)
	if err != nil {
		return nil, err
	}

	updated.Notes = strings.TrimSpace(notes)
	return s.persist(ctx, updated, snapshots)
}

func (s *Service) GetSettings(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	if businessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}
	return s.settingsFor(ctx, businessID)
}

func (s *Service) UpdateSettings(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	if settings.BusinessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	if settings.FiscalConvention == string(scorecard.FiscalCalendarYear) {
		settings.FiscalYearStartMonth = int(time.January)
	}

	if _, _, err := conventions(settings); err != nil {
		return nil, err
	}

	if err := s.settingsRepository.Save(ctx, settings); err != nil {
		logrus.WithError(err).WithField("business_id", settings.BusinessID).Error("tracking: erro ao salvar configuração")
		return nil, NewTrackingError(ErrPersistSettings, apiErrors.ErrDatabaseOperation, settings.BusinessID, "Falha ao salvar configuração")
	}

	s.invalidate(ctx, settings.BusinessID)

	logrus.WithFields(logrus.Fields{
		"business_id":       settings.BusinessID,
		"fiscal_convention": settings.FiscalConvention,
		"week_convention":   settings.WeekConvention,
	}).Info("tracking: configuração atualizada")

	return settings, nil
}

func (s *Service) ListTargets(ctx context.Context, businessID string, fiscalYear int) ([]*domain.Target, error) {
	if businessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	if fiscalYear <= 0 {
		settings, err := s.settingsFor(ctx, businessID)
		if err != nil {
			return nil, err
		}
		calendar, _, err := conventions(settings)
		if err != nil {
			return nil, err
		}
		fiscalYear = calendar.FiscalYearFor(s.now())
	}

	targets, err := s.targetRepository.ListByFiscalYear(ctx, businessID, fiscalYear)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao listar metas")
		return nil, NewTrackingError(ErrFetchTargets, apiErrors.ErrDatabaseOperation, businessID, "Falha ao listar metas")
	}

	return targets, nil
}

// ListWeeks lista os snapshots gravados entre duas chaves (inclusivo). Sem limites,
// usa a janela dos cinco trimestres exibidos na grade.
func (s *Service) ListWeeks(ctx context.Context, businessID, fromWeekKey, toWeekKey string) ([]*domain.WeeklyMetricSnapshot, error) {
	if businessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	if fromWeekKey == "" || toWeekKey == "" {
		settings, err := s.settingsFor(ctx, businessID)
		if err != nil {
			return nil, err
		}
		calendar, _, err := conventions(settings)
		if err != nil {
			return nil, err
		}
		quarters := calendar.CurrentQuarters(s.now())
		if fromWeekKey == "" {
			fromWeekKey = quarters[0].StartDate.Format(time.DateOnly)
		}
		if toWeekKey == "" {
			toWeekKey = quarters[len(quarters)-1].EndDate.Format(time.DateOnly)
		}
	}

	from, err := scorecard.ParseWeekKey(fromWeekKey)
	if err != nil {
		return nil, NewTrackingError(ErrInvalidWeekKey, apiErrors.ErrInvalidFormat, businessID, fmt.Sprintf("início inválido: %q", fromWeekKey))
	}
	to, err := scorecard.ParseWeekKey(toWeekKey)
	if err != nil {
		return nil, NewTrackingError(ErrInvalidWeekKey, apiErrors.ErrInvalidFormat, businessID, fmt.Sprintf("fim inválido: %q", toWeekKey))
	}
	if to.Before(from) {
		return nil, NewTrackingError(ErrInvalidWeekKey, apiErrors.ErrInvalidFormat, businessID, "fim anterior ao início")
	}

	snapshots, err := s.snapshotRepository.ListByRange(ctx, businessID, fromWeekKey, toWeekKey)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao listar semanas")
		return nil, NewTrackingError(ErrFetchSnapshots, apiErrors.ErrDatabaseOperation, businessID, "Falha ao listar semanas")
	}

	return snapshots, nil
}

// SetTarget grava as metas de uma métrica. Meta anual zerada vira a soma dos trimestres.
func (s *Service) SetTarget(ctx context.Context, target *domain.Target) (*domain.Target, error) {
	if target.BusinessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}
	if !domain.IsKnownField(target.Metric) {
		return nil, NewTrackingError(ErrUnknownMetric, apiErrors.ErrUnknownMetric, target.BusinessID, target.Metric)
	}
	if target.FiscalYear <= 0 {
		return nil, NewTrackingError(ErrInvalidTarget, apiErrors.ErrInvalidRequest, target.BusinessID, "ano fiscal obrigatório")
	}

	sum := 0.0
	for n, value := range target.Quarters {
		if value < 0 {
			return nil, NewTrackingError(ErrInvalidTarget, apiErrors.ErrInvalidRequest, target.BusinessID,
				fmt.Sprintf("meta do Q%d não pode ser negativa", n+1))
		}
		sum += value
	}
	if target.Annual < 0 {
		return nil, NewTrackingError(ErrInvalidTarget, apiErrors.ErrInvalidRequest, target.BusinessID, "meta anual não pode ser negativa")
	}
	if target.Annual == 0 {
		target.Annual = utils.RoundWithTwoDecimalPlace(sum)
	}

	if err := s.targetRepository.Save(ctx, target); err != nil {
		logrus.WithError(err).WithField("business_id", target.BusinessID).Error("tracking: erro ao salvar meta")
		return nil, NewTrackingError(ErrPersistTarget, apiErrors.ErrDatabaseOperation, target.BusinessID, "Falha ao salvar meta")
	}

	return target, nil
}

// GetPreferences devolve as preferências salvas; sem registro todas as métricas ficam visíveis
func (s *Service) GetPreferences(ctx context.Context, businessID string) (*domain.Preferences, error) {
	if businessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	preferences, err := s.preferencesRepository.GetByBusinessID(ctx, businessID)
	if err != nil {
		logrus.WithError(err).WithField("business_id", businessID).Error("tracking: erro ao buscar preferências")
		return nil, NewTrackingError(ErrFetchPreferences, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar preferências")
	}

	if preferences == nil {
		return &domain.Preferences{
			BusinessID:     businessID,
			EnabledMetrics: append([]string{}, domain.BuiltInMetrics...),
			SuppressedKPIs: []string{},
		}, nil
	}

	return preferences, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, preferences *domain.Preferences) (*domain.Preferences, error) {
	if preferences.BusinessID == "" {
		return nil, NewTrackingError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	for _, metric := range preferences.EnabledMetrics {
		if !domain.IsBuiltInMetric(metric) {
			return nil, NewTrackingError(ErrUnknownMetric, apiErrors.ErrUnknownMetric, preferences.BusinessID, metric)
		}
	}
	if preferences.SuppressedKPIs == nil {
		preferences.SuppressedKPIs = []string{}
	}

	if err := s.preferencesRepository.Save(ctx, preferences); err != nil {
		logrus.WithError(err).WithField("business_id", preferences.BusinessID).Error("tracking: erro ao salvar preferências")
		return nil, NewTrackingError(ErrSavePreferences, apiErrors.ErrDatabaseOperation, preferences.BusinessID, "Falha ao salvar preferências")
	}

	return preferences, nil
}

// EnsureCurrentWeek cria o snapshot vazio da semana atual quando ele ainda não existe.
// Retorna true quando uma linha nova foi criada.
func (s *Service) EnsureCurrentWeek(ctx context.Context, businessID string) (bool, error) {
	settings, err := s.settingsFor(ctx, businessID)
	if err != nil {
		return false, err
	}

	_, weekConvention, err := conventions(settings)
	if err != nil {
		return false, err
	}

	weekKey := scorecard.WeekKey(weekConvention, s.now())

	existing, err := s.snapshotRepository.Get(ctx, businessID, weekKey)
	if err != nil {
		return false, NewTrackingError(ErrFetchSnapshots, apiErrors.ErrDatabaseOperation, businessID, err.Error())
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.snapshotRepository.Create(ctx, businessID, "", weekKey); err != nil {
		return false, NewTrackingError(ErrPersistSnapshot, apiErrors.ErrDatabaseOperation, businessID, err.Error())
	}

	s.invalidate(ctx, businessID)
	return true, nil
}
