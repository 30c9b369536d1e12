package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

const preferencesTable = "business_preferences"

//go:generate mockgen -source=preferences.go -destination=mocks/preferences.go -package=mocks

type PreferencesRepository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*domain.Preferences, error)
	Save(ctx context.Context, preferences *domain.Preferences) error
}

type preferencesRepository struct {
	conn postgres.Queryer
}

func NewPreferencesRepository(conn postgres.Queryer) PreferencesRepository {
	return &preferencesRepository{
		conn: conn,
	}
}

// GetByBusinessID devolve nil quando não há registro; enabled_metrics NULL
// significa todas as métricas nativas visíveis
func (r *preferencesRepository) GetByBusinessID(ctx context.Context, businessID string) (*domain.Preferences, error) {
	query, args, err := squirrel.
		Select("business_id", "enabled_metrics", "suppressed_kpis", "updated_at").
		From(preferencesTable).
		Where(squirrel.Eq{"business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	var (
		prefs      domain.Preferences
		enabled    pq.StringArray
		suppressed pq.StringArray
	)
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&prefs.BusinessID, &enabled, &suppressed, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar preferências")
	}

	if enabled != nil {
		prefs.EnabledMetrics = []string(enabled)
	}
	prefs.SuppressedKPIs = []string(suppressed)

	return &prefs, nil
}

func (r *preferencesRepository) Save(ctx context.Context, preferences *domain.Preferences) error {
	var enabled any
	if preferences.EnabledMetrics != nil {
		enabled = pq.Array(preferences.EnabledMetrics)
	}

	suppressed := preferences.SuppressedKPIs
	if suppressed == nil {
		suppressed = []string{}
	}

	query, args, err := squirrel.
		Insert(preferencesTable).
		Columns("business_id", "enabled_metrics", "suppressed_kpis").
		Values(preferences.BusinessID, enabled, pq.Array(suppressed)).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			enabled_metrics = EXCLUDED.enabled_metrics,
			suppressed_kpis = EXCLUDED.suppressed_kpis,
			updated_at = NOW()
			RETURNING updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&preferences.UpdatedAt); err != nil {
		return errors.Wrap(err, "erro ao salvar preferências")
	}

	return nil
}
