package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

const businessSettingsTable = "business_settings"

//go:generate mockgen -source=business_settings.go -destination=mocks/business_settings.go -package=mocks

type BusinessSettingsRepository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*domain.BusinessSettings, error)
	Save(ctx context.Context, settings *domain.BusinessSettings) error
	ListBusinessIDs(ctx context.Context) ([]string, error)
}

type businessSettingsRepository struct {
	conn postgres.Queryer
}

func NewBusinessSettingsRepository(conn postgres.Queryer) BusinessSettingsRepository {
	return &businessSettingsRepository{
		conn: conn,
	}
}

// GetByBusinessID devolve nil quando o negócio ainda não salvou configurações
func (r *businessSettingsRepository) GetByBusinessID(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	query, args, err := squirrel.
		Select("business_id", "fiscal_convention", "fiscal_year_start_month", "week_convention",
			"past_weeks_unlocked", "created_at", "updated_at").
		From(businessSettingsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	var settings domain.BusinessSettings
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&settings.BusinessID,
		&settings.FiscalConvention,
		&settings.FiscalYearStartMonth,
		&settings.WeekConvention,
		&settings.PastWeeksUnlocked,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar configurações do negócio")
	}

	return &settings, nil
}

func (r *businessSettingsRepository) Save(ctx context.Context, settings *domain.BusinessSettings) error {
	query, args, err := squirrel.
		Insert(businessSettingsTable).
		Columns("business_id", "fiscal_convention", "fiscal_year_start_month", "week_convention", "past_weeks_unlocked").
		Values(settings.BusinessID, settings.FiscalConvention, settings.FiscalYearStartMonth,
			settings.WeekConvention, settings.PastWeeksUnlocked).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			fiscal_convention = EXCLUDED.fiscal_convention,
			fiscal_year_start_month = EXCLUDED.fiscal_year_start_month,
			week_convention = EXCLUDED.week_convention,
			past_weeks_unlocked = EXCLUDED.past_weeks_unlocked,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&settings.CreatedAt, &settings.UpdatedAt); err != nil {
		return errors.Wrap(err, "erro ao salvar configurações do negócio")
	}

	return nil
}

func (r *businessSettingsRepository) ListBusinessIDs(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.
		Select("business_id").
		From(businessSettingsTable).
		OrderBy("business_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar negócios")
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	logQueryDuration(businessSettingsTable, len(ids), start)
	return ids, nil
}
