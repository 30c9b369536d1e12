package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

const targetsTable = "business_targets"

//go:generate mockgen -source=target.go -destination=mocks/target.go -package=mocks

type TargetRepository interface {
	ListByFiscalYear(ctx context.Context, businessID string, fiscalYear int) ([]*domain.Target, error)
	Save(ctx context.Context, target *domain.Target) error
}

type targetRepository struct {
	conn postgres.Queryer
}

func NewTargetRepository(conn postgres.Queryer) TargetRepository {
	return &targetRepository{
		conn: conn,
	}
}

func (r *targetRepository) ListByFiscalYear(ctx context.Context, businessID string, fiscalYear int) ([]*domain.Target, error) {
	query, args, err := squirrel.
		Select("business_id", "fiscal_year", "metric", "q1", "q2", "q3", "q4", "annual", "updated_at").
		From(targetsTable).
		Where(squirrel.Eq{"business_id": businessID, "fiscal_year": fiscalYear}).
		OrderBy("metric ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar metas")
	}
	defer rows.Close()

	targets := make([]*domain.Target, 0)
	for rows.Next() {
		var t domain.Target
		if err := rows.Scan(
			&t.BusinessID,
			&t.FiscalYear,
			&t.Metric,
			&t.Quarters[0],
			&t.Quarters[1],
			&t.Quarters[2],
			&t.Quarters[3],
			&t.Annual,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		targets = append(targets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	logQueryDuration(targetsTable, len(targets), start)
	return targets, nil
}

func (r *targetRepository) Save(ctx context.Context, target *domain.Target) error {
	query, args, err := squirrel.
		Insert(targetsTable).
		Columns("business_id", "fiscal_year", "metric", "q1", "q2", "q3", "q4", "annual").
		Values(target.BusinessID, target.FiscalYear, target.Metric,
			target.Quarters[0], target.Quarters[1], target.Quarters[2], target.Quarters[3], target.Annual).
		Suffix(`ON CONFLICT (business_id, fiscal_year, metric) DO UPDATE SET
			q1 = EXCLUDED.q1,
			q2 = EXCLUDED.q2,
			q3 = EXCLUDED.q3,
			q4 = EXCLUDED.q4,
			annual = EXCLUDED.annual,
			updated_at = NOW()
			RETURNING updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&target.UpdatedAt); err != nil {
		return errors.Wrapf(err, "erro ao salvar meta de %s", target.Metric)
	}

	return nil
}
