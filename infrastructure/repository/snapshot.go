package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const snapshotsTable = "weekly_metric_snapshots"

var snapshotColumns = []string{
	"id", "business_id", "user_id", "week_key",
	"revenue", "gross_profit", "net_profit", "cash_in_bank",
	"leads", "conversions", "new_customers", "average_sale",
	"custom_kpis", "notes", "created_at", "updated_at",
}

//go:generate mockgen -source=snapshot.go -destination=mocks/snapshot.go -package=mocks

type SnapshotRepository interface {
	Get(ctx context.Context, businessID, weekKey string) (*domain.WeeklyMetricSnapshot, error)
	Create(ctx context.Context, businessID, userID, weekKey string) (*domain.WeeklyMetricSnapshot, error)
	Upsert(ctx context.Context, snapshot *domain.WeeklyMetricSnapshot) error
	ListRecent(ctx context.Context, businessID string, limit int) ([]*domain.WeeklyMetricSnapshot, error)
	ListByRange(ctx context.Context, businessID, fromWeekKey, toWeekKey string) ([]*domain.WeeklyMetricSnapshot, error)
}

type snapshotRepository struct {
	conn postgres.Queryer
}

func NewSnapshotRepository(conn postgres.Queryer) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.WeeklyMetricSnapshot, error) {
	var (
		s       domain.WeeklyMetricSnapshot
		metrics [8]sql.NullFloat64
		kpis    []byte
		notes   sql.NullString
	)

	err := row.Scan(
		&s.ID, &s.BusinessID, &s.UserID, &s.WeekKey,
		&metrics[0], &metrics[1], &metrics[2], &metrics[3],
		&metrics[4], &metrics[5], &metrics[6], &metrics[7],
		&kpis, &notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for i, field := range domain.BuiltInMetrics {
		if metrics[i].Valid {
			if err := s.SetValue(field, metrics[i].Float64); err != nil {
				return nil, err
			}
		}
	}

	s.CustomKPIs, err = decodeCustomKPIs(kpis)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s: custom_kpis inválido", s.ID)
	}
	s.Notes = notes.String

	return &s, nil
}

func decodeCustomKPIs(raw []byte) (map[string]float64, error) {
	kpis := make(map[string]float64)
	if len(raw) == 0 {
		return kpis, nil
	}
	if err := json.Unmarshal(raw, &kpis); err != nil {
		return nil, err
	}
	if kpis == nil {
		kpis = make(map[string]float64)
	}
	return kpis, nil
}

func encodeCustomKPIs(kpis map[string]float64) ([]byte, error) {
	if kpis == nil {
		kpis = map[string]float64{}
	}
	return json.Marshal(kpis)
}

// nullableMetric converte campo não preenchido em NULL
func nullableMetric(s *domain.WeeklyMetricSnapshot, field string) any {
	value, ok := s.Value(field)
	if !ok {
		return nil
	}
	return value
}

func (r *snapshotRepository) Get(ctx context.Context, businessID, weekKey string) (*domain.WeeklyMetricSnapshot, error) {
	query, args, err := squirrel.
		Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"business_id": businessID, "week_key": weekKey}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	snapshot, err := scanSnapshot(r.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar snapshot")
	}

	return snapshot, nil
}

// Create cria o snapshot vazio da semana. Se outra requisição criou o mesmo
// (business_id, week_key) antes, devolve o registro existente.
func (r *snapshotRepository) Create(ctx context.Context, businessID, userID, weekKey string) (*domain.WeeklyMetricSnapshot, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Insert(snapshotsTable).
		Columns("id", "business_id", "user_id", "week_key", "custom_kpis").
		Values(id, businessID, userID, weekKey, "{}").
		Suffix("ON CONFLICT (business_id, week_key) DO NOTHING RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	snapshot := domain.NewWeeklyMetricSnapshot(businessID, userID, weekKey)
	snapshot.ID = id

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&snapshot.CreatedAt, &snapshot.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.Get(ctx, businessID, weekKey)
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar snapshot")
	}

	return snapshot, nil
}

// Upsert grava o snapshot inteiro; em conflito de (business_id, week_key) a última escrita vence
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *domain.WeeklyMetricSnapshot) error {
	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		snapshot.ID = id
	}

	kpis, err := encodeCustomKPIs(snapshot.CustomKPIs)
	if err != nil {
		return err
	}

	values := []any{snapshot.ID, snapshot.BusinessID, snapshot.UserID, snapshot.WeekKey}
	for _, field := range domain.BuiltInMetrics {
		values = append(values, nullableMetric(snapshot, field))
	}
	values = append(values, string(kpis), snapshot.Notes)

	columns := append([]string{}, snapshotColumns[:14]...)

	query, args, err := squirrel.
		Insert(snapshotsTable).
		Columns(columns...).
		Values(values...).
		Suffix(`ON CONFLICT (business_id, week_key) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			revenue = EXCLUDED.revenue,
			gross_profit = EXCLUDED.gross_profit,
			net_profit = EXCLUDED.net_profit,
			cash_in_bank = EXCLUDED.cash_in_bank,
			leads = EXCLUDED.leads,
			conversions = EXCLUDED.conversions,
			new_customers = EXCLUDED.new_customers,
			average_sale = EXCLUDED.average_sale,
			custom_kpis = EXCLUDED.custom_kpis,
			notes = EXCLUDED.notes,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "erro ao salvar snapshot da semana %s", snapshot.WeekKey)
	}

	return nil
}

func (r *snapshotRepository) ListRecent(ctx context.Context, businessID string, limit int) ([]*domain.WeeklyMetricSnapshot, error) {
	builder := squirrel.
		Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("week_key DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.list(ctx, builder)
}

func (r *snapshotRepository) ListByRange(ctx context.Context, businessID, fromWeekKey, toWeekKey string) ([]*domain.WeeklyMetricSnapshot, error) {
	builder := squirrel.
		Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"week_key": fromWeekKey}).
		Where(squirrel.LtOrEq{"week_key": toWeekKey}).
		OrderBy("week_key ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, builder)
}

func (r *snapshotRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.WeeklyMetricSnapshot, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar snapshots")
	}
	defer rows.Close()

	snapshots := make([]*domain.WeeklyMetricSnapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	logQueryDuration("snapshots", len(snapshots), start)
	return snapshots, nil
}
