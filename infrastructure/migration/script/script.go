package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/infrastructure/database/postgres"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/scorecard"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

const (
	idLength   = 10
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "users",
		ddl: `CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			business_id   TEXT,
			name          TEXT NOT NULL,
			lastname      TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			role_id       INTEGER NOT NULL DEFAULT 3,
			avatar_url    TEXT,
			deleted       BOOLEAN NOT NULL DEFAULT FALSE,
			deleted_at    TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "business_settings",
		ddl: `CREATE TABLE IF NOT EXISTS business_settings (
			business_id             TEXT PRIMARY KEY,
			fiscal_convention       TEXT NOT NULL DEFAULT 'calendar',
			fiscal_year_start_month INTEGER NOT NULL DEFAULT 1 CHECK (fiscal_year_start_month BETWEEN 1 AND 12),
			week_convention         TEXT NOT NULL DEFAULT 'week_ending',
			past_weeks_unlocked     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "weekly_metric_snapshots",
		ddl: `CREATE TABLE IF NOT EXISTS weekly_metric_snapshots (
			id            TEXT PRIMARY KEY,
			business_id   TEXT NOT NULL,
			user_id       TEXT NOT NULL DEFAULT '',
			week_key      TEXT NOT NULL,
			revenue       NUMERIC(18,2),
			gross_profit  NUMERIC(18,2),
			net_profit    NUMERIC(18,2),
			cash_in_bank  NUMERIC(18,2),
			leads         NUMERIC(18,2),
			conversions   NUMERIC(18,2),
			new_customers NUMERIC(18,2),
			average_sale  NUMERIC(18,2),
			custom_kpis   JSONB NOT NULL DEFAULT '{}'::jsonb,
			notes         TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (business_id, week_key)
		)`,
	},
	{
		name: "idx_weekly_metric_snapshots_business_week",
		ddl: `CREATE INDEX IF NOT EXISTS idx_weekly_metric_snapshots_business_week
			ON weekly_metric_snapshots (business_id, week_key DESC)`,
	},
	{
		name: "business_preferences",
		ddl: `CREATE TABLE IF NOT EXISTS business_preferences (
			business_id     TEXT PRIMARY KEY,
			enabled_metrics TEXT[],
			suppressed_kpis TEXT[] NOT NULL DEFAULT '{}',
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "business_targets",
		ddl: `CREATE TABLE IF NOT EXISTS business_targets (
			business_id TEXT NOT NULL,
			fiscal_year INTEGER NOT NULL,
			metric      TEXT NOT NULL,
			q1          NUMERIC(18,2) NOT NULL DEFAULT 0,
			q2          NUMERIC(18,2) NOT NULL DEFAULT 0,
			q3          NUMERIC(18,2) NOT NULL DEFAULT 0,
			q4          NUMERIC(18,2) NOT NULL DEFAULT 0,
			annual      NUMERIC(18,2) NOT NULL DEFAULT 0,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (business_id, fiscal_year, metric)
		)`,
	},
}

func generateID() string {
	id, err := gonanoid.Generate(characters, idLength)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao gerar ID")
	}
	return id
}

func createSchema(ctx context.Context, db *sql.DB) {
	for _, step := range schema {
		start := time.Now()
		if _, err := db.ExecContext(ctx, step.ddl); err != nil {
			logrus.WithError(err).WithField("step", step.name).Fatal("ERRO ao aplicar migração")
		}
		logrus.WithFields(logrus.Fields{
			"step":        step.name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Migração aplicada")
	}
}

// seedDemoBusiness cria um negócio de demonstração com configurações, metas do ano
// fiscal corrente e o snapshot da semana atual
func seedDemoBusiness(tx *sql.Tx, cfg config.Scorecard, now time.Time) (string, error) {
	calendar, err := scorecard.NewFiscalCalendar(
		scorecard.FiscalConvention(cfg.DefaultFiscalConvention),
		time.Month(cfg.DefaultFiscalStartMonth),
	)
	if err != nil {
		return "", errors.Wrap(err, "convenção fiscal padrão")
	}
	weekConv, err := scorecard.ParseWeekConvention(cfg.DefaultWeekConvention)
	if err != nil {
		return "", errors.Wrap(err, "convenção semanal padrão")
	}

	businessID := generateID()
	_, err = tx.Exec(
		`INSERT INTO business_settings (business_id, fiscal_convention, fiscal_year_start_month, week_convention)
		VALUES ($1, $2, $3, $4)`,
		businessID, string(calendar.Convention()), int(calendar.StartMonth()), string(weekConv),
	)
	if err != nil {
		return "", errors.Wrap(err, "inserir configurações do negócio demo")
	}

	fiscalYear := calendar.FiscalYearFor(now)

	stmt, err := tx.Prepare(`INSERT INTO business_targets (business_id, fiscal_year, metric, q1, q2, q3, q4, annual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return "", errors.Wrap(err, "preparar statement de metas")
	}
	defer stmt.Close()

	demoTargets := map[string][4]float64{
		domain.MetricRevenue:      {120000, 130000, 140000, 150000},
		domain.MetricGrossProfit:  {48000, 52000, 56000, 60000},
		domain.MetricLeads:        {300, 320, 340, 360},
		domain.MetricNewCustomers: {60, 64, 68, 72},
	}
	for metric, quarters := range demoTargets {
		annual := quarters[0] + quarters[1] + quarters[2] + quarters[3]
		if _, err := stmt.Exec(businessID, fiscalYear, metric, quarters[0], quarters[1], quarters[2], quarters[3], annual); err != nil {
			return "", errors.Wrapf(err, "inserir meta %s", metric)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO weekly_metric_snapshots (id, business_id, week_key) VALUES ($1, $2, $3)`,
		generateID(), businessID, scorecard.WeekKey(weekConv, now),
	)
	if err != nil {
		return "", errors.Wrap(err, "inserir snapshot da semana atual")
	}

	logrus.WithFields(logrus.Fields{
		"business_id": businessID,
		"fiscal_year": fiscalYear,
		"targets":     len(demoTargets),
	}).Info("Negócio demo criado")

	return businessID, nil
}

// seedUsers cria o administrador e o dono do negócio demo. Sem SEED_PASSWORD nada é criado.
func seedUsers(tx *sql.Tx, businessID string) error {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		logrus.Info("SEED_PASSWORD vazio, usuários demo não serão criados")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "gerar hash da senha")
	}

	users := []struct {
		email      string
		name       string
		roleID     int
		businessID any
	}{
		{email: "admin@scorecard.local", name: "Admin", roleID: domain.RoleAdmin},
		{email: "dono@scorecard.local", name: "Dono", roleID: domain.RoleOwner, businessID: businessID},
	}

	for _, u := range users {
		_, err := tx.Exec(
			`INSERT INTO users (business_id, name, email, password_hash, role_id)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING`,
			u.businessID, u.name, u.email, string(hash), u.roleID,
		)
		if err != nil {
			return errors.Wrapf(err, "inserir usuário %s", u.email)
		}
	}

	logrus.WithField("total", len(users)).Info("Usuários demo criados")
	return nil
}

func main() {
	log.Configure("info")
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao carregar configuração")
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao banco de dados")
	}
	defer conn.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	createSchema(ctx, conn.DB)

	if os.Getenv("SEED_DEMO") != "true" {
		logrus.Info("SEED_DEMO diferente de true, carga demo ignorada")
		return
	}

	startTime := time.Now()
	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		businessID, err := seedDemoBusiness(tx, cfg.Scorecard, time.Now())
		if err != nil {
			return err
		}
		return seedUsers(tx, businessID)
	})
	if err != nil {
		logrus.WithError(err).Fatal("ERRO na carga demo")
	}

	logrus.WithField("duration", time.Since(startTime)).Info("Carga inicial concluída")
}
