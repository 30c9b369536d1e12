package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	Scorecard          Scorecard          `mapstructure:",squash"`
	WeeklySnapshotSync WeeklySnapshotSync `mapstructure:",squash"`
	SecretKey          string             `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Redis configura o cache de snapshots. Addr vazio desliga o cache.
type Redis struct {
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	CacheTTL time.Duration `mapstructure:"snapshot_cache_ttl"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Scorecard guarda as convenções usadas quando o negócio ainda não tem configuração salva
type Scorecard struct {
	DefaultFiscalConvention string `mapstructure:"scorecard_default_fiscal_convention"`
	DefaultFiscalStartMonth int    `mapstructure:"scorecard_default_fiscal_start_month"`
	DefaultWeekConvention   string `mapstructure:"scorecard_default_week_convention"`
	RecentWeeksLimit        int    `mapstructure:"scorecard_recent_weeks_limit"`
}

type WeeklySnapshotSync struct {
	CronSchedule      string `mapstructure:"weekly_snapshot_sync_cron"`
	MaxConcurrentJobs int    `mapstructure:"weekly_snapshot_sync_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"weekly_snapshot_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/scorecard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SNAPSHOT_CACHE_TTL", "10m")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("SCORECARD_DEFAULT_FISCAL_CONVENTION", "calendar")
	viper.SetDefault("SCORECARD_DEFAULT_FISCAL_START_MONTH", 7)
	viper.SetDefault("SCORECARD_DEFAULT_WEEK_CONVENTION", "week_ending")
	viper.SetDefault("SCORECARD_RECENT_WEEKS_LIMIT", 80) // Cobre os 5 trimestres exibidos

	viper.SetDefault("WEEKLY_SNAPSHOT_SYNC_CRON", "0 1 * * 1")      // Toda segunda à 1h da manhã
	viper.SetDefault("WEEKLY_SNAPSHOT_SYNC_MAX_CONCURRENT_JOBS", 3) // 3 negócios em paralelo
	viper.SetDefault("WEEKLY_SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
