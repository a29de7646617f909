package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"30m"`
	Postgres    Postgres
	Redis       Redis
	Telegram    Telegram
	HTTP        HTTP
	API         API
	Jobs        Jobs
	GoogleDrive GoogleDrive
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"stocks_widget"`
	Password        string `env:"PG_PASSWORD" envDefault:"postgres"`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Telegram struct {
	Enabled    bool          `env:"TELEGRAM_ENABLED" envDefault:"false"`
	Token      string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type API struct {
	Debug          bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout        time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	TradingviewApi TradingviewApi
	VanguardApi    VanguardApi
}

type TradingviewApi struct {
	Url string `env:"TRADINGVIEW_API_URL" envDefault:"https://scanner.tradingview.com"`
}

type VanguardApi struct {
	Url        string `env:"VANGUARD_API_URL" envDefault:"https://www.nl.vanguard/gpx/graphql"`
	ConsumerID string `env:"VANGUARD_CONSUMER_ID" envDefault:"GPX"`
}

type Jobs struct {
	RefreshInterval     time.Duration `env:"REFRESH_JOB_INTERVAL" envDefault:"30m"`
	DriveCleanupCrontab string        `env:"DRIVE_CLEANUP_CRONTAB" envDefault:"0 3 * * *"`
}

type GoogleDrive struct {
	Enabled         bool          `env:"GOOGLE_DRIVE_ENABLED" envDefault:"false"`
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:"credentials.json"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"72h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
