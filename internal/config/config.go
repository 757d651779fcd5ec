package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Reports  *reportsConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql" validate:"oneof=pgsql sqlite"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"partsfeed" validate:"required"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	LogLevel        string `envconfig:"PARTSFEED_LOG_LEVEL" default:"info" validate:"loglevel"`
	ChunkSize       int    `envconfig:"PARTSFEED_CHUNK_SIZE" default:"200" validate:"min=1,max=10000"`
	MigrationFolder string `envconfig:"PARTSFEED_MIGRATIONS_FOLDER" default:""`
	PushgatewayURL  string `envconfig:"PARTSFEED_PUSHGATEWAY_URL" default:"" validate:"omitempty,url"`
	EventsOutput    string `envconfig:"PARTSFEED_EVENTS_OUTPUT" default:"none" validate:"oneof=none stdout"`
}

type reportsConfig struct {
	Backend     string `envconfig:"PARTSFEED_REPORTS_BACKEND" default:"file" validate:"oneof=file minio"`
	Directory   string `envconfig:"PARTSFEED_REPORTS_DIR" default:"uploads" validate:"required_if=Backend file"`
	S3Endpoint  string `envconfig:"PARTSFEED_S3_ENDPOINT" default:"" validate:"required_if=Backend minio"`
	S3Bucket    string `envconfig:"PARTSFEED_S3_BUCKET" default:"" validate:"required_if=Backend minio"`
	S3AccessKey string `envconfig:"PARTSFEED_S3_ACCESS_KEY" default:""`
	S3SecretKey string `envconfig:"PARTSFEED_S3_SECRET_KEY" default:""`
	S3UseSSL    bool   `envconfig:"PARTSFEED_S3_USE_SSL" default:"false"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		cfg := new(Config)
		if err := envconfig.Process("", cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		singleConfig = cfg
	}
	return singleConfig, nil
}

// NewDefault returns the built-in defaults without reading the environment.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type:     "pgsql",
			Hostname: "localhost",
			Port:     "5432",
			Name:     "partsfeed",
			User:     "admin",
			Password: "adminpass",
		},
		Service: &svcConfig{
			LogLevel:     "info",
			ChunkSize:    200,
			EventsOutput: "none",
		},
		Reports: &reportsConfig{
			Backend:   "file",
			Directory: "uploads",
		},
	}
}

func (c *Config) Validate() error {
	v := newValidator()
	v.Register(logLevelRule())

	for _, section := range []any{c.Database, c.Service, c.Reports} {
		if err := v.Struct(section); err != nil {
			return err
		}
	}
	return nil
}
