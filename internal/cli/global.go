package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dealerportal/partsfeed/internal/config"
	"github.com/dealerportal/partsfeed/internal/events"
	"github.com/dealerportal/partsfeed/internal/store"
	"github.com/dealerportal/partsfeed/pkg/log"
	"github.com/dealerportal/partsfeed/pkg/metrics"
	"github.com/dealerportal/partsfeed/pkg/migrations"
	"github.com/dealerportal/partsfeed/pkg/reports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalOptions holds what every command needs: the configuration, logging and
// the output stream.
type GlobalOptions struct {
	LogLevel string

	config *config.Config
	out    io.Writer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level, overrides PARTSFEED_LOG_LEVEL")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.out == nil {
		o.out = cmd.OutOrStdout()
	}

	if o.config == nil {
		cfg, err := config.New()
		if err != nil {
			return withExitCode(ExitCodeInvalid, fmt.Errorf("reading configuration: %w", err))
		}
		o.config = cfg
	}

	level := o.config.Service.LogLevel
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	logLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	// stdout is reserved for command output
	zap.ReplaceGlobals(log.InitLog(logLvl, "stderr"))
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// openStore connects to the database and brings the schema up to date.
func (o *GlobalOptions) openStore(ctx context.Context) (store.Store, error) {
	db, err := store.InitDB(o.config)
	if err != nil {
		return nil, fmt.Errorf("initializing data store: %w", err)
	}

	s := store.NewStore(db)
	if o.config.Service.MigrationFolder != "" {
		err = migrations.MigrateStore(db, o.config)
	} else {
		err = s.InitialMigration(ctx)
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrating data store: %w", err)
	}

	return s, nil
}

func (o *GlobalOptions) reportStore() (reports.Store, error) {
	r := o.config.Reports
	switch r.Backend {
	case "minio":
		return reports.NewMinioStore(
			reports.WithEndpoint(r.S3Endpoint),
			reports.WithBucket(r.S3Bucket),
			reports.WithAccessKey(r.S3AccessKey),
			reports.WithSecretKey(r.S3SecretKey),
			reports.WithSSL(r.S3UseSSL),
		)
	default:
		return reports.NewFileStore(r.Directory), nil
	}
}

// eventProducer returns nil when events are disabled.
func (o *GlobalOptions) eventProducer() *events.EventProducer {
	if o.config.Service.EventsOutput != "stdout" {
		return nil
	}
	return events.NewEventProducer(&events.StdoutWriter{})
}

// pushMetrics is best effort: a Pushgateway outage never fails a command.
func (o *GlobalOptions) pushMetrics(ctx context.Context, source metrics.StatisticsSource) {
	url := o.config.Service.PushgatewayURL
	if url == "" {
		return
	}
	if err := metrics.Push(ctx, url, source); err != nil {
		zap.S().Named("cli").Warnw("failed to push metrics", "error", err)
	}
}
