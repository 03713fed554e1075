package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/workoutlog/internal"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/logging"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
)

// secrets and toggles that never live in config.toml
type envSettings struct {
	dbPassword       string
	redisPassword    string
	sentryDSN        string
	honeycombEnabled bool
}

func readEnv() envSettings {
	s := envSettings{
		dbPassword:       os.Getenv("WORKOUTLOG_DB_PASS"),
		redisPassword:    os.Getenv("WORKOUTLOG_REDIS_PASS"),
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if s.dbPassword == "" {
		log.Warnln("db password not set. use WORKOUTLOG_DB_PASS")
	}
	if s.redisPassword == "" {
		log.Warnln("redis password not set. use WORKOUTLOG_REDIS_PASS")
	}
	if s.honeycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	return s
}

func main() {
	fmt.Println("starting workoutlog service ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	migrate := flag.Bool("migrate", false, "apply db migrations, check the schema and exit")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	settings := readEnv()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        settings.sentryDSN,
		SentryServerName: "workoutlog-service",
	})
	log.Warnf("---->> running in [%s] environment", cfg.Environment)

	if *migrate {
		if err := runMigrations(cfg, settings.dbPassword); err != nil {
			log.Fatalf("migrate: %s", err)
		}
		return
	}

	versionInfo := version()
	log.Debugf("running version [%s] on port %d", versionInfo, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			DBPassword:              settings.dbPassword,
			RedisPassword:           settings.redisPassword,
			HoneycombTracingEnabled: settings.honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, stopping ...")

	server.GracefulShutdown()
}

func runMigrations(cfg *config.Config, dbPassword string) error {
	ctx := context.Background()
	params := db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: dbPassword,
	}

	log.Infof("migrating db [%s] on %s:%s as [%s]",
		cfg.PostgresDBName, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser)

	if err := db.Migrate(ctx, params); err != nil {
		return err
	}

	missing, err := db.CheckSchema(ctx, params)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables after migration: %s", strings.Join(missing, ", "))
	}

	log.Infoln("db schema ok")
	return nil
}

// version prefers the vcs revision stamped by the go toolchain, then asks git
// (works when the binary runs from the repo root), then gives up with "dev".
func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}

	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("failed to get last commit hash: %s", err)
		return "dev"
	}
	return strings.TrimSpace(pkg.BytesToString(stdout))
}
