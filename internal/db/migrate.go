package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/migrations"
)

// RequiredTables must exist for the service to work.
var RequiredTables = []string{
	"users",
	"exercises",
	"workout_sessions",
	"workout_sets",
	"weekly_schedule",
}

// sqlDSN returns the connection string for lib/pq, which requires TLS unless told otherwise.
func sqlDSN(connString string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", fmt.Errorf("parse conn string: %w", err)
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func openSQL(connString string) (*sql.DB, error) {
	dsn, err := sqlDSN(connString)
	if err != nil {
		return nil, err
	}
	return sql.Open("postgres", dsn)
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, params NewDBPoolParams) error {
	sqlDB, err := openSQL(params.ConnString())
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("close migrations db: %s", err)
		}
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	log.Infof("db migrated to version %d", version)

	return nil
}

// CheckSchema pings the database and returns the required tables that are missing.
func CheckSchema(ctx context.Context, params NewDBPoolParams) ([]string, error) {
	sqlDB, err := openSQL(params.ConnString())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("close schema check db: %s", err)
		}
	}()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	var missing []string
	for _, table := range RequiredTables {
		var exists bool
		if err := sqlDB.QueryRowContext(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1);`,
			table,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	return missing, nil
}
