package helper

//nolint:revive
import (
	"errors"
	"eventdesk/config"
	"eventdesk/infras/postgres"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"

	defaultSource         = "file://migrations/postgres"
	defaultMigrationTable = "schema_migrations"
)

var ErrUnknownAction = errors.New("unknown migration action")

// NewMigrator opens a migrate instance on dsn, recording versions in table.
func NewMigrator(source, dsn, table string) (*migrate.Migrate, error) {
	if table == "" {
		table = defaultMigrationTable
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing database url: %w", err)
	}

	query := parsed.Query()
	query.Set("x-migrations-table", table)
	parsed.RawQuery = query.Encode()

	mig, err := migrate.New(source, parsed.String())
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	pg := config.DB.Postgres

	return NewMigrator(defaultSource, postgres.DSN(pg.Write, pg.Prefix), pg.MigrationTable)
}

// Apply runs one action against an open migrate instance.
func Apply(mig *migrate.Migrate, action string) error {
	var err error

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migrations completed successfully")

	return nil
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	return Apply(mig, action)
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
