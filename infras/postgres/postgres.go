package postgres

//nolint:revive
import (
	"errors"
	"eventdesk/config"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName                = "postgres"
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

var errNoAttempts = errors.New("no connection attempt was made")

// Connection splits traffic between a read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens both pools. The returned cleanup closes them.
func New(cfg *config.Config) (*Connection, func(), error) {
	pg := cfg.DB.Postgres

	write, err := Connect("write", DSN(pg.Write, pg.Prefix), pg.MaxRetry, pg.RetryWaitTime)
	if err != nil {
		return nil, nil, err
	}

	read, err := Connect("read", DSN(pg.Read, pg.Prefix), pg.MaxRetry, pg.RetryWaitTime)
	if err != nil {
		_ = write.Close()

		return nil, nil, err
	}

	conn := &Connection{Read: read, Write: write}

	return conn, conn.Close, nil
}

// NewFromDB uses one pool for both reads and writes.
func NewFromDB(db *sqlx.DB) *Connection {
	return &Connection{Read: db, Write: db}
}

func (c *Connection) Close() {
	if err := c.Write.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close write connection")
	}

	if c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close read connection")
		}
	}
}

// DSN builds a postgres:// URL, applying the optional database name prefix.
func DSN(db config.Database, prefix string) string {
	query := url.Values{}
	if db.SSLMode != "" {
		query.Set("sslmode", db.SSLMode)
	}

	if db.Timezone != "" {
		query.Set("timezone", db.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(db.Username, db.Password),
		Host:     net.JoinHostPort(db.Host, db.Port),
		Path:     "/" + prefix + db.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries until the database answers or maxRetry attempts are spent.
func Connect(name, dsn string, maxRetry, waitSeconds int) (*sqlx.DB, error) {
	err := errNoAttempts

	for attempt := range max(maxRetry, 1) {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)

			log.Info().Str("name", name).Msg("Connected to database")

			return db, nil
		}

		log.Error().
			Err(err).
			Str("name", name).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
}
