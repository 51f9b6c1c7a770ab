package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"hotelbook/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection holds the read replica pool and the primary pool. Every
// booking write and admission check goes through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write split as configured.
type Endpoint = struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read:  connect("read", DSN(config, pg.Read, nil), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect("write", DSN(config, pg.Write, nil), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN renders a lib/pq URL for the endpoint, with the configured database prefix
// applied. extra is merged into the query string.
func DSN(config *config.Config, endpoint Endpoint, extra url.Values) string {
	query := url.Values{}

	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	// booking dates are compared as DATE, the session zone decides what "today" is
	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     config.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(name, dsn string, maxRetry, waitTime int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		sqlDB, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().Str("name", name).Int("attempt", attempt).Msg("Connected to database")

			return sqlDB
		}

		log.Error().Err(err).Str("name", name).Int("attempt", attempt).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(time.Duration(waitTime) * time.Second)
		}
	}

	log.Error().Str("name", name).Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}

// Close releases both pools.
func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}
