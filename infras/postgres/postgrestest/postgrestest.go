// Package postgrestest opens a migrated PostgreSQL database for tests that need
// the real query planner and locking.
package postgrestest

//nolint:revive
import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"hotelbook/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// EnvDSN names the variable holding a lib/pq URL of a throwaway database.
// Packages share it, so run them with -p 1.
const EnvDSN = "POSTGRES_TEST_DSN"

const truncateTables = `TRUNCATE bookings, facilities, rooms, hotels, users CASCADE`

// New migrates the database named by EnvDSN up and empties it. Read and Write
// share one pool whose sessions run in UTC, the zone stay dates are kept in.
// The test is skipped when EnvDSN is unset.
func New(t *testing.T) *postgres.Connection {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	mig, err := migrate.New("file://"+migrationsDir(), dsn)
	require.NoError(t, err)

	if err = mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	_, _ = mig.Close()

	session, err := url.Parse(dsn)
	require.NoError(t, err)

	query := session.Query()
	query.Set("timezone", time.UTC.String())
	session.RawQuery = query.Encode()

	db, err := sqlx.Open("postgres", session.String())
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(context.Background(), truncateTables)
	require.NoError(t, err)

	return &postgres.Connection{Read: db, Write: db}
}

// Exec runs a fixture statement on the write pool.
func Exec(t *testing.T, conn *postgres.Connection, query string, args ...any) {
	t.Helper()

	_, err := conn.Write.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)

	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "postgres")
}
