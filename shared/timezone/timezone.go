package timezone

import (
	"fmt"
	"sync"
	"time"

	"hotelbook/config"

	"github.com/rs/zerolog/log"
)

var (
	mu          sync.RWMutex
	once        sync.Once
	appLocation *time.Location
)

func load() {
	once.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Msg("No timezone configured, using UTC as default")

			name = "UTC"
		}

		if err := setLocation(name); err != nil {
			log.Error().
				Err(err).
				Str("timezone", name).
				Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'Asia/Jakarta' or 'Europe/Moscow'")

			mu.Lock()
			appLocation = time.UTC
			mu.Unlock()

			return
		}

		log.Info().Str("timezone", name).Msg("Application timezone initialized")
	})
}

// SetLocation switches the application timezone. The configured APP_TIMEZONE
// is never loaded afterwards.
func SetLocation(name string) error {
	once.Do(func() {})

	return setLocation(name)
}

// setLocation must not touch once, load calls it from inside once.Do.
func setLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	mu.Lock()
	appLocation = loc
	mu.Unlock()

	return nil
}

// Location returns the application timezone, loading it from APP_TIMEZONE on first use.
func Location() *time.Location {
	load()

	mu.RLock()
	defer mu.RUnlock()

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Today returns the calendar date of Now as midnight UTC, the form DATE columns are scanned into.
func Today() time.Time {
	now := Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date. The result carries no zone offset.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}
