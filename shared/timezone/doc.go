// Package timezone keeps the application clock.
//
// Timestamps (created_at, last_login) are reported in the zone named by
// APP_TIMEZONE. Booking windows are calendar dates and carry no zone: they are
// parsed with ParseDate and compared as midnight UTC, and Today maps the local
// calendar day onto that form, so a guest in UTC+14 checks in on their own date.
package timezone
