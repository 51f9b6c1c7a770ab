package model

import (
	"time"

	"hotelbook/shared/constant"
	"hotelbook/shared/failure"
	"hotelbook/shared/timezone"
)

const (
	EntityName = "availability"

	FieldRoomID    = "room_id"
	FieldHotelID   = "hotel_id"
	FieldRoomsLeft = "rooms_left"
)

var ErrInvalidWindow = failure.BadRequestFromString("date_from must be before date_to")

// Window is the half-open stay interval [From, To). Both ends are calendar dates.
type Window struct {
	From time.Time
	To   time.Time
}

func NewWindow(from, to time.Time) (Window, error) {
	w := Window{From: truncate(from), To: truncate(to)}

	return w, w.Validate()
}

// ParseWindow builds a Window from two YYYY-MM-DD strings.
func ParseWindow(from, to string) (Window, error) {
	fromDate, err := timezone.ParseDate(from)
	if err != nil {
		return Window{}, failure.BadRequestFromString("date_from must be a date in YYYY-MM-DD format")
	}

	toDate, err := timezone.ParseDate(to)
	if err != nil {
		return Window{}, failure.BadRequestFromString("date_to must be a date in YYYY-MM-DD format")
	}

	return NewWindow(fromDate, toDate)
}

func (w Window) Validate() error {
	if !w.From.Before(w.To) {
		return ErrInvalidWindow
	}

	return nil
}

// Nights is the number of nights a stay over the window is charged for.
func (w Window) Nights() int {
	return int(w.To.Sub(w.From).Hours() / 24)
}

// Overlaps reports whether the stay [from, to) shares at least one night with w.
// Touching intervals do not overlap.
func (w Window) Overlaps(from, to time.Time) bool {
	return from.Before(w.To) && w.From.Before(to)
}

func (w Window) FromString() string {
	return w.From.Format(constant.DateOnlyFormat)
}

func (w Window) ToString() string {
	return w.To.Format(constant.DateOnlyFormat)
}

// RoomLeft is one row of the availability aggregation.
type RoomLeft struct {
	RoomID    string `db:"room_id"`
	HotelID   string `db:"hotel_id"`
	Quantity  int    `db:"quantity"`
	Reserved  int    `db:"reserved"`
	RoomsLeft int    `db:"rooms_left"`
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
