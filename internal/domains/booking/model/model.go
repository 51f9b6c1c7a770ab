package model

import (
	availabilityModel "hotelbook/internal/domains/availability/model"
	"hotelbook/shared/failure"
	"hotelbook/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID       = "id"
	FieldUserID   = "user_id"
	FieldRoomID   = "room_id"
	FieldDateFrom = "date_from"
	FieldDateTo   = "date_to"
	FieldPrice    = "price"
)

// Admission outcomes. Each maps to its own HTTP status through failure.GetCode.
var (
	ErrBookingNotFound    = failure.NotFound("booking not found")
	ErrRoomNotFound       = failure.NotFound("room not found")
	ErrHotelNotFound      = failure.NotFound("hotel not found")
	ErrNoCapacity         = failure.Conflict("no rooms left for the requested dates")
	ErrAdmissionContended = failure.Unavailable("room is being booked concurrently, please retry")
	ErrInvalidDateRange   = availabilityModel.ErrInvalidWindow
)

// Booking holds one unit of a room for the nights in [DateFrom, DateTo).
// Price is the nightly rate of the room at admission time.
type Booking struct {
	ID       string    `db:"id"`
	UserID   string    `db:"user_id"`
	RoomID   string    `db:"room_id"`
	DateFrom time.Time `db:"date_from"`
	DateTo   time.Time `db:"date_to"`
	Price    int64     `db:"price"`
	model.Metadata
}

func (b Booking) Window() availabilityModel.Window {
	return availabilityModel.Window{From: b.DateFrom, To: b.DateTo}
}

func (b Booking) Nights() int {
	return b.Window().Nights()
}

func (b Booking) TotalCost() int64 {
	return b.Price * int64(b.Nights())
}
