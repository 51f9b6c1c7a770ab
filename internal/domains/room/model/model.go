package model

import "hotelbook/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldHotelID     = "hotel_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
)

// Room is a room type of a hotel. Quantity is how many identical units exist,
// Price is the nightly rate in minor currency units.
type Room struct {
	ID          string  `db:"id"`
	HotelID     string  `db:"hotel_id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Price       int64   `db:"price"`
	Quantity    int     `db:"quantity"`
	model.Metadata
}
