package model

import "hotelbook/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID       = "id"
	FieldTitle    = "title"
	FieldLocation = "location"
	FieldImage    = "image"
)

type Hotel struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Location string `db:"location"`
	Image    string `db:"image"`
	model.Metadata
}
