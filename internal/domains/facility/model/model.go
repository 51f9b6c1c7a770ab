package model

import "hotelbook/shared/model"

const (
	TableName  = "facilities"
	EntityName = "facility"

	FieldID    = "id"
	FieldTitle = "title"
)

type Facility struct {
	ID    string `db:"id"`
	Title string `db:"title"`
	model.Metadata
}
