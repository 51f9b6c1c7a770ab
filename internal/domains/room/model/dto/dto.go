package dto

import (
	"hotelbook/internal/domains/room/model"
	"hotelbook/shared"
	gDto "hotelbook/shared/dto"
	gModel "hotelbook/shared/model"
	"hotelbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Title       string  `json:"title"       validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       *int64  `json:"price"       validate:"required,min=0"`
	Quantity    *int    `json:"quantity"    validate:"required,min=0"`
}

func (c *CreateRoomRequest) ToModel(hotelID, user string) model.Room {
	now := timezone.Now()

	room := model.Room{
		ID:          uuid.NewString(),
		HotelID:     hotelID,
		Title:       c.Title,
		Description: c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if c.Price != nil {
		room.Price = *c.Price
	}

	if c.Quantity != nil {
		room.Quantity = *c.Quantity
	}

	return room
}

type UpdateRoomRequest struct {
	Title       string  `db:"title"       json:"title"       validate:"omitempty,max=100"`
	Description *string `db:"description" json:"description" validate:"omitempty,max=1000"`
	Price       *int64  `db:"price"       json:"price"       validate:"omitempty,min=0"`
	Quantity    *int    `db:"quantity"    json:"quantity"    validate:"omitempty,min=0"`
}

type RoomResponse struct {
	ID          string  `json:"id"`
	HotelID     string  `json:"hotel_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Quantity    int     `json:"quantity"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.Title = model.Title
	r.Description = model.Description
	r.Price = model.Price
	r.Quantity = model.Quantity
	r.Metadata.FromModel(model.Metadata)
}

type AvailableRoomResponse struct {
	RoomResponse
	RoomsLeft int `json:"rooms_left"`
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
