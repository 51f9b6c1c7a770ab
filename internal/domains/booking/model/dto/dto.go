package dto

import (
	availabilityModel "hotelbook/internal/domains/availability/model"
	"hotelbook/internal/domains/booking/model"
	"hotelbook/shared"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
)

type CreateBookingRequest struct {
	RoomID   string `json:"room_id"   validate:"required,uuid"`
	DateFrom string `json:"date_from" validate:"required,dateonly"`
	DateTo   string `json:"date_to"   validate:"required,dateonly"`
}

func (c *CreateBookingRequest) Window() (availabilityModel.Window, error) {
	return availabilityModel.ParseWindow(c.DateFrom, c.DateTo)
}

// UpdateBookingRequest moves a booking to other dates and/or another room.
// Empty fields keep their current value.
type UpdateBookingRequest struct {
	RoomID   string `json:"room_id"   validate:"omitempty,uuid"`
	DateFrom string `json:"date_from" validate:"omitempty,dateonly"`
	DateTo   string `json:"date_to"   validate:"omitempty,dateonly"`
}

// Apply returns b with the requested changes.
func (u *UpdateBookingRequest) Apply(b model.Booking) (model.Booking, error) {
	if u.RoomID != constant.Empty {
		b.RoomID = u.RoomID
	}

	from, to := b.DateFrom.Format(constant.DateOnlyFormat), b.DateTo.Format(constant.DateOnlyFormat)

	if u.DateFrom != constant.Empty {
		from = u.DateFrom
	}

	if u.DateTo != constant.Empty {
		to = u.DateTo
	}

	window, err := availabilityModel.ParseWindow(from, to)
	if err != nil {
		return b, err
	}

	b.DateFrom, b.DateTo = window.From, window.To

	return b, nil
}

type BookingResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	Price     int64  `json:"price"`
	Nights    int    `json:"nights"`
	TotalCost int64  `json:"total_cost"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.RoomID = model.RoomID
	r.DateFrom = model.DateFrom.Format(constant.DateOnlyFormat)
	r.DateTo = model.DateTo.Format(constant.DateOnlyFormat)
	r.Price = model.Price
	r.Nights = model.Nights()
	r.TotalCost = model.TotalCost()
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
