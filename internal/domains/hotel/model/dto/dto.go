package dto

import (
	"mime/multipart"

	"hotelbook/internal/domains/hotel/model"
	"hotelbook/shared"
	gDto "hotelbook/shared/dto"
	gModel "hotelbook/shared/model"
	"hotelbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateHotelRequest struct {
	Title     string                `json:"title"    validate:"required,max=100"`
	Location  string                `json:"location" validate:"required,max=255"`
	Image     *multipart.FileHeader `json:"image"    validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

func (c *CreateHotelRequest) ToModel(user string, imageURL string) model.Hotel {
	now := timezone.Now()

	return model.Hotel{
		ID:       uuid.NewString(),
		Title:    c.Title,
		Location: c.Location,
		Image:    imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateHotelRequest struct {
	Title     string                `db:"title"    json:"title"    validate:"omitempty,max=100"`
	Location  string                `db:"location" json:"location" validate:"omitempty,max=255"`
	Image     *multipart.FileHeader `json:"image"    validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

type HotelResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Image    string `json:"image"`
	gDto.Metadata
}

func (h *HotelResponse) FromModel(model model.Hotel) {
	h.ID = model.ID
	h.Title = model.Title
	h.Location = model.Location
	h.Image = model.Image
	h.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}
