package dto

import (
	"hotelbook/internal/domains/facility/model"
	"hotelbook/shared"
	gDto "hotelbook/shared/dto"
	gModel "hotelbook/shared/model"
	"hotelbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateFacilityRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

func (c *CreateFacilityRequest) ToModel(user string) model.Facility {
	now := timezone.Now()

	return model.Facility{
		ID:    uuid.NewString(),
		Title: c.Title,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type FacilityResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	gDto.Metadata
}

func (f *FacilityResponse) FromModel(model model.Facility) {
	f.ID = model.ID
	f.Title = model.Title
	f.Metadata.FromModel(model.Metadata)
}

type GetFacilitiesResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetFacilitiesResponse) FromModels(models []model.Facility, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Facilities = make([]FacilityResponse, len(models))
	for i, mod := range models {
		r.Facilities[i].FromModel(mod)
	}
}
