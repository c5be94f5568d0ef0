package dto

import (
	"github.com/google/uuid"

	"smartmeet/internal/domains/venue/model"
	"smartmeet/shared"
	gDto "smartmeet/shared/dto"
	gModel "smartmeet/shared/model"
	"smartmeet/shared/timezone"
)

type CreateVenueRequest struct {
	Name       string   `json:"name"       validate:"required,max=100"`
	Location   string   `json:"location"   validate:"omitempty,max=100"`
	Capacity   int      `json:"capacity"   validate:"required,min=1"`
	Facilities []string `json:"facilities" validate:"omitempty,dive,max=50"`
	Active     *bool    `json:"active"     validate:"omitempty"`
}

func (c *CreateVenueRequest) ToModel(user string) model.Venue {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Venue{
		ID:         uuid.NewString(),
		Name:       c.Name,
		Location:   c.Location,
		Capacity:   c.Capacity,
		Facilities: c.Facilities,
		Active:     active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVenueRequest struct {
	Name       string   `db:"name"     json:"name"       validate:"omitempty,max=100"`
	Location   string   `db:"location" json:"location"   validate:"omitempty,max=100"`
	Capacity   *int     `db:"capacity" json:"capacity"   validate:"omitempty,min=1"`
	Facilities []string `json:"facilities"               validate:"omitempty,dive,max=50"`
	Active     *bool    `db:"active"   json:"active"     validate:"omitempty"`
}

type VenueResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Capacity   int      `json:"capacity"`
	Facilities []string `json:"facilities"`
	Active     bool     `json:"active"`
	gDto.Metadata
}

func (r *VenueResponse) FromModel(model model.Venue) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Facilities = model.Facilities
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetVenuesResponse struct {
	Venues    []VenueResponse `json:"venues"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetVenuesResponse) FromModels(models []model.Venue, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Venues = make([]VenueResponse, len(models))
	for i, mod := range models {
		r.Venues[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	Date        string `json:"date"         validate:"required"`
	StartTime   string `json:"start_time"   validate:"required,clock"`
	EndTime     string `json:"end_time"     validate:"required,clock"`
	MinCapacity int    `json:"min_capacity" validate:"omitempty,min=0"`
}

type AvailableVenuesResponse struct {
	Venues []VenueResponse `json:"venues"`
}

func (r *AvailableVenuesResponse) FromModels(models []model.Venue) {
	r.Venues = make([]VenueResponse, len(models))
	for i, mod := range models {
		r.Venues[i].FromModel(mod)
	}
}
