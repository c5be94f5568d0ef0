package dto

import (
	"github.com/google/uuid"

	"smartmeet/internal/domains/booking/model"
	"smartmeet/shared"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	gModel "smartmeet/shared/model"
	"smartmeet/shared/timezone"
)

type CreateBookingRequest struct {
	Title       string  `json:"title"        validate:"required,max=150"`
	VenueID     string  `json:"venue_id"     validate:"required"`
	BookingDate string  `json:"booking_date" validate:"required"`
	StartTime   string  `json:"start_time"   validate:"required,clock"`
	EndTime     string  `json:"end_time"     validate:"required,clock"`
	Description string  `json:"description"  validate:"omitempty"`
	Type        string  `json:"type"         validate:"omitempty,oneof=physical virtual"`
	MeetLink    *string `json:"meet_link"    validate:"omitempty,url"`
}

func (c *CreateBookingRequest) ToModel(requesterID, requesterEmail, status string, meetLink *string) model.Booking {
	bookingType := c.Type
	if bookingType == constant.Empty {
		bookingType = constant.BookingTypePhysical
	}

	return model.Booking{
		ID:             uuid.NewString(),
		Title:          c.Title,
		VenueID:        c.VenueID,
		BookingDate:    c.BookingDate,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		Description:    c.Description,
		Status:         status,
		Type:           bookingType,
		MeetLink:       meetLink,
		RequesterID:    requesterID,
		RequesterEmail: requesterEmail,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  requesterID,
			ModifiedBy: requesterID,
		},
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type BookingResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	VenueID            string  `json:"venue_id"`
	BookingDate        string  `json:"booking_date"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	Type               string  `json:"type"`
	MeetLink           *string `json:"meet_link,omitempty"`
	RequesterID        string  `json:"requester_id"`
	RequesterEmail     string  `json:"requester_email"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Title = model.Title
	r.VenueID = model.VenueID
	r.BookingDate = model.BookingDate
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.Description = model.Description
	r.Status = model.Status
	r.Type = model.Type
	r.MeetLink = model.MeetLink
	r.RequesterID = model.RequesterID
	r.RequesterEmail = model.RequesterEmail
	r.CancellationReason = model.CancellationReason
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

type MeetLinkResponse struct {
	MeetLink string `json:"meet_link"`
}
