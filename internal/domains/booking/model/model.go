package model

import "smartmeet/shared/model"

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldTitle              = "title"
	FieldVenueID            = "venue_id"
	FieldBookingDate        = "booking_date"
	FieldStartTime          = "start_time"
	FieldEndTime            = "end_time"
	FieldDescription        = "description"
	FieldStatus             = "status"
	FieldType               = "type"
	FieldMeetLink           = "meet_link"
	FieldRequesterID        = "requester_id"
	FieldRequesterEmail     = "requester_email"
	FieldCancellationReason = "cancellation_reason"
	FieldCreatedBy          = "created_by"
)

// Booking keeps its date and clock values as the strings they arrive in
// ("2006-01-02" and "15:04"); overlap math happens on minutes derived
// from them. RequesterID is a weak reference: the row outlives the user.
type Booking struct {
	ID                 string  `db:"id"`
	Title              string  `db:"title"`
	VenueID            string  `db:"venue_id"`
	BookingDate        string  `db:"booking_date"`
	StartTime          string  `db:"start_time"`
	EndTime            string  `db:"end_time"`
	Description        string  `db:"description"`
	Status             string  `db:"status"`
	Type               string  `db:"type"`
	MeetLink           *string `db:"meet_link"`
	RequesterID        string  `db:"requester_id"`
	RequesterEmail     string  `db:"requester_email"`
	CancellationReason *string `db:"cancellation_reason"`
	model.Metadata
}
