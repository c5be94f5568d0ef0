package model

import "smartmeet/shared/model"

const (
	TableName  = "documents"
	EntityName = "document"

	FieldID        = "id"
	FieldName      = "name"
	FieldBookingID = "booking_id"
	FieldOwnerID   = "owner_id"
	FieldURL       = "url"
	FieldObjectKey = "object_key"
	FieldMimeType  = "mime_type"
	FieldSize      = "size"
	FieldPublic    = "public"
)

// Document is stored object metadata; the bytes live in S3 under
// ObjectKey. A nil BookingID means the document is not attached to any
// meeting.
type Document struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	BookingID *string `db:"booking_id"`
	OwnerID   string  `db:"owner_id"`
	URL       string  `db:"url"`
	ObjectKey string  `db:"object_key"`
	MimeType  string  `db:"mime_type"`
	Size      int64   `db:"size"`
	Public    bool    `db:"public"`
	model.Metadata
}
