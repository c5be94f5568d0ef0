package model

import "smartmeet/shared/model"

const (
	TableName     = "notifications"
	ReadTableName = "notification_reads"
	EntityName    = "notification"

	FieldID      = "id"
	FieldUserID  = "user_id"
	FieldTitle   = "title"
	FieldMessage = "message"
	FieldType    = "type"
)

// Notification with a nil UserID is a broadcast visible to every user.
type Notification struct {
	ID      string  `db:"id"`
	UserID  *string `db:"user_id"`
	Title   string  `db:"title"`
	Message string  `db:"message"`
	Type    string  `db:"type"`
	model.Metadata
}

// NotificationWithRead carries the per-user read flag resolved from
// the notification_reads join table.
type NotificationWithRead struct {
	Notification
	Read bool `db:"read"`
}
