package dto

import (
	"github.com/google/uuid"

	"smartmeet/internal/domains/notification/model"
	"smartmeet/shared"
	"smartmeet/shared/constant"
	gModel "smartmeet/shared/model"
	"smartmeet/shared/timezone"
)

type CreateNotificationRequest struct {
	UserID  *string `json:"user_id"`
	Title   string  `json:"title"   validate:"required,max=150"`
	Message string  `json:"message" validate:"required"`
	Type    string  `json:"type"    validate:"required,oneof=meeting meeting_request account venue system"`
}

func (c *CreateNotificationRequest) ToModel(actor string) model.Notification {
	return model.Notification{
		ID:      uuid.NewString(),
		UserID:  c.UserID,
		Title:   c.Title,
		Message: c.Message,
		Type:    c.Type,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
}

func (r *NotificationResponse) FromModel(mod model.NotificationWithRead) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.Title = mod.Title
	r.Message = mod.Message
	r.Type = mod.Type
	r.Read = mod.Read
	r.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.NotificationWithRead, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// NotificationEvent is the payload published to the notification topic.
type NotificationEvent struct {
	NotificationID string  `json:"notification_id"`
	UserID         *string `json:"user_id,omitempty"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	Type           string  `json:"type"`
}

func EventFromModel(mod model.Notification) NotificationEvent {
	return NotificationEvent{
		NotificationID: mod.ID,
		UserID:         mod.UserID,
		Title:          mod.Title,
		Message:        mod.Message,
		Type:           mod.Type,
	}
}
