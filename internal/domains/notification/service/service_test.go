package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"smartmeet/config"
	kafkaMocks "smartmeet/infras/kafka/mocks"
	"smartmeet/infras/otel/mocks"
	notificationMocks "smartmeet/internal/domains/notification/mocks"
	"smartmeet/internal/domains/notification/model"
	"smartmeet/internal/domains/notification/model/dto"
	"smartmeet/internal/domains/notification/service"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

func TestNotificationService_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockOtel, mockKafka)

	userID := "user-id-123"

	tests := []struct {
		name      string
		req       dto.CreateNotificationRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful notify for a single user",
			req: dto.CreateNotificationRequest{
				UserID:  &userID,
				Title:   "Meeting Request Confirmation",
				Message: "Your booking is pending approval",
				Type:    "meeting_request",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "broadcast with nil user",
			req: dto.CreateNotificationRequest{
				Title:   "New Venue Available",
				Message: "Lab 2 is now bookable",
				Type:    "venue",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "insert failure propagates",
			req: dto.CreateNotificationRequest{
				UserID:  &userID,
				Title:   "Meeting Update",
				Message: "Your booking was approved",
				Type:    "meeting",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr: true,
		},
		{
			name: "broker failure is swallowed",
			req: dto.CreateNotificationRequest{
				UserID:  &userID,
				Title:   "Meeting Update",
				Message: "Your booking was rejected",
				Type:    "meeting",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("broker unavailable"))
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Notify(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_NotifyMany(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockOtel, mockKafka)

	tests := []struct {
		name      string
		userIDs   []string
		setupMock func()
		wantErr   bool
	}{
		{
			name:    "fan-out to admins",
			userIDs: []string{"admin-1", "admin-2"},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Len(2)).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty recipient list is a no-op",
			userIDs:   []string{},
			setupMock: func() {},
			wantErr:   false,
		},
		{
			name:    "bulk insert failure propagates",
			userIDs: []string{"admin-1"},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					Return(errors.New("bulk insert error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.NotifyMany(context.Background(), tt.userIDs, "New Meeting Request", "A booking awaits review", "meeting_request")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockOtel, mockKafka)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful mark read",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					MarkRead(gomock.Any(), "notification-1", "user-1").
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "marking an already-read notification succeeds",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				// The conflict-free insert is a no-op the second time.
				mockRepo.EXPECT().
					MarkRead(gomock.Any(), "notification-1", "user-1").
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "notification not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.MarkRead(context.Background(), "notification-1", "user-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockOtel, mockKafka)

	userID := "user-1"
	stored := []model.NotificationWithRead{
		{
			Notification: model.Notification{
				ID:      "notification-1",
				UserID:  &userID,
				Title:   "Meeting Request Confirmation",
				Message: "Your booking is pending approval",
				Type:    "meeting_request",
			},
			Read: false,
		},
		{
			Notification: model.Notification{
				ID:      "notification-2",
				Title:   "New Venue Available",
				Message: "Lab 2 is now bookable",
				Type:    "venue",
			},
			Read: true,
		},
	}

	mockRepo.EXPECT().
		CountForUser(gomock.Any(), userID).
		Return(2, nil)

	mockRepo.EXPECT().
		GetAllForUser(gomock.Any(), userID, gomock.Any()).
		Return(stored, nil)

	res, err := svc.List(context.Background(), userID, gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, res.Notifications, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.False(t, res.Notifications[0].Read)
	assert.True(t, res.Notifications[1].Read)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockOtel, mockKafka)

	mockRepo.EXPECT().
		CountUnread(gomock.Any(), "user-1").
		Return(3, nil)

	res, err := svc.UnreadCount(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, res.UnreadCount)
}
