package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"smartmeet/config"
	"smartmeet/infras/otel/mocks"
	bookingMocks "smartmeet/internal/domains/booking/mocks"
	bookingModel "smartmeet/internal/domains/booking/model"
	notifMocks "smartmeet/internal/domains/notification/mocks"
	venueMocks "smartmeet/internal/domains/venue/mocks"
	"smartmeet/internal/domains/venue/model"
	"smartmeet/internal/domains/venue/model/dto"
	"smartmeet/internal/domains/venue/service"
	cacheMocks "smartmeet/shared/cache/mocks"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

func TestVenueService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := venueMocks.NewMockVenue(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		req       dto.CreateVenueRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateVenueRequest{
				Name:       "Seminar Room A",
				Location:   "Block C",
				Capacity:   20,
				Facilities: []string{"projector", "whiteboard"},
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "repository error",
			req: dto.CreateVenueRequest{
				Name:     "Seminar Room A",
				Capacity: 20,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.Name, res.Name)
			assert.True(t, res.Active)
		})
	}
}

func TestVenueService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := venueMocks.NewMockVenue(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "hard delete without upcoming bookings",
			id:   "venue-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockBookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "deactivate when upcoming bookings hold the venue",
			id:   "venue-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockBookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, updates map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, false, updates[model.FieldActive])

						return nil
					})
			},
		},
		{
			name: "unknown venue",
			id:   "ghost",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Delete(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestVenueService_ListAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := venueMocks.NewMockVenue(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, mockNotifier, cfg, mockCache, mockOtel)

	venues := []model.Venue{
		{ID: "venue-1", Name: "Seminar Room A", Capacity: 20, Active: true},
		{ID: "venue-2", Name: "Lab 2", Capacity: 40, Active: true},
	}

	tests := []struct {
		name      string
		req       dto.AvailabilityRequest
		setupMock func()
		wantErr   bool
		wantIDs   []string
	}{
		{
			name: "venue with an overlapping hold is excluded",
			req: dto.AvailabilityRequest{
				Date:      "2026-09-10",
				StartTime: "09:00",
				EndTime:   "10:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(venues, nil)
				mockBookingRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]bookingModel.Booking{
						{ID: "holder-1", VenueID: "venue-1", StartTime: "09:30", EndTime: "10:30", Status: constant.BookingStatusPending},
					}, nil)
			},
			wantIDs: []string{"venue-2"},
		},
		{
			name: "back to back bookings leave the venue free",
			req: dto.AvailabilityRequest{
				Date:      "2026-09-10",
				StartTime: "10:00",
				EndTime:   "11:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(venues, nil)
				mockBookingRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]bookingModel.Booking{
						{ID: "holder-1", VenueID: "venue-1", StartTime: "09:00", EndTime: "10:00", Status: constant.BookingStatusApproved},
					}, nil)
			},
			wantIDs: []string{"venue-1", "venue-2"},
		},
		{
			name: "invalid window",
			req: dto.AvailabilityRequest{
				Date:      "2026-09-10",
				StartTime: "11:00",
				EndTime:   "10:00",
			},
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.ListAvailable(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)

			gotIDs := make([]string, 0, len(res.Venues))
			for _, venue := range res.Venues {
				gotIDs = append(gotIDs, venue.ID)
			}

			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestVenueService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := venueMocks.NewMockVenue(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		req       dto.UpdateVenueRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "facilities are updated through the array wrapper",
			req: dto.UpdateVenueRequest{
				Name:       "Seminar Room B",
				Facilities: []string{"projector"},
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, updates map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, updates, model.FieldFacilities)
						assert.Equal(t, "Seminar Room B", updates[model.FieldName])

						return nil
					})
			},
		},
		{
			name: "unknown venue",
			req:  dto.UpdateVenueRequest{Name: "Seminar Room B"},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Update(ctx, tt.req, "venue-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
