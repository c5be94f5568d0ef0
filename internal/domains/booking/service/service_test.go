package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"smartmeet/config"
	"smartmeet/infras/otel/mocks"
	bookingMocks "smartmeet/internal/domains/booking/mocks"
	"smartmeet/internal/domains/booking/model"
	"smartmeet/internal/domains/booking/model/dto"
	"smartmeet/internal/domains/booking/service"
	notifMocks "smartmeet/internal/domains/notification/mocks"
	notifDto "smartmeet/internal/domains/notification/model/dto"
	userMocks "smartmeet/internal/domains/user/mocks"
	userModel "smartmeet/internal/domains/user/model"
	venueMocks "smartmeet/internal/domains/venue/mocks"
	venueModel "smartmeet/internal/domains/venue/model"
	cacheMocks "smartmeet/shared/cache/mocks"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(constant.CalendarDayFormat)
}

func requestCtx(userID, email, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, email)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func stringPtr(s string) *string {
	return &s
}

func passTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

func TestBookingService_Request(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.WindowDays = 30
	cfg.Booking.MaxDurationMinutes = 240

	// The post-admission fan-out runs detached from the request.
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().NotifyMany(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockUserRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{{ID: "admin-1"}}, nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	activeVenue := venueModel.Venue{ID: "venue-1", Name: "Seminar Room A", Capacity: 20, Active: true}

	tests := []struct {
		name       string
		ctx        context.Context
		req        dto.CreateBookingRequest
		setupMock  func()
		wantErr    bool
		wantCode   int
		wantStatus string
		wantLink   bool
	}{
		{
			name: "pending admission for a free slot",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusPending,
		},
		{
			name: "admin request is approved immediately",
			ctx:  requestCtx("admin-1", "root@cs.unza.zm", constant.RoleAdmin),
			req: dto.CreateBookingRequest{
				Title:       "Faculty board",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusApproved,
		},
		{
			name: "virtual booking gets a generated meet link",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Remote defense",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "13:00",
				EndTime:     "14:00",
				Type:        constant.BookingTypeVirtual,
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusPending,
			wantLink:   true,
		},
		{
			name: "overlapping holder rejects the admission",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "09:30",
				EndTime:     "10:30",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						{ID: "holder-1", StartTime: "09:00", EndTime: "10:00", Status: constant.BookingStatusApproved},
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "touching slots do not conflict",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "10:00",
				EndTime:     "11:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						{ID: "holder-1", StartTime: "09:00", EndTime: "10:00", Status: constant.BookingStatusApproved},
					}, nil)
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusPending,
		},
		{
			name: "unknown venue",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "ghost",
				BookingDate: futureDate(2),
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(venueModel.Venue{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "inactive venue",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(venueModel.Venue{ID: "venue-1", Active: false}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "start must precede end",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "11:00",
				EndTime:     "11:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "date in the past",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: "2020-01-01",
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duration beyond the configured maximum",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "08:00",
				EndTime:     "16:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "insert failure propagates",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			req: dto.CreateBookingRequest{
				Title:       "Research sync",
				VenueID:     "venue-1",
				BookingDate: futureDate(2),
				StartTime:   "09:00",
				EndTime:     "10:00",
			},
			setupMock: func() {
				mockVenueRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeVenue, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Request(tt.ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)

			if tt.wantLink {
				assert.NotNil(t, res.MeetLink)
				assert.Contains(t, *res.MeetLink, "https://meet.google.com/")
			}
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.WindowDays = 30
	cfg.Booking.MaxDurationMinutes = 240

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	pendingBooking := model.Booking{
		ID:          "booking-1",
		Title:       "Research sync",
		VenueID:     "venue-1",
		BookingDate: futureDate(2),
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      constant.BookingStatusPending,
		Type:        constant.BookingTypePhysical,
		RequesterID: "lect-1",
	}

	tests := []struct {
		name       string
		id         string
		req        dto.UpdateStatusRequest
		setupMock  func()
		wantErr    bool
		wantCode   int
		wantStatus string
	}{
		{
			name: "approve a pending booking",
			id:   "booking-1",
			req:  dto.UpdateStatusRequest{Status: constant.BookingStatusApproved},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)
				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusApproved,
		},
		{
			name: "reject a pending booking",
			id:   "booking-1",
			req:  dto.UpdateStatusRequest{Status: constant.BookingStatusRejected},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.BookingStatusRejected,
		},
		{
			name: "approval conflict keeps the booking pending",
			id:   "booking-1",
			req:  dto.UpdateStatusRequest{Status: constant.BookingStatusApproved},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)
				mockRepo.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(passTransaction)
				mockRepo.EXPECT().
					LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
					Return(nil)
				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						{ID: "holder-2", StartTime: "09:30", EndTime: "10:30", Status: constant.BookingStatusApproved},
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "already approved booking cannot change",
			id:   "booking-1",
			req:  dto.UpdateStatusRequest{Status: constant.BookingStatusRejected},
			setupMock: func() {
				approved := pendingBooking
				approved.Status = constant.BookingStatusApproved

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approved, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown booking",
			id:   "ghost",
			req:  dto.UpdateStatusRequest{Status: constant.BookingStatusApproved},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := requestCtx("admin-1", "root@cs.unza.zm", constant.RoleAdmin)
			res, err := svc.UpdateStatus(ctx, tt.id, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestBookingService_UpdateStatus_VirtualApprovalGeneratesLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	virtual := model.Booking{
		ID:          "booking-2",
		Title:       "Remote defense",
		VenueID:     "venue-1",
		BookingDate: futureDate(2),
		StartTime:   "13:00",
		EndTime:     "14:00",
		Status:      constant.BookingStatusPending,
		Type:        constant.BookingTypeVirtual,
		RequesterID: "lect-1",
	}

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(virtual, nil)
	mockRepo.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(passTransaction)
	mockRepo.EXPECT().
		LockVenueDateTx(gomock.Any(), gomock.Any(), "venue-1", gomock.Any()).
		Return(nil)
	mockRepo.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{}, nil)
	mockRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, updates map[string]any, _ gDto.FilterGroup) error {
			assert.Contains(t, updates, model.FieldMeetLink)

			return nil
		})

	ctx := requestCtx("admin-1", "root@cs.unza.zm", constant.RoleAdmin)
	res, err := svc.UpdateStatus(ctx, "booking-2", dto.UpdateStatusRequest{Status: constant.BookingStatusApproved})

	assert.NoError(t, err)
	assert.NotNil(t, res.MeetLink)
	assert.Contains(t, *res.MeetLink, "https://meet.google.com/")
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	approvedBooking := model.Booking{
		ID:          "booking-1",
		Title:       "Research sync",
		VenueID:     "venue-1",
		BookingDate: futureDate(2),
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      constant.BookingStatusApproved,
		RequesterID: "lect-1",
	}

	tests := []struct {
		name      string
		ctx       context.Context
		id        string
		req       dto.CancelBookingRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "requester cancels own booking",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			id:   "booking-1",
			req:  dto.CancelBookingRequest{Reason: "no longer needed"},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedBooking, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, updates map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.BookingStatusCancelled, updates[model.FieldStatus])
						assert.Equal(t, "no longer needed", updates[model.FieldCancellationReason])

						return nil
					})
			},
		},
		{
			name: "admin cancels someone else's booking",
			ctx:  requestCtx("admin-1", "root@cs.unza.zm", constant.RoleAdmin),
			id:   "booking-1",
			req:  dto.CancelBookingRequest{},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedBooking, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "stranger cannot cancel",
			ctx:  requestCtx("stud-9", "zulu@cs.unza.zm", constant.RoleStudent),
			id:   "booking-1",
			req:  dto.CancelBookingRequest{},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedBooking, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "cancelled booking cannot be cancelled again",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			id:   "booking-1",
			req:  dto.CancelBookingRequest{},
			setupMock: func() {
				cancelled := approvedBooking
				cancelled.Status = constant.BookingStatusCancelled

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(cancelled, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "rejected booking cannot be cancelled",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			id:   "booking-1",
			req:  dto.CancelBookingRequest{},
			setupMock: func() {
				rejected := approvedBooking
				rejected.Status = constant.BookingStatusRejected

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(rejected, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown booking",
			ctx:  requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer),
			id:   "ghost",
			req:  dto.CancelBookingRequest{},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Cancel(tt.ctx, tt.id, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, constant.BookingStatusCancelled, res.Status)
		})
	}
}

func TestBookingService_CancelNotifiesRequesterOnSelfCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	booking := model.Booking{
		ID:          "booking-1",
		Title:       "Research sync",
		VenueID:     "venue-1",
		BookingDate: futureDate(2),
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      constant.BookingStatusApproved,
		RequesterID: "lect-1",
	}

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(booking, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	notified := make(chan notifDto.CreateNotificationRequest, 1)

	mockNotifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req notifDto.CreateNotificationRequest) error {
			notified <- req

			return nil
		})

	ctx := requestCtx("lect-1", "banda@cs.unza.zm", constant.RoleLecturer)
	_, err := svc.Cancel(ctx, "booking-1", dto.CancelBookingRequest{Reason: "schedule clash"})
	assert.NoError(t, err)

	select {
	case req := <-notified:
		assert.Equal(t, "lect-1", *req.UserID)
		assert.Equal(t, "Booking cancelled", req.Title)
		assert.Contains(t, req.Message, "schedule clash")
	case <-time.After(time.Second):
		t.Fatal("requester was not notified of the cancellation")
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockVenueRepo := venueMocks.NewMockVenue(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notifMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockVenueRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache miss, found in db",
			id:   "booking-1",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Title: "Research sync", MeetLink: stringPtr("https://meet.google.com/abc-defg-hij")}, nil)
			},
		},
		{
			name: "not found",
			id:   "ghost",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.id, res.ID)
		})
	}
}
