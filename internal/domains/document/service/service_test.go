package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"smartmeet/config"
	"smartmeet/infras/otel/mocks"
	s3Mocks "smartmeet/infras/s3/mocks"
	bookingMocks "smartmeet/internal/domains/booking/mocks"
	bookingModel "smartmeet/internal/domains/booking/model"
	documentMocks "smartmeet/internal/domains/document/mocks"
	"smartmeet/internal/domains/document/model"
	"smartmeet/internal/domains/document/model/dto"
	"smartmeet/internal/domains/document/service"
	cacheMocks "smartmeet/shared/cache/mocks"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

func stringPtr(s string) *string {
	return &s
}

func viewerCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func pdfHeader(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"application/pdf"}},
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := documentMocks.NewMockDocument(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "smartmeet"

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name      string
		req       dto.UploadDocumentRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "upload attached to a booking",
			req: dto.UploadDocumentRequest{
				BookingID: stringPtr("booking-1"),
				File:      pdfHeader("agenda.pdf", 2048),
			},
			setupMock: func() {
				mockBookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockS3.EXPECT().
					UploadFile(gomock.Any(), "smartmeet", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/document/abc.pdf", nil)
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, document model.Document) error {
						assert.Equal(t, "agenda.pdf", document.Name)
						assert.Equal(t, "application/pdf", document.MimeType)
						assert.Equal(t, int64(2048), document.Size)
						assert.False(t, document.Public)

						return nil
					})
			},
		},
		{
			name: "unknown booking",
			req: dto.UploadDocumentRequest{
				BookingID: stringPtr("ghost"),
				File:      pdfHeader("agenda.pdf", 2048),
			},
			setupMock: func() {
				mockBookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "uploaded object is removed when the insert fails",
			req: dto.UploadDocumentRequest{
				File: pdfHeader("notes.pdf", 1024),
			},
			setupMock: func() {
				mockS3.EXPECT().
					UploadFile(gomock.Any(), "smartmeet", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/document/def.pdf", nil)
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
				mockS3.EXPECT().
					DeleteFile(gomock.Any(), "smartmeet", model.EntityName, gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
		{
			name: "storage failure",
			req: dto.UploadDocumentRequest{
				File: pdfHeader("notes.pdf", 1024),
			},
			setupMock: func() {
				mockS3.EXPECT().
					UploadFile(gomock.Any(), "smartmeet", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Upload(viewerCtx("lect-1", constant.RoleLecturer), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "lect-1", res.OwnerID)
		})
	}
}

func TestDocumentService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := documentMocks.NewMockDocument(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	t.Run("listing includes documents of the viewer's bookings", func(t *testing.T) {
		mockBookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), bookingModel.FieldID).
			Return([]bookingModel.Booking{{ID: "booking-7"}}, nil)

		assertScoped := func(filter gDto.FilterGroup) {
			visibility, ok := filter.Filters[len(filter.Filters)-1].(gDto.FilterGroup)
			assert.True(t, ok)
			assert.Equal(t, gDto.FilterGroupOperatorOr, visibility.Operator)
			assert.Len(t, visibility.Filters, 3)

			bookingFilter, ok := visibility.Filters[2].(gDto.Filter)
			assert.True(t, ok)
			assert.Equal(t, model.FieldBookingID, bookingFilter.Field)
			assert.Equal(t, gDto.FilterOperatorIn, bookingFilter.Operator)
			assert.Equal(t, []string{"booking-7"}, bookingFilter.Value)
		}

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assertScoped(filter)

				return 1, nil
			})
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Document, error) {
				assertScoped(filter)

				return []model.Document{{ID: "doc-1", BookingID: stringPtr("booking-7")}}, nil
			})

		res, err := svc.GetAll(viewerCtx("lect-1", constant.RoleLecturer), gDto.QueryParams{}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Documents, 1)
	})

	t.Run("admin listing is not scoped", func(t *testing.T) {
		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)

				return 0, nil
			})
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Document{}, nil)

		_, err := svc.GetAll(viewerCtx("admin-1", constant.RoleAdmin), gDto.QueryParams{}, gDto.FilterGroup{})
		assert.NoError(t, err)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := documentMocks.NewMockDocument(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	privateDoc := model.Document{
		ID:        "doc-1",
		Name:      "minutes.pdf",
		OwnerID:   "lect-1",
		BookingID: stringPtr("booking-1"),
		Public:    false,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "owner can view",
			ctx:  viewerCtx("lect-1", constant.RoleLecturer),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(privateDoc, nil)
			},
		},
		{
			name: "admin can view",
			ctx:  viewerCtx("admin-1", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(privateDoc, nil)
			},
		},
		{
			name: "public document is visible to anyone",
			ctx:  viewerCtx("stud-9", constant.RoleStudent),
			setupMock: func() {
				public := privateDoc
				public.Public = true

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(public, nil)
			},
		},
		{
			name: "booking requester can view an attached document",
			ctx:  viewerCtx("staff-2", constant.RoleStaff),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(privateDoc, nil)
				mockBookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: "booking-1", RequesterID: "staff-2"}, nil)
			},
		},
		{
			name: "stranger is rejected",
			ctx:  viewerCtx("stud-9", constant.RoleStudent),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(privateDoc, nil)
				mockBookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: "booking-1", RequesterID: "staff-2"}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "unknown document",
			ctx:  viewerCtx("lect-1", constant.RoleLecturer),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Document{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(tt.ctx, "doc-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "doc-1", res.ID)
		})
	}
}

func TestDocumentService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := documentMocks.NewMockDocument(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "smartmeet"

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockS3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	doc := model.Document{ID: "doc-1", OwnerID: "lect-1", ObjectKey: "abc.pdf"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "owner deletes",
			ctx:  viewerCtx("lect-1", constant.RoleLecturer),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doc, nil)
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "admin deletes",
			ctx:  viewerCtx("admin-1", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doc, nil)
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "stranger cannot delete",
			ctx:  viewerCtx("stud-9", constant.RoleStudent),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doc, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(tt.ctx, "doc-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
