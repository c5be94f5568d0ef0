package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"smartmeet/config"
	"smartmeet/infras/otel"
	"smartmeet/infras/s3"
	bookingModel "smartmeet/internal/domains/booking/model"
	bookingRepo "smartmeet/internal/domains/booking/repository"
	"smartmeet/internal/domains/document/model"
	"smartmeet/internal/domains/document/model/dto"
	"smartmeet/internal/domains/document/repository"
	"smartmeet/shared"
	"smartmeet/shared/cache"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

const (
	cacheGetAllDocument = "document:gets"
	cacheCountDocument  = "document:count"
)

type Document interface {
	Upload(ctx context.Context, req dto.UploadDocumentRequest) (dto.DocumentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDocumentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.DocumentResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Document
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(
	repo repository.Document,
	bookingRepository bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Document {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepository,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

// Upload stores the file in S3 and records its metadata. The uploaded
// object is removed again when the insert fails, so storage and metadata
// stay in sync.
func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadDocumentRequest) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.BookingID != nil {
		exists, err := s.bookingRepo.Exist(ctx, shared.FilterByID(*req.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking existence")

			return res, fmt.Errorf("failed to check booking existence: %w", err)
		}

		if !exists {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}
	}

	bucketName := s.cfg.External.S3.BucketName
	objectKey := uuid.NewString()

	parts := strings.Split(req.File.Filename, ".")
	if len(parts) > 1 {
		objectKey = fmt.Sprintf("%s.%s", objectKey, parts[len(parts)-1])
	}

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.FileData, req.File, objectKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document to S3")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	mimeType := req.File.Header.Get(constant.RequestHeaderContentType)
	document := req.ToModel(user, url, objectKey, mimeType, req.File.Size)

	if err = s.repo.Insert(ctx, document); err != nil {
		_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectKey)

		log.Error().Err(err).Msg("failed to create document")

		return res, fmt.Errorf("failed to create document: %w", err)
	}

	res.FromModel(document)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDocument)
		shared.InvalidateCaches(c, s.cache, cacheCountDocument)
	}()

	return res, nil
}

// GetAll lists documents the caller may see. Admins see everything;
// everyone else sees their own documents plus the public ones.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDocumentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.scopeToViewer(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDocument, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for documents")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count documents")

		return res, fmt.Errorf("failed to count documents: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get documents")

		return res, fmt.Errorf("failed to get documents: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save documents to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDocument, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for document count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count documents")

		return res, fmt.Errorf("failed to count documents: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save document count to cache")
		}
	}()

	return res, nil
}

// Get enforces visibility: owner, admin, public flag, or being the
// requester of the booking the document is attached to.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	document, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get document")

		return res, fmt.Errorf("failed to get document: %w", err)
	}

	if document.ID == constant.Empty {
		return res, failure.NotFound("document not found") // nolint:wrapcheck
	}

	allowed, err := s.canView(ctx, document)
	if err != nil {
		return res, err
	}

	if !allowed {
		return res, failure.Forbidden("you do not have access to this document") // nolint:wrapcheck
	}

	res.FromModel(document)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	document, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get document")

		return fmt.Errorf("failed to get document: %w", err)
	}

	if document.ID == constant.Empty {
		return failure.NotFound("document not found") // nolint:wrapcheck
	}

	if document.OwnerID != user && role != constant.RoleAdmin {
		return failure.Forbidden("only the owner or an admin can delete a document") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete document")

		return fmt.Errorf("failed to delete document: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.s3.DeleteFile(c, s.cfg.External.S3.BucketName, model.EntityName, document.ObjectKey); err != nil {
			log.Error().Err(err).Str("object_key", document.ObjectKey).Msg("failed to delete document from S3")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDocument)
		shared.InvalidateCaches(c, s.cache, cacheCountDocument)
	}()

	return nil
}

func (s *serviceImpl) canView(ctx context.Context, document model.Document) (bool, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if document.Public || document.OwnerID == user || role == constant.RoleAdmin {
		return true, nil
	}

	if document.BookingID == nil {
		return false, nil
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(*document.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for document access check")

		return false, fmt.Errorf("failed to get booking for document access check: %w", err)
	}

	return booking.RequesterID == user, nil
}

func (s *serviceImpl) scopeToViewer(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleAdmin {
		return filter
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	visibility := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{Field: model.FieldOwnerID, Value: user, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldPublic, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if bookingIDs := s.viewerBookingIDs(ctx, user); len(bookingIDs) > 0 {
		visibility.Filters = append(visibility.Filters,
			gDto.Filter{Field: model.FieldBookingID, Value: bookingIDs, Operator: gDto.FilterOperatorIn, Table: model.TableName})
	}

	filter.Filters = append(filter.Filters, visibility)

	return filter
}

// viewerBookingIDs lists the bookings the viewer requested so documents
// attached to them show up in listings, matching the per-document check.
// A lookup failure narrows the listing to owned and public documents.
func (s *serviceImpl) viewerBookingIDs(ctx context.Context, user string) []string {
	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldRequesterID, Value: user, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
		},
	}, bookingModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for document listing scope")

		return nil
	}

	ids := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		ids = append(ids, booking.ID)
	}

	return ids
}
