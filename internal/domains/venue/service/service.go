package service

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"smartmeet/config"
	"smartmeet/infras/otel"
	bookingModel "smartmeet/internal/domains/booking/model"
	bookingRepo "smartmeet/internal/domains/booking/repository"
	notifDto "smartmeet/internal/domains/notification/model/dto"
	notifService "smartmeet/internal/domains/notification/service"
	"smartmeet/internal/domains/venue/model"
	"smartmeet/internal/domains/venue/model/dto"
	"smartmeet/internal/domains/venue/repository"
	"smartmeet/shared"
	"smartmeet/shared/cache"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
	"smartmeet/shared/timerange"
	"smartmeet/shared/timezone"
)

const (
	cacheGetVenue    = "venue:get"
	cacheGetAllVenue = "venue:gets"
	cacheCountVenue  = "venue:count"
)

type Venue interface {
	Create(ctx context.Context, req dto.CreateVenueRequest) (dto.VenueResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVenuesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VenueResponse, error)
	Update(ctx context.Context, req dto.UpdateVenueRequest, id string) error
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailableVenuesResponse, error)
}

type serviceImpl struct {
	repo        repository.Venue
	bookingRepo bookingRepo.Booking
	notifier    notifService.Notification
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Venue,
	bookingRepository bookingRepo.Booking,
	notifier notifService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Venue {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepository,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateVenueRequest) (res dto.VenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	venue := req.ToModel(user)

	if err = s.repo.Insert(ctx, venue); err != nil {
		log.Error().Err(err).Msg("failed to create venue")

		return res, fmt.Errorf("failed to create venue: %w", err)
	}

	res.FromModel(venue)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllVenue)
		shared.InvalidateCaches(c, s.cache, cacheCountVenue)

		if err := s.notifier.Notify(c, notifDto.CreateNotificationRequest{
			Title:   "New venue available",
			Message: fmt.Sprintf("%s (capacity %d) can now be booked.", venue.Name, venue.Capacity),
			Type:    constant.NotificationTypeVenue,
		}); err != nil {
			log.Error().Err(err).Msg("failed to broadcast venue notification")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVenuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVenue, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for venues")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count venues")

		return res, fmt.Errorf("failed to count venues: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get venues")

		return res, fmt.Errorf("failed to get venues: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save venues to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVenue, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for venue count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count venues")

		return res, fmt.Errorf("failed to count venues: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save venue count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetVenue, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for venue")

		return res, nil
	}

	venue, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get venue")

		return res, fmt.Errorf("failed to get venue: %w", err)
	}

	if venue.ID == constant.Empty {
		return res, failure.NotFound("venue not found") // nolint:wrapcheck
	}

	res.FromModel(venue)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save venue to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVenueRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check venue existence")

		return fmt.Errorf("failed to check venue existence: %w", err)
	}

	if !exists {
		return failure.NotFound("venue not found") // nolint:wrapcheck
	}

	updates := shared.TransformFields(req, user)

	// Facilities carries no db tag, the array needs the pq wrapper.
	if req.Facilities != nil {
		updates[model.FieldFacilities] = pq.StringArray(req.Facilities)
	}

	if err = s.repo.Update(ctx, updates, filter); err != nil {
		log.Error().Err(err).Msg("failed to update venue")

		return fmt.Errorf("failed to update venue: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateVenueCaches(c, id)
	}()

	return nil
}

// Delete retires a venue. A venue still holding upcoming pending or
// approved bookings is deactivated instead of removed, so those bookings
// keep a valid reference.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check venue existence")

		return fmt.Errorf("failed to check venue existence: %w", err)
	}

	if !exists {
		return failure.NotFound("venue not found") // nolint:wrapcheck
	}

	hasUpcoming, err := s.bookingRepo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldVenueID, Value: id, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []string{constant.BookingStatusPending, constant.BookingStatusApproved},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldBookingDate,
				Value:    timezone.Format(timezone.Now(), constant.CalendarDayFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check upcoming bookings")

		return fmt.Errorf("failed to check upcoming bookings: %w", err)
	}

	if hasUpcoming {
		err = s.repo.Update(ctx, map[string]any{
			model.FieldActive:        false,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, filter)
	} else {
		err = s.repo.Delete(ctx, filter)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete venue")

		return fmt.Errorf("failed to delete venue: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateVenueCaches(c, id)
	}()

	return nil
}

// ListAvailable returns active venues free for the whole requested window,
// treating pending bookings as holds.
func (s *serviceImpl) ListAvailable(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailableVenuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := timerange.ToMinutes(req.StartTime)
	if err != nil {
		return res, err
	}

	end, err := timerange.ToMinutes(req.EndTime)
	if err != nil {
		return res, err
	}

	if start >= end {
		return res, failure.BadRequestFromString("start_time must be before end_time") // nolint:wrapcheck
	}

	venueFilters := []any{
		gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if req.MinCapacity > 0 {
		venueFilters = append(venueFilters, gDto.Filter{
			Field:    model.FieldCapacity,
			Value:    req.MinCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	venues, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: "ASC"}, gDto.FilterGroup{Filters: venueFilters})
	if err != nil {
		log.Error().Err(err).Msg("failed to get venues")

		return res, fmt.Errorf("failed to get venues: %w", err)
	}

	holders, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldBookingDate, Value: req.Date, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []string{constant.BookingStatusPending, constant.BookingStatusApproved},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for availability")

		return res, fmt.Errorf("failed to get bookings for availability: %w", err)
	}

	busy := make(map[string]bool, len(venues))

	for _, holder := range holders {
		if busy[holder.VenueID] {
			continue
		}

		overlaps, err := timerange.Overlaps(req.StartTime, req.EndTime, holder.StartTime, holder.EndTime)
		if err != nil {
			return res, err
		}

		if overlaps {
			busy[holder.VenueID] = true
		}
	}

	available := make([]model.Venue, 0, len(venues))
	for _, venue := range venues {
		if !busy[venue.ID] {
			available = append(available, venue)
		}
	}

	res.FromModels(available)

	return res, nil
}

func (s *serviceImpl) invalidateVenueCaches(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetVenue, id)); err != nil {
		log.Error().Err(err).Msg("failed to invalidate venue cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllVenue)
	shared.InvalidateCaches(ctx, s.cache, cacheCountVenue)
}
