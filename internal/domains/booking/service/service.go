package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"smartmeet/config"
	"smartmeet/infras/otel"
	"smartmeet/internal/domains/booking/model"
	"smartmeet/internal/domains/booking/model/dto"
	"smartmeet/internal/domains/booking/repository"
	notifDto "smartmeet/internal/domains/notification/model/dto"
	notifService "smartmeet/internal/domains/notification/service"
	userModel "smartmeet/internal/domains/user/model"
	userRepo "smartmeet/internal/domains/user/repository"
	venueModel "smartmeet/internal/domains/venue/model"
	venueRepo "smartmeet/internal/domains/venue/repository"
	"smartmeet/shared"
	"smartmeet/shared/cache"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
	"smartmeet/shared/meetlink"
	"smartmeet/shared/timerange"
	"smartmeet/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Request(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	venueRepo venueRepo.Venue
	userRepo  userRepo.User
	notifier  notifService.Notification
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	venueRepository venueRepo.Venue,
	userRepository userRepo.User,
	notifier notifService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		venueRepo: venueRepository,
		userRepo:  userRepository,
		notifier:  notifier,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Request admits a booking for a venue and day. The overlap check and the
// insert run in one transaction serialized per (venue, date), so two
// concurrent requests for the same slot cannot both pass. Admin requests
// are approved immediately; everyone else starts out pending.
func (s *serviceImpl) Request(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	venue, err := s.venueRepo.Get(ctx, shared.FilterByID(req.VenueID, venueModel.FieldID, venueModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get venue")

		return res, fmt.Errorf("failed to get venue: %w", err)
	}

	if venue.ID == constant.Empty {
		return res, failure.NotFound("venue not found") // nolint:wrapcheck
	}

	if !venue.Active {
		return res, failure.BadRequestFromString("venue is not available for booking") // nolint:wrapcheck
	}

	if err = s.validateSchedule(req.BookingDate, req.StartTime, req.EndTime); err != nil {
		return res, err
	}

	status := constant.BookingStatusPending
	if role == constant.RoleAdmin {
		status = constant.BookingStatusApproved
	}

	link := req.MeetLink
	if req.Type == constant.BookingTypeVirtual && link == nil {
		generated := meetlink.GenerateLink()
		link = &generated
	}

	booking := req.ToModel(user, email, status, link)

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.LockVenueDateTx(ctx, tx, booking.VenueID, booking.BookingDate); txErr != nil {
			return txErr
		}

		if txErr := s.checkConflictsTx(ctx, tx, booking, constant.Empty); txErr != nil {
			return txErr
		}

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		s.notifyRequested(c, booking)
	}()

	return res, nil
}

func (s *serviceImpl) validateSchedule(bookingDate, startTime, endTime string) error {
	start, err := timerange.ToMinutes(startTime)
	if err != nil {
		return err
	}

	end, err := timerange.ToMinutes(endTime)
	if err != nil {
		return err
	}

	if start >= end {
		return failure.BadRequestFromString("start_time must be before end_time") // nolint:wrapcheck
	}

	if end-start > s.cfg.Booking.MaxDurationMinutes {
		return failure.BadRequestFromString(
			fmt.Sprintf("booking duration exceeds the maximum of %d minutes", s.cfg.Booking.MaxDurationMinutes),
		) // nolint:wrapcheck
	}

	date, err := time.Parse(constant.CalendarDayFormat, bookingDate)
	if err != nil {
		return failure.BadRequestFromString("invalid booking_date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	today, _ := time.Parse(constant.CalendarDayFormat, timezone.Format(timezone.Now(), constant.CalendarDayFormat))

	if date.Before(today) {
		return failure.BadRequestFromString("booking_date must not be in the past") // nolint:wrapcheck
	}

	if date.After(today.AddDate(0, 0, s.cfg.Booking.WindowDays)) {
		return failure.BadRequestFromString(
			fmt.Sprintf("booking_date must be within %d days", s.cfg.Booking.WindowDays),
		) // nolint:wrapcheck
	}

	return nil
}

// checkConflictsTx compares the candidate against every booking still
// holding the slot (pending or approved) on the same venue and day.
// excludeID skips the candidate's own row on re-approval.
func (s *serviceImpl) checkConflictsTx(ctx context.Context, tx *sqlx.Tx, candidate model.Booking, excludeID string) error {
	filters := []any{
		gDto.Filter{Field: model.FieldVenueID, Value: candidate.VenueID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldBookingDate, Value: candidate.BookingDate, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{
			Field:    model.FieldStatus,
			Value:    []string{constant.BookingStatusPending, constant.BookingStatusApproved},
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	holders, err := s.repo.GetAllTx(ctx, tx, gDto.FilterGroup{Filters: filters})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for conflict check")

		return fmt.Errorf("failed to get bookings for conflict check: %w", err)
	}

	for _, holder := range holders {
		overlaps, err := timerange.Overlaps(candidate.StartTime, candidate.EndTime, holder.StartTime, holder.EndTime)
		if err != nil {
			return err
		}

		if overlaps {
			return failure.Conflict("venue is already booked for the requested time") // nolint:wrapcheck
		}
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// UpdateStatus moves a pending booking to approved or rejected. Approval
// re-runs the overlap check under the venue-date lock; on conflict the
// booking stays pending so the admin can pick another resolution.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusPending {
		return res, failure.InvalidTransition(
			fmt.Sprintf("cannot change status from %s to %s", booking.Status, req.Status),
		) // nolint:wrapcheck
	}

	updates := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.Status == constant.BookingStatusApproved {
		if booking.Type == constant.BookingTypeVirtual && booking.MeetLink == nil {
			link := meetlink.GenerateLink()
			booking.MeetLink = &link
			updates[model.FieldMeetLink] = link
		}

		err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
			if txErr := s.repo.LockVenueDateTx(ctx, tx, booking.VenueID, booking.BookingDate); txErr != nil {
				return txErr
			}

			if txErr := s.checkConflictsTx(ctx, tx, booking, booking.ID); txErr != nil {
				return txErr
			}

			return s.repo.UpdateTx(ctx, tx, updates, filter)
		})
	} else {
		err = s.repo.Update(ctx, updates, filter)
	}

	if err != nil {
		return res, err
	}

	booking.Status = req.Status
	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateBookingCaches(c, booking.ID)
		s.notifyDecision(c, booking)
	}()

	return res, nil
}

// Cancel releases a slot. Only the requester or an admin may cancel, and
// only while the booking is pending or approved.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.RequesterID != user && role != constant.RoleAdmin {
		return res, failure.Forbidden("only the requester or an admin can cancel a booking") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusPending && booking.Status != constant.BookingStatusApproved {
		return res, failure.InvalidTransition(
			fmt.Sprintf("cannot cancel a booking with status %s", booking.Status),
		) // nolint:wrapcheck
	}

	updates := map[string]any{
		model.FieldStatus:        constant.BookingStatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.Reason != constant.Empty {
		updates[model.FieldCancellationReason] = req.Reason
		booking.CancellationReason = &req.Reason
	}

	if err = s.repo.Update(ctx, updates, filter); err != nil {
		return res, err
	}

	booking.Status = constant.BookingStatusCancelled
	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateBookingCaches(c, booking.ID)
		s.notifyCancelled(c, booking, user)
	}()

	return res, nil
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to invalidate booking cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}

func (s *serviceImpl) notifyRequested(ctx context.Context, booking model.Booking) {
	title := "Booking approved"
	message := fmt.Sprintf("Your booking %q on %s (%s-%s) has been approved.",
		booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime)

	if booking.Status == constant.BookingStatusPending {
		title = "Booking received"
		message = fmt.Sprintf("Your booking %q on %s (%s-%s) is awaiting approval.",
			booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime)
	}

	if err := s.notifier.Notify(ctx, notifDto.CreateNotificationRequest{
		UserID:  &booking.RequesterID,
		Title:   title,
		Message: message,
		Type:    constant.NotificationTypeMeeting,
	}); err != nil {
		log.Error().Err(err).Msg("failed to notify requester")
	}

	if booking.Status != constant.BookingStatusPending {
		return
	}

	admins, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: userModel.FieldRole, Value: constant.RoleAdmin, Operator: gDto.FilterOperatorEq, Table: userModel.TableName},
			gDto.Filter{Field: userModel.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: userModel.TableName},
		},
	}, userModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get admins for booking notification")

		return
	}

	adminIDs := make([]string, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.ID)
	}

	if err := s.notifier.NotifyMany(ctx, adminIDs,
		"Booking awaiting approval",
		fmt.Sprintf("%s requested %q on %s (%s-%s).",
			booking.RequesterEmail, booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime),
		constant.NotificationTypeMeetingRequest,
	); err != nil {
		log.Error().Err(err).Msg("failed to notify admins")
	}
}

func (s *serviceImpl) notifyDecision(ctx context.Context, booking model.Booking) {
	message := fmt.Sprintf("Your booking %q on %s (%s-%s) has been %s.",
		booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime, booking.Status)

	if err := s.notifier.Notify(ctx, notifDto.CreateNotificationRequest{
		UserID:  &booking.RequesterID,
		Title:   fmt.Sprintf("Booking %s", booking.Status),
		Message: message,
		Type:    constant.NotificationTypeMeeting,
	}); err != nil {
		log.Error().Err(err).Msg("failed to notify requester")
	}
}

func (s *serviceImpl) notifyCancelled(ctx context.Context, booking model.Booking, actor string) {
	message := fmt.Sprintf("Your booking %q on %s (%s-%s) was cancelled.",
		booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime)

	if booking.RequesterID == actor {
		message = fmt.Sprintf("You cancelled your booking %q on %s (%s-%s).",
			booking.Title, booking.BookingDate, booking.StartTime, booking.EndTime)
	}

	if booking.CancellationReason != nil {
		message = fmt.Sprintf("%s Reason: %s", message, *booking.CancellationReason)
	}

	if err := s.notifier.Notify(ctx, notifDto.CreateNotificationRequest{
		UserID:  &booking.RequesterID,
		Title:   "Booking cancelled",
		Message: message,
		Type:    constant.NotificationTypeMeeting,
	}); err != nil {
		log.Error().Err(err).Msg("failed to notify requester")
	}
}
