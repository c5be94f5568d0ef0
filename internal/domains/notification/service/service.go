package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"smartmeet/config"
	"smartmeet/infras/kafka"
	"smartmeet/infras/otel"
	"smartmeet/internal/domains/notification/model"
	"smartmeet/internal/domains/notification/model/dto"
	"smartmeet/internal/domains/notification/repository"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
)

type Notification interface {
	Notify(ctx context.Context, req dto.CreateNotificationRequest) error
	NotifyMany(ctx context.Context, userIDs []string, title, message, notificationType string) error
	List(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetNotificationsResponse, error)
	UnreadCount(ctx context.Context, userID string) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type serviceImpl struct {
	repo  repository.Notification
	cfg   *config.Config
	otel  otel.Otel
	kafka kafka.Client
}

func New(repo repository.Notification, cfg *config.Config, otel otel.Otel, kafkaClient kafka.Client) Notification {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		otel:  otel,
		kafka: kafkaClient,
	}
}

// Notify appends a notification record. A nil UserID makes it a broadcast.
// The Kafka event is published best-effort; a broker failure never fails
// the caller.
func (s *serviceImpl) Notify(ctx context.Context, req dto.CreateNotificationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Notify")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = "system"
	}

	notification := req.ToModel(actor)

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Msg("failed to create notification")

		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.publishEvents(ctx, notification)

	return nil
}

// NotifyMany fans the same notification out to a set of users in one insert.
func (s *serviceImpl) NotifyMany(ctx context.Context, userIDs []string, title, message, notificationType string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NotifyMany")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(userIDs) == 0 {
		return nil
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = "system"
	}

	notifications := make([]model.Notification, len(userIDs))

	for i, userID := range userIDs {
		req := dto.CreateNotificationRequest{
			UserID:  &userID,
			Title:   title,
			Message: message,
			Type:    notificationType,
		}
		notifications[i] = req.ToModel(actor)
	}

	if err = s.repo.InsertBulk(ctx, notifications); err != nil {
		log.Error().Err(err).Msg("failed to create notifications")

		return fmt.Errorf("failed to create notifications: %w", err)
	}

	s.publishEvents(ctx, notifications...)

	return nil
}

// publishEvents pushes notification events to the broker. The writer is
// async and errors are swallowed so a broker outage never blocks callers.
func (s *serviceImpl) publishEvents(ctx context.Context, notifications ...model.Notification) {
	messages := make([]kafka.Message, len(notifications))
	for i, notification := range notifications {
		messages[i] = kafka.Message{
			Key:   notification.ID,
			Value: dto.EventFromModel(notification),
		}
	}

	if err := s.kafka.SendMessages(context.WithoutCancel(ctx), constant.KafkaTopicNotifications, messages...); err != nil {
		log.Error().Err(err).Msg("failed to publish notification events")
	}
}

func (s *serviceImpl) List(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAllForUser(ctx, userID, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context, userID string) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UnreadCount")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	res.UnreadCount = count

	return res, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds.
func (s *serviceImpl) MarkRead(ctx context.Context, notificationID, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    notificationID,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldUserID,
						Operator: gDto.FilterOperatorEq,
						Value:    userID,
						Table:    model.TableName,
					},
					gDto.Filter{
						Field:    model.FieldUserID,
						Operator: gDto.FilterIsNull,
						Table:    model.TableName,
					},
				},
			},
		},
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if notification exists")

		return fmt.Errorf("failed to check if notification exists: %w", err)
	}

	if !exist {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	if err = s.repo.MarkRead(ctx, notificationID, userID); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
