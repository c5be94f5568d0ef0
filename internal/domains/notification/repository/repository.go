package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"smartmeet/infras/otel"
	"smartmeet/infras/postgres"
	"smartmeet/internal/domains/notification/model"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/logger"
	gRepo "smartmeet/shared/repository"
	"smartmeet/shared/timezone"
)

type Notification interface {
	Insert(ctx context.Context, model model.Notification) error
	InsertBulk(ctx context.Context, models []model.Notification) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Notification, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	GetAllForUser(ctx context.Context, userID string, params gDto.QueryParams) ([]model.NotificationWithRead, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetAllForUser returns the user's notifications plus broadcasts, newest
// first, each carrying its per-user read flag.
func (repo *repositoryImpl) GetAllForUser(ctx context.Context, userID string, params gDto.QueryParams) (models []model.NotificationWithRead, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.GetAllForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
		SELECT n.id, n.user_id, n.title, n.message, n.type,
		       n.created_at, n.modified_at, n.created_by, n.modified_by,
		       (nr.user_id IS NOT NULL) AS read
		FROM notifications n
		LEFT JOIN notification_reads nr
		       ON nr.notification_id = n.id AND nr.user_id = $1
		WHERE n.user_id = $1 OR n.user_id IS NULL
		ORDER BY n.created_at DESC`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := []any{userID}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, params.Limit)

		if params.Page > 0 {
			query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
			args = append(args, (params.Page-1)*params.Limit)
		}
	}

	if err = repo.db.Read.SelectContext(ctx, &models, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return models, fmt.Errorf("failed to get notifications for user: %w", err)
	}

	return models, nil
}

func (repo *repositoryImpl) CountForUser(ctx context.Context, userID string) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.CountForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT COUNT(id) FROM notifications WHERE user_id = $1 OR user_id IS NULL`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &count, query, userID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count notifications for user: %w", err)
	}

	return count, nil
}

func (repo *repositoryImpl) CountUnread(ctx context.Context, userID string) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.CountUnread")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
		SELECT COUNT(n.id)
		FROM notifications n
		WHERE (n.user_id = $1 OR n.user_id IS NULL)
		  AND NOT EXISTS (
			SELECT 1 FROM notification_reads nr
			WHERE nr.notification_id = n.id AND nr.user_id = $1
		  )`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &count, query, userID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead records the read receipt. Repeated calls are no-ops.
func (repo *repositoryImpl) MarkRead(ctx context.Context, notificationID, userID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
		INSERT INTO notification_reads (notification_id, user_id, read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (notification_id, user_id) DO NOTHING`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.ExecContext(ctx, query, notificationID, userID, timezone.Now()); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
