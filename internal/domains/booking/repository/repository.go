package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smartmeet/infras/otel"
	"smartmeet/infras/postgres"
	"smartmeet/internal/domains/booking/model"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/logger"
	gRepo "smartmeet/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	LockVenueDateTx(ctx context.Context, tx *sqlx.Tx, venueID, bookingDate string) error
	GetAllTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.WithTransaction(ctx, fn) //nolint:wrapcheck
}

// LockVenueDateTx serializes concurrent admissions for the same venue and
// day. The advisory lock is scoped to the transaction and released on
// commit or rollback.
func (repo *repositoryImpl) LockVenueDateTx(ctx context.Context, tx *sqlx.Tx, venueID, bookingDate string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockVenueDateTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT pg_advisory_xact_lock(hashtext($1))`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.ExecContext(ctx, query, venueID+":"+bookingDate); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire venue-date lock: %w", err)
	}

	return nil
}
