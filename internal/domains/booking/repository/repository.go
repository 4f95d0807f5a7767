package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const dialect = "postgres"

var conflictColumns = []any{
	model.FieldID,
	model.FieldCustomerID,
	model.FieldRoomID,
	model.FieldCheckInDate,
	model.FieldCheckOutDate,
	model.FieldStatus,
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	// FindConflict returns the earliest active booking of roomID that overlaps stay, ignoring excludeID.
	FindConflict(ctx context.Context, roomID string, stay model.Stay, excludeID string) (model.Booking, bool, error)
	FindConflictTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, stay model.Stay, excludeID string) (model.Booking, bool, error)
}

type LineItem interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.LineItem) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.LineItem, error)
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

func NewLineItem(db *postgres.Connection, otel otel.Otel) LineItem {
	repo := gRepo.NewRepository[model.LineItem](model.LineItemEntityName, model.LineItemTableName, model.FieldLineItemID, db, otel)

	return &repo
}

func (r *repositoryImpl) FindConflict(ctx context.Context, roomID string, stay model.Stay, excludeID string) (model.Booking, bool, error) {
	return r.findConflict(ctx, r.db.Write, roomID, stay, excludeID)
}

func (r *repositoryImpl) FindConflictTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, stay model.Stay, excludeID string) (model.Booking, bool, error) {
	return r.findConflict(ctx, sqltx, roomID, stay, excludeID)
}

func (r *repositoryImpl) findConflict(ctx context.Context, q sqlx.QueryerContext, roomID string, stay model.Stay, excludeID string) (model.Booking, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflict")
	defer scope.End()

	var booking model.Booking

	query, args, err := conflictQuery(roomID, stay, excludeID)
	if err != nil {
		scope.TraceError(err)

		return booking, false, fmt.Errorf("failed to build conflict query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqlx.GetContext(ctx, q, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return booking, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return booking, false, fmt.Errorf("failed to find conflicting booking: %w", err)
	}

	return booking, true, nil
}

// conflictQuery selects active bookings of the room whose range intersects stay.
// Ranges are half-open so a check-out and a check-in on the same day do not collide.
func conflictQuery(roomID string, stay model.Stay, excludeID string) (string, []any, error) {
	where := []exp.Expression{
		goqu.C(model.FieldRoomID).Eq(roomID),
		goqu.C(model.FieldStatus).In(string(model.StatusConfirmed), string(model.StatusCheckedIn)),
		goqu.C(model.FieldCheckInDate).Lt(goqu.L("?::date", stay.CheckOutString())),
		goqu.C(model.FieldCheckOutDate).Gt(goqu.L("?::date", stay.CheckInString())),
	}

	if excludeID != "" {
		where = append(where, goqu.C(model.FieldID).Neq(excludeID))
	}

	return goqu.Dialect(dialect).
		From(model.TableName).
		Select(conflictColumns...).
		Where(where...).
		Order(goqu.C(model.FieldCheckInDate).Asc()).
		Limit(1).
		Prepared(true).
		ToSQL()
}
