package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const (
	dialect = "postgres"

	bookingsTable = "bookings"
)

// activeBookingStatuses mirrors the booking statuses that hold a room.
var activeBookingStatuses = []any{"confirmed", "checked_in"}

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// LockTx reads the room and holds its row lock until sqltx ends. A missing room yields a zero value.
	LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Room, error)
	// GetAvailable lists rooms out of maintenance with no active booking intersecting [checkIn, checkOut).
	GetAvailable(ctx context.Context, checkIn, checkOut time.Time, roomTypeID string) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Room, error) {
	return r.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) GetAvailable(ctx context.Context, checkIn, checkOut time.Time, roomTypeID string) ([]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAvailable")
	defer scope.End()

	rooms := []model.Room{}

	query, args, err := r.availableQuery(checkIn, checkOut, roomTypeID)
	if err != nil {
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to build availability query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := sqlx.SelectContext(ctx, r.db.Write, &rooms, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to get available rooms: %w", err)
	}

	return rooms, nil
}

func (r *repositoryImpl) availableQuery(checkIn, checkOut time.Time, roomTypeID string) (string, []any, error) {
	db := goqu.Dialect(dialect)

	taken := db.From(bookingsTable).
		Select(goqu.I(bookingsTable+".room_id")).
		Where(
			goqu.I(bookingsTable+".status").In(activeBookingStatuses...),
			goqu.I(bookingsTable+".check_in_date").Lt(goqu.L("?::date", checkOut.Format(constant.DateOnlyFormat))),
			goqu.I(bookingsTable+".check_out_date").Gt(goqu.L("?::date", checkIn.Format(constant.DateOnlyFormat))),
		)

	where := []exp.Expression{
		goqu.I(model.TableName + "." + model.FieldStatus).Neq(string(model.StatusMaintenance)),
		goqu.I(model.TableName + "." + model.FieldID).NotIn(taken),
	}

	if roomTypeID != "" {
		where = append(where, goqu.I(model.TableName+"."+model.FieldRoomTypeID).Eq(roomTypeID))
	}

	return db.From(model.TableName).
		Select(goqu.L(strings.Join(r.Columns(), ", "))).
		Join(goqu.T("room_types"), goqu.On(goqu.I("room_types.id").Eq(goqu.I(model.TableName+"."+model.FieldRoomTypeID)))).
		Where(where...).
		Order(goqu.I("room_types.base_price").Asc(), goqu.I(model.TableName+"."+model.FieldRoomNumber).Asc()).
		Prepared(true).
		ToSQL()
}
