package repository

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/shared/dto"
	"hotel/shared/model"
)

type stubRoom struct {
	ID         string `db:"id"`
	RoomNumber string `db:"room_number"`
	TypeName   string `db:"room_type_name" table:"room_types" column:"name"`
	Ignored    string
	Skipped    string `db:"-"`
	model.Metadata
}

func (stubRoom) GetJoinQuery() string {
	return "JOIN room_types ON room_types.id = rooms.room_type_id"
}

// newStubRepository has no live pools. Only code paths that stop before touching the database
// may run against it.
func newStubRepository() Repository[stubRoom] {
	return NewRepository[stubRoom]("room", "rooms", "id", &postgres.Connection{}, otelMocks.NewOtel())
}

func TestGetColumns(t *testing.T) {
	columns, insert := getColumns("rooms", reflect.TypeOf(stubRoom{}))

	wantInsert := []string{"id", "room_number", "created_at", "modified_at", "created_by", "modified_by"}
	if !reflect.DeepEqual(insert, wantInsert) {
		t.Errorf("expected insert columns %v, got %v", wantInsert, insert)
	}

	if len(columns) != 7 {
		t.Fatalf("expected 7 selectable columns, got %d", len(columns))
	}

	if got := columns[2].selector(); got != "room_types.name AS room_type_name" {
		t.Errorf("unexpected aliased selector %q", got)
	}
}

func TestSelectQuery(t *testing.T) {
	repo := newStubRepository()

	query := repo.selectQuery("WHERE rooms.id = :id", []string{"id", "room_number"})

	want := "SELECT rooms.id, rooms.room_number FROM rooms JOIN room_types ON room_types.id = rooms.room_type_id WHERE rooms.id = :id"
	if query != want {
		t.Errorf("expected %q, got %q", want, query)
	}
}

func TestInsertQuery(t *testing.T) {
	repo := newStubRepository()

	query := repo.insertQuery()

	if !strings.HasPrefix(query, "INSERT INTO rooms (id, room_number, created_at") {
		t.Errorf("unexpected insert query %q", query)
	}

	if !strings.Contains(query, "VALUES (:id, :room_number, :created_at") {
		t.Errorf("unexpected placeholders %q", query)
	}
}

func TestBuildWhereClause(t *testing.T) {
	repo := newStubRepository()

	where, args := repo.BuildWhereClause(context.Background(), dto.FilterGroup{})
	if where != "" || len(args) != 0 {
		t.Errorf("expected empty where clause, got %q %v", where, args)
	}

	where, args = repo.BuildWhereClause(context.Background(), dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{dto.Filter{Field: "id", Value: "r-1", Operator: dto.FilterOperatorEq, Table: "rooms"}},
	})

	if where != "WHERE (rooms.id = :id)" {
		t.Errorf("unexpected where clause %q", where)
	}

	if args["id"] != "r-1" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestUpdate_Guards(t *testing.T) {
	repo := newStubRepository()
	ctx := context.Background()

	err := repo.Update(ctx, map[string]any{}, dto.FilterGroup{})
	if !errors.Is(err, errEmptyUpdate) {
		t.Errorf("expected errEmptyUpdate, got %v", err)
	}

	err = repo.Update(ctx, map[string]any{"room_number": "101"}, dto.FilterGroup{})
	if !errors.Is(err, errRequiredFilter) {
		t.Errorf("expected errRequiredFilter, got %v", err)
	}

	err = repo.UpdateTx(ctx, nil, map[string]any{"room_number": "101"}, dto.FilterGroup{})
	if !errors.Is(err, errRequiredFilter) {
		t.Errorf("expected errRequiredFilter inside a transaction, got %v", err)
	}
}

func TestDelete_RequiresFilter(t *testing.T) {
	repo := newStubRepository()

	if err := repo.Delete(context.Background(), dto.FilterGroup{}); !errors.Is(err, errRequiredFilter) {
		t.Errorf("expected errRequiredFilter, got %v", err)
	}

	if err := repo.DeleteTx(context.Background(), nil, dto.FilterGroup{}); !errors.Is(err, errRequiredFilter) {
		t.Errorf("expected errRequiredFilter inside a transaction, got %v", err)
	}
}

func TestInsertBulk_Empty(t *testing.T) {
	repo := newStubRepository()

	if err := repo.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("expected empty bulk insert to be a no-op, got %v", err)
	}
}
