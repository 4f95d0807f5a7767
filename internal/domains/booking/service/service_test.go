package service_test

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	otelMocks "hotel/infras/otel/mocks"
	pgMocks "hotel/infras/postgres/mocks"
	"hotel/internal/domains/booking/mocks"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	customerMocks "hotel/internal/domains/customer/mocks"
	customerModel "hotel/internal/domains/customer/model"
	catalogMocks "hotel/internal/domains/hotelservice/mocks"
	catalogModel "hotel/internal/domains/hotelservice/model"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomID     = "0b6f3c52-0f0a-4a43-9d1f-3f0f8c8f2a01"
	customerID = "5d1b8d0e-6a53-4c55-8e1b-7f1b7f4c9b02"
	bookingID  = "9a4a3b9e-2f2d-4f3b-a2a4-1c2d3e4f5a03"
	serviceID  = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e04"
	staffID    = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a05"
)

type deps struct {
	repo      *mocks.MockBooking
	items     *mocks.MockLineItem
	rooms     *roomMocks.MockRoom
	customers *customerMocks.MockCustomer
	catalog   *catalogMocks.MockHotelService
	tx        *pgMocks.MockTransactor
	kafka     *kafkaMocks.MockClient
	cache     *cacheMocks.MockRedisCache
	cfg       *config.Config
}

func newService(t *testing.T) (service.Booking, *deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := &deps{
		repo:      mocks.NewMockBooking(ctrl),
		items:     mocks.NewMockLineItem(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		customers: customerMocks.NewMockCustomer(ctrl),
		catalog:   catalogMocks.NewMockHotelService(ctrl),
		tx:        pgMocks.NewMockTransactor(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		cfg:       &config.Config{},
	}

	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(d.repo, d.items, d.rooms, d.customers, d.catalog, d.tx, d.kafka, d.cache, d.cfg, otelMocks.NewOtel())

	return svc, d
}

func (d *deps) expectTransaction() {
	d.tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		})
}

func staffContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, staffID)
}

func date(s string) time.Time {
	t, _ := time.Parse(constant.DateOnlyFormat, s)

	return t
}

func existingBooking(status model.Status, checkIn, checkOut string) model.Booking {
	return model.Booking{
		ID:           bookingID,
		CustomerID:   customerID,
		RoomID:       roomID,
		CheckInDate:  date(checkIn),
		CheckOutDate: date(checkOut),
		Adults:       2,
		Status:       status,
	}
}

func createRequest(checkIn, checkOut string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		CustomerID:   customerID,
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Adults:       2,
		TotalAmount:  300,
	}
}

func TestBookingService_CheckAvailability(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.AvailabilityRequest
		setupMock  func(d *deps)
		wantReason string
		available  bool
	}{
		{
			name: "free room",
			req:  dto.AvailabilityRequest{RoomID: roomID, CheckIn: "2024-06-10", CheckOut: "2024-06-12"},
			setupMock: func(d *deps) {
				d.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				d.repo.EXPECT().
					FindConflict(gomock.Any(), roomID, gomock.Any(), "").
					Return(model.Booking{}, false, nil)
			},
			available: true,
		},
		{
			name: "overlapping booking",
			req:  dto.AvailabilityRequest{RoomID: roomID, CheckIn: "2024-06-03", CheckOut: "2024-06-07"},
			setupMock: func(d *deps) {
				d.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				d.repo.EXPECT().
					FindConflict(gomock.Any(), roomID, gomock.Any(), "").
					Return(existingBooking(model.StatusConfirmed, "2024-06-01", "2024-06-05"), true, nil)
			},
		},
		{
			name:       "check out before check in",
			req:        dto.AvailabilityRequest{RoomID: roomID, CheckIn: "2024-06-12", CheckOut: "2024-06-10"},
			setupMock:  func(_ *deps) {},
			wantReason: failure.ReasonValidation,
		},
		{
			name:       "malformed date",
			req:        dto.AvailabilityRequest{RoomID: roomID, CheckIn: "12/06/2024", CheckOut: "2024-06-14"},
			setupMock:  func(_ *deps) {},
			wantReason: failure.ReasonValidation,
		},
		{
			name: "unknown room",
			req:  dto.AvailabilityRequest{RoomID: roomID, CheckIn: "2024-06-10", CheckOut: "2024-06-12"},
			setupMock: func(d *deps) {
				d.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "storage failure",
			req:  dto.AvailabilityRequest{RoomID: roomID, CheckIn: "2024-06-10", CheckOut: "2024-06-12"},
			setupMock: func(d *deps) {
				d.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				d.repo.EXPECT().
					FindConflict(gomock.Any(), roomID, gomock.Any(), "").
					Return(model.Booking{}, false, errors.New("connection reset"))
			},
			wantReason: failure.ReasonStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.CheckAvailability(staffContext(), tt.req)

			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.available, res.Available)

			if !tt.available {
				require.NotNil(t, res.Conflict)
				assert.Equal(t, bookingID, res.Conflict.BookingID)
				assert.Equal(t, "2024-06-01", res.Conflict.CheckInDate)
				assert.Equal(t, "2024-06-05", res.Conflict.CheckOutDate)
			}
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	customer := customerModel.Customer{ID: customerID, FirstName: "Ana", LastName: "Lima"}
	room := roomModel.Room{ID: roomID, RoomNumber: "101", Status: roomModel.StatusAvailable}

	t.Run("creates a confirmed booking", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.expectTransaction()
		gomock.InOrder(
			d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(room, nil),
			d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(model.Booking{}, false, nil),
			d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
					assert.Equal(t, model.StatusConfirmed, b.Status)
					assert.Equal(t, staffID, b.CreatedBy)
					assert.Equal(t, "2024-06-05", b.Stay().CheckInString())

					return nil
				}),
		)

		res, err := svc.Create(staffContext(), createRequest("2024-06-05", "2024-06-10"))

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
		assert.Equal(t, "101", res.RoomNumber)
		assert.Equal(t, "Ana Lima", res.CustomerName)
		assert.Equal(t, 5, res.Nights)
	})

	t.Run("same-day turnover is not a conflict", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.expectTransaction()
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(room, nil)
		d.repo.EXPECT().
			FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ string, stay model.Stay, _ string) (model.Booking, bool, error) {
				existing := existingBooking(model.StatusConfirmed, "2024-06-05", "2024-06-10")

				return existing, existing.Stay().Overlaps(stay), nil
			})
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-12"))

		require.NoError(t, err)
	})

	t.Run("overlap is rejected with the conflicting range", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.expectTransaction()
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(room, nil)
		d.repo.EXPECT().
			FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").
			Return(existingBooking(model.StatusCheckedIn, "2024-06-01", "2024-06-05"), true, nil)

		_, err := svc.Create(staffContext(), createRequest("2024-06-03", "2024-06-07"))

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, failure.ReasonRoomUnavailable, failure.GetReason(err))

		details := failure.GetDetails(err)
		assert.Equal(t, map[string]string{"check_in_date": "2024-06-03", "check_out_date": "2024-06-07"}, details["requested"])
		assert.Equal(t, map[string]string{
			"id":             bookingID,
			"check_in_date":  "2024-06-01",
			"check_out_date": "2024-06-05",
			"status":         string(model.StatusCheckedIn),
		}, details["conflicting_booking"])
	})

	t.Run("exclusion constraint backstop maps to room unavailable", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.expectTransaction()
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(room, nil)
		d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(model.Booking{}, false, nil)
		d.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: constant.PqErrorCodeExclusionViolation, Constraint: "bookings_no_overlap"}))

		_, err := svc.Create(staffContext(), createRequest("2024-06-03", "2024-06-07"))

		require.Error(t, err)
		assert.Equal(t, failure.ReasonRoomUnavailable, failure.GetReason(err))
		assert.Contains(t, failure.GetDetails(err), "requested")
	})

	t.Run("invalid range never touches storage", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-10"))

		require.Error(t, err)
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("missing party size is a validation error", func(t *testing.T) {
		svc, _ := newService(t)

		req := createRequest("2024-06-10", "2024-06-12")
		req.Adults = 0

		_, err := svc.Create(staffContext(), req)

		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{}, nil)

		_, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-12"))

		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, d := newService(t)

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.expectTransaction()
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(roomModel.Room{}, nil)

		_, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-12"))

		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
	})

	t.Run("line items are priced from the catalog", func(t *testing.T) {
		svc, d := newService(t)

		req := createRequest("2024-06-10", "2024-06-12")
		req.Services = []dto.LineItemRequest{{ServiceID: serviceID, Quantity: 3}}

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(catalogModel.HotelService{ID: serviceID, Name: "Breakfast", Category: "food", Price: 12.5, Active: true}, nil)
		d.expectTransaction()
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(room, nil)
		d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(model.Booking{}, false, nil)
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.items.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, item model.LineItem) error {
				assert.Equal(t, 37.5, item.TotalPrice)
				assert.Equal(t, 3, item.Quantity)

				return nil
			})

		res, err := svc.Create(staffContext(), req)

		require.NoError(t, err)
		require.Len(t, res.Services, 1)
		assert.Equal(t, 37.5, res.ServicesTotal)
	})

	t.Run("inactive catalog service", func(t *testing.T) {
		svc, d := newService(t)

		req := createRequest("2024-06-10", "2024-06-12")
		req.Services = []dto.LineItemRequest{{ServiceID: serviceID, Quantity: 1}}

		d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer, nil)
		d.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(catalogModel.HotelService{ID: serviceID, Name: "Spa", Active: false}, nil)

		_, err := svc.Create(staffContext(), req)

		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})
}

func TestBookingService_Create_PublishesEvent(t *testing.T) {
	svc, d := newService(t)
	d.cfg.Kafka.Enable = true
	d.cfg.Kafka.Topics.BookingEvents = "booking-events"

	published := make(chan kafka.Message, 1)

	d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
	d.expectTransaction()
	d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(roomModel.Room{ID: roomID}, nil)
	d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(model.Booking{}, false, nil)
	d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.kafka.EXPECT().
		SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			published <- messages[0]

			return nil
		})

	res, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-12"))
	require.NoError(t, err)

	select {
	case msg := <-published:
		assert.Equal(t, res.ID, msg.Key)

		event, ok := msg.Value.(model.Event)
		require.True(t, ok)
		assert.Equal(t, model.EventCreated, event.Type)
		assert.Equal(t, "2024-06-10", event.CheckInDate)
	case <-time.After(time.Second):
		t.Fatal("expected booking.created to be published")
	}
}

func TestBookingService_Transition(t *testing.T) {
	tests := []struct {
		name       string
		from       model.Status
		action     model.Action
		wantStatus model.Status
		wantRoom   roomModel.Status
	}{
		{"check in", model.StatusConfirmed, model.ActionCheckIn, model.StatusCheckedIn, roomModel.StatusOccupied},
		{"check out", model.StatusCheckedIn, model.ActionCheckOut, model.StatusCheckedOut, roomModel.StatusCleaning},
		{"cancel confirmed", model.StatusConfirmed, model.ActionCancel, model.StatusCancelled, ""},
		{"cancel checked in", model.StatusCheckedIn, model.ActionCancel, model.StatusCancelled, roomModel.StatusCleaning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)

			d.expectTransaction()
			lock := d.repo.EXPECT().
				GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(existingBooking(tt.from, "2024-06-10", "2024-06-12"), nil)
			update := d.repo.EXPECT().
				UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
					assert.Equal(t, string(tt.wantStatus), fields[model.FieldStatus])
					assert.Equal(t, staffID, fields[constant.FieldModifiedBy])

					return nil
				}).
				After(lock)

			if tt.wantRoom != "" {
				d.rooms.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, string(tt.wantRoom), fields[roomModel.FieldStatus])

						return nil
					}).
					After(update)
			}

			res, err := svc.Transition(staffContext(), bookingID, tt.action)

			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStatus), res.Booking.Status)
			assert.Equal(t, string(tt.from), res.PreviousStatus)
			assert.Equal(t, string(tt.wantRoom), res.RoomStatus)
		})
	}
}

func TestBookingService_Transition_Invalid(t *testing.T) {
	for _, from := range model.Statuses() {
		for _, action := range model.Actions() {
			if _, err := model.NextTransition(from, action); err == nil {
				continue
			}

			t.Run(string(from)+"/"+string(action), func(t *testing.T) {
				svc, d := newService(t)

				d.expectTransaction()
				d.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(existingBooking(from, "2024-06-10", "2024-06-12"), nil)

				_, err := svc.Transition(staffContext(), bookingID, action)

				require.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
				assert.Equal(t, failure.ReasonInvalidTransition, failure.GetReason(err))
				assert.Equal(t, map[string]any{
					"booking_id":     bookingID,
					"current_status": string(from),
					"action":         string(action),
				}, failure.GetDetails(err))
			})
		}
	}
}

func TestBookingService_Transition_RoomWriteFailureRollsBack(t *testing.T) {
	svc, d := newService(t)

	d.expectTransaction()
	d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(existingBooking(model.StatusConfirmed, "2024-06-10", "2024-06-12"), nil)
	d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.Transition(staffContext(), bookingID, model.ActionCheckIn)

	require.Error(t, err)
	assert.Equal(t, failure.ReasonStorage, failure.GetReason(err))
}

func TestBookingService_TransactionFailureIsStorage(t *testing.T) {
	adults := 3

	tests := []struct {
		name  string
		setup func(d *deps)
		call  func(svc service.Booking) error
	}{
		{
			name: "create",
			setup: func(d *deps) {
				d.customers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customerModel.Customer{ID: customerID}, nil)
			},
			call: func(svc service.Booking) error {
				_, err := svc.Create(staffContext(), createRequest("2024-06-10", "2024-06-12"))

				return err
			},
		},
		{
			name:  "transition",
			setup: func(*deps) {},
			call: func(svc service.Booking) error {
				_, err := svc.Transition(staffContext(), bookingID, model.ActionCheckIn)

				return err
			},
		},
		{
			name:  "update",
			setup: func(*deps) {},
			call: func(svc service.Booking) error {
				_, err := svc.Update(staffContext(), dto.UpdateBookingRequest{Adults: &adults}, bookingID)

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)

			tt.setup(d)
			d.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).Return(errors.New("driver: bad connection"))

			err := tt.call(svc)

			require.Error(t, err)
			assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
			assert.Equal(t, failure.ReasonStorage, failure.GetReason(err))
		})
	}
}

func TestBookingService_Transition_NotFound(t *testing.T) {
	svc, d := newService(t)

	d.expectTransaction()
	d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := svc.Transition(staffContext(), bookingID, model.ActionCheckIn)

	assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
}

func TestBookingService_Transition_UnknownAction(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Transition(staffContext(), bookingID, model.Action("upgrade"))

	assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
}

func TestBookingService_Update(t *testing.T) {
	newDate := func(s string) *string { return &s }

	t.Run("status is not editable", func(t *testing.T) {
		svc, _ := newService(t)

		status := string(model.StatusCheckedOut)
		_, err := svc.Update(staffContext(), dto.UpdateBookingRequest{Status: &status}, bookingID)

		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("terminal booking is frozen", func(t *testing.T) {
		svc, d := newService(t)

		adults := 3
		d.expectTransaction()
		d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingBooking(model.StatusCancelled, "2024-06-10", "2024-06-12"), nil)

		_, err := svc.Update(staffContext(), dto.UpdateBookingRequest{Adults: &adults}, bookingID)

		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
	})

	t.Run("moving dates excludes the booking itself", func(t *testing.T) {
		svc, d := newService(t)

		d.expectTransaction()
		d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingBooking(model.StatusConfirmed, "2024-06-10", "2024-06-12"), nil)
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(roomModel.Room{ID: roomID}, nil)
		d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), bookingID).Return(model.Booking{}, false, nil)
		d.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, date("2024-06-14"), fields[model.FieldCheckOutDate])
				assert.NotContains(t, fields, model.FieldStatus)

				return nil
			})

		res, err := svc.Update(staffContext(), dto.UpdateBookingRequest{CheckOutDate: newDate("2024-06-14")}, bookingID)

		require.NoError(t, err)
		assert.Equal(t, "2024-06-14", res.CheckOutDate)
		assert.Equal(t, 4, res.Nights)
	})

	t.Run("moving dates onto another booking", func(t *testing.T) {
		svc, d := newService(t)

		other := existingBooking(model.StatusConfirmed, "2024-06-12", "2024-06-15")
		other.ID = "other-booking"

		d.expectTransaction()
		d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingBooking(model.StatusConfirmed, "2024-06-10", "2024-06-12"), nil)
		d.rooms.EXPECT().LockTx(gomock.Any(), gomock.Any(), roomID).Return(roomModel.Room{ID: roomID}, nil)
		d.repo.EXPECT().FindConflictTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), bookingID).Return(other, true, nil)

		_, err := svc.Update(staffContext(), dto.UpdateBookingRequest{CheckOutDate: newDate("2024-06-14")}, bookingID)

		assert.Equal(t, failure.ReasonRoomUnavailable, failure.GetReason(err))
	})

	t.Run("reversed dates", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Update(staffContext(), dto.UpdateBookingRequest{
			CheckInDate:  newDate("2024-06-14"),
			CheckOutDate: newDate("2024-06-10"),
		}, bookingID)

		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})
}

func TestBookingService_AddService(t *testing.T) {
	catalogItem := catalogModel.HotelService{ID: serviceID, Name: "Airport pickup", Category: "transport", Price: 40, Active: true}

	t.Run("adds a priced line item", func(t *testing.T) {
		svc, d := newService(t)

		d.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogItem, nil)
		d.expectTransaction()
		d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingBooking(model.StatusCheckedIn, "2024-06-10", "2024-06-12"), nil)
		d.items.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.AddService(staffContext(), bookingID, dto.LineItemRequest{ServiceID: serviceID, Quantity: 2})

		require.NoError(t, err)
		assert.Equal(t, 40.0, res.UnitPrice)
		assert.Equal(t, 80.0, res.TotalPrice)
		assert.Equal(t, "Airport pickup", res.Name)
	})

	t.Run("terminal booking", func(t *testing.T) {
		svc, d := newService(t)

		d.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogItem, nil)
		d.expectTransaction()
		d.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(existingBooking(model.StatusCheckedOut, "2024-06-10", "2024-06-12"), nil)

		_, err := svc.AddService(staffContext(), bookingID, dto.LineItemRequest{ServiceID: serviceID, Quantity: 1})

		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
	})

	t.Run("unknown service", func(t *testing.T) {
		svc, d := newService(t)

		d.catalog.EXPECT().Get(gomock.Any(), gomock.Any()).Return(catalogModel.HotelService{}, nil)

		_, err := svc.AddService(staffContext(), bookingID, dto.LineItemRequest{ServiceID: serviceID, Quantity: 1})

		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	svc, d := newService(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingBooking(model.StatusConfirmed, "2024-06-10", "2024-06-12"), nil)
	d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.LineItem{
		{ID: "item-1", ServiceID: serviceID, Quantity: 2, UnitPrice: 10, TotalPrice: 20},
		{ID: "item-2", ServiceID: serviceID, Quantity: 1, UnitPrice: 5, TotalPrice: 5},
	}, nil)

	res, err := svc.Get(staffContext(), bookingID)

	require.NoError(t, err)
	assert.Len(t, res.Services, 2)
	assert.Equal(t, 25.0, res.ServicesTotal)
	assert.Equal(t, 2, res.Nights)
}

func TestBookingService_GetAll(t *testing.T) {
	svc, d := newService(t)

	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	d.repo.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "bookings.created_at", SortDir: gDto.SortDirDesc}, gomock.Any()).
		Return([]model.Booking{existingBooking(model.StatusConfirmed, "2024-06-10", "2024-06-12")}, nil)

	res, err := svc.GetAll(staffContext(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "status; DROP TABLE"}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Bookings, 1)
}
