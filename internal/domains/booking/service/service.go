package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	customerModel "hotel/internal/domains/customer/model"
	customerRepository "hotel/internal/domains/customer/repository"
	catalogModel "hotel/internal/domains/hotelservice/model"
	catalogRepository "hotel/internal/domains/hotelservice/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
	"hotel/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Transition(ctx context.Context, id string, action model.Action) (dto.TransitionResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	AddService(ctx context.Context, id string, req dto.LineItemRequest) (dto.LineItemResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	lineItems  repository.LineItem
	rooms      roomRepository.Room
	customers  customerRepository.Customer
	catalog    catalogRepository.HotelService
	transactor postgres.Transactor
	kafka      kafka.Client
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	lineItems repository.LineItem,
	rooms roomRepository.Room,
	customers customerRepository.Customer,
	catalog catalogRepository.HotelService,
	transactor postgres.Transactor,
	kafka kafka.Client,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		lineItems:  lineItems,
		rooms:      rooms,
		customers:  customers,
		catalog:    catalog,
		transactor: transactor,
		kafka:      kafka,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
	}
}

// CheckAvailability never reads from cache.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	stay, err := model.ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	exist, err := s.rooms.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return res, gRepo.TranslateError(err, roomModel.EntityName)
	}

	if !exist {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	conflict, found, err := s.repo.FindConflict(ctx, req.RoomID, stay, constant.Empty)
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to check availability")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res = dto.AvailabilityResponse{
		RoomID:    req.RoomID,
		CheckIn:   stay.CheckInString(),
		CheckOut:  stay.CheckOutString(),
		Nights:    stay.Nights(),
		Available: !found,
	}

	if found {
		res.Conflict = &dto.ConflictResponse{}
		res.Conflict.FromModel(conflict)
	}

	return res, nil
}

// Create locks the room row, re-checks for overlaps and inserts the booking with its line items in
// one transaction. Concurrent creates for the same room queue on the lock.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	stay, err := model.ParseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	customer, err := s.customers.Get(ctx, shared.FilterByID(req.CustomerID, customerModel.FieldID, customerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer")

		return res, gRepo.TranslateError(err, customerModel.EntityName)
	}

	if customer.ID == constant.Empty {
		return res, failure.NotFound("customer not found") // nolint:wrapcheck
	}

	services, err := s.catalogServices(ctx, req.Services)
	if err != nil {
		return res, err
	}

	booking := req.ToModel(user, stay)
	booking.CustomerFirstName = customer.FirstName
	booking.CustomerLastName = customer.LastName
	booking.CustomerEmail = customer.Email

	items := make([]model.LineItem, len(req.Services))
	for i, item := range req.Services {
		svc := services[item.ServiceID]

		items[i] = item.ToModel(user, booking.ID, svc.Price)
		items[i].ServiceName = svc.Name
		items[i].ServiceCategory = svc.Category
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		room, err := s.rooms.LockTx(ctx, tx, req.RoomID)
		if err != nil {
			return gRepo.TranslateError(err, roomModel.EntityName)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		conflict, found, err := s.repo.FindConflictTx(ctx, tx, req.RoomID, stay, constant.Empty)
		if err != nil {
			return gRepo.TranslateError(err, model.EntityName)
		}

		if found {
			return roomUnavailable(req.RoomID, stay, &conflict)
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return translate(err, model.EntityName, req.RoomID, stay)
		}

		for _, item := range items {
			if err := s.lineItems.InsertTx(ctx, tx, item); err != nil {
				return gRepo.TranslateError(err, model.LineItemEntityName)
			}
		}

		booking.RoomNumber = room.RoomNumber

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to create booking")

		return res, gRepo.TranslateError(err, model.EntityName) // nolint:wrapcheck
	}

	res.FromModel(booking)
	if len(items) > 0 {
		res.WithLineItems(items)
	}

	s.publish(ctx, model.NewEvent(model.EventCreated, booking, user, timezone.Now()))
	s.invalidateCustomer(ctx, booking.CustomerID)

	return res, nil
}

// Transition applies action to the booking and the room status it implies in one transaction.
// The booking row is locked before the room row.
func (s *serviceImpl) Transition(ctx context.Context, id string, action model.Action) (res dto.TransitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !action.Valid() {
		return res, failure.Validation("action", fmt.Sprintf("unknown action %q", action)) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	var (
		booking    model.Booking
		transition model.Transition
	)

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return gRepo.TranslateError(err, model.EntityName)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		next, err := model.NextTransition(current.Status, action)
		if err != nil {
			var invalid *model.InvalidTransitionError
			if errors.As(err, &invalid) {
				return invalidTransition(current.ID, invalid)
			}

			return err
		}

		bookingFields := map[string]any{
			model.FieldStatus:        string(next.To),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, bookingFields, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
			return gRepo.TranslateError(err, model.EntityName)
		}

		if next.RoomStatus != constant.Empty {
			roomFields := map[string]any{
				roomModel.FieldStatus:    string(next.RoomStatus),
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: user,
			}

			if err := s.rooms.UpdateTx(ctx, tx, roomFields, shared.FilterByID(current.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
				return gRepo.TranslateError(err, roomModel.EntityName)
			}
		}

		current.Status = next.To
		current.ModifiedAt = now
		current.ModifiedBy = user

		booking, transition = current, next

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Str("action", string(action)).Msg("failed to transition booking")

		return res, gRepo.TranslateError(err, model.EntityName) // nolint:wrapcheck
	}

	res.Booking.FromModel(booking)
	res.PreviousStatus = string(transition.From)
	res.RoomStatus = string(transition.RoomStatus)

	event := model.NewEvent(transition.EventType(), booking, user, now)
	event.PreviousStatus = transition.From
	event.RoomStatus = string(transition.RoomStatus)

	s.publish(ctx, event)
	s.invalidateCustomer(ctx, booking.CustomerID)

	if transition.RoomStatus != constant.Empty {
		s.invalidateRoom(ctx, booking.RoomID)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	items, err := s.lineItems.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.LineItemTableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}, shared.FilterByID(booking.ID, model.FieldLineItemBookingID, model.LineItemTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return res, gRepo.TranslateError(err, model.LineItemEntityName)
	}

	res.FromModel(booking)
	res.WithLineItems(items)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(model.TableName, model.FieldCheckInDate, model.FieldCheckOutDate, model.FieldStatus, model.FieldTotalAmount, constant.FieldCreatedAt)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Update never moves status. Changing the dates of a live booking re-runs the overlap check
// under the room lock, excluding the booking itself.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	if req.Status != nil {
		return res, failure.Validation(model.FieldStatus, "status changes only through check-in, check-out and cancel") // nolint:wrapcheck
	}

	if req.CheckInDate != nil && req.CheckOutDate != nil {
		if _, err = model.ParseStay(*req.CheckInDate, *req.CheckOutDate); err != nil {
			return res, err
		}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return gRepo.TranslateError(err, model.EntityName)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if current.Status.IsTerminal() {
			return failure.Conflict(fmt.Sprintf("booking is %s and can no longer be edited", current.Status)) // nolint:wrapcheck
		}

		fields := shared.TransformFields(req, user)

		if req.ChangesDates() {
			stay, err := s.reschedule(ctx, tx, current, req)
			if err != nil {
				return err
			}

			fields[model.FieldCheckInDate] = stay.CheckIn
			fields[model.FieldCheckOutDate] = stay.CheckOut

			current.CheckInDate = stay.CheckIn
			current.CheckOutDate = stay.CheckOut
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return translate(err, model.EntityName, current.RoomID, current.Stay())
		}

		req.Apply(&current)
		current.ModifiedAt, _ = fields[constant.FieldModifiedAt].(time.Time)
		current.ModifiedBy = user

		booking = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

		return res, gRepo.TranslateError(err, model.EntityName) // nolint:wrapcheck
	}

	res.FromModel(booking)

	s.invalidateCustomer(ctx, booking.CustomerID)

	return res, nil
}

func (s *serviceImpl) reschedule(ctx context.Context, tx *sqlx.Tx, current model.Booking, req dto.UpdateBookingRequest) (model.Stay, error) {
	checkIn, checkOut := current.Stay().CheckInString(), current.Stay().CheckOutString()
	if req.CheckInDate != nil {
		checkIn = *req.CheckInDate
	}

	if req.CheckOutDate != nil {
		checkOut = *req.CheckOutDate
	}

	stay, err := model.ParseStay(checkIn, checkOut)
	if err != nil {
		return stay, err
	}

	if _, err := s.rooms.LockTx(ctx, tx, current.RoomID); err != nil {
		return stay, gRepo.TranslateError(err, roomModel.EntityName)
	}

	conflict, found, err := s.repo.FindConflictTx(ctx, tx, current.RoomID, stay, current.ID)
	if err != nil {
		return stay, gRepo.TranslateError(err, model.EntityName)
	}

	if found {
		return stay, roomUnavailable(current.RoomID, stay, &conflict)
	}

	return stay, nil
}

// AddService charges a catalog service to a live booking at the current catalog price.
func (s *serviceImpl) AddService(ctx context.Context, id string, req dto.LineItemRequest) (res dto.LineItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	svc, err := s.activeService(ctx, req.ServiceID)
	if err != nil {
		return res, err
	}

	item := req.ToModel(user, id, svc.Price)
	item.ServiceName = svc.Name
	item.ServiceCategory = svc.Category

	var customerID string

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return gRepo.TranslateError(err, model.EntityName)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if booking.Status.IsTerminal() {
			return failure.Conflict(fmt.Sprintf("cannot add services to a booking that is %s", booking.Status)) // nolint:wrapcheck
		}

		if err := s.lineItems.InsertTx(ctx, tx, item); err != nil {
			return gRepo.TranslateError(err, model.LineItemEntityName)
		}

		customerID = booking.CustomerID

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to add booking service")

		return res, gRepo.TranslateError(err, model.LineItemEntityName) // nolint:wrapcheck
	}

	res.FromModel(item)

	s.invalidateCustomer(ctx, customerID)

	return res, nil
}

func (s *serviceImpl) catalogServices(ctx context.Context, items []dto.LineItemRequest) (map[string]catalogModel.HotelService, error) {
	services := make(map[string]catalogModel.HotelService, len(items))

	for _, item := range items {
		if _, ok := services[item.ServiceID]; ok {
			continue
		}

		svc, err := s.activeService(ctx, item.ServiceID)
		if err != nil {
			return nil, err
		}

		services[item.ServiceID] = svc
	}

	return services, nil
}

func (s *serviceImpl) activeService(ctx context.Context, id string) (catalogModel.HotelService, error) {
	svc, err := s.catalog.Get(ctx, shared.FilterByID(id, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return svc, gRepo.TranslateError(err, catalogModel.EntityName)
	}

	if svc.ID == constant.Empty {
		return svc, failure.NotFound("service not found") // nolint:wrapcheck
	}

	if !svc.Active {
		return svc, failure.Validation("service_id", fmt.Sprintf("service %s is not active", svc.Name)) // nolint:wrapcheck
	}

	return svc, nil
}
