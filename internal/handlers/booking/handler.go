package booking

import (
	"net/http"

	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryStatus     = "status"
	queryDateFrom   = "date_from"
	queryDateTo     = "date_to"
	queryCustomerID = "customer_id"
	queryRoomID     = "room_id"
	queryCheckIn    = "check_in"
	queryCheckOut   = "check_out"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/availability", handler.CheckAvailability)
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Patch("/{id}/checkin", handler.transition(model.ActionCheckIn))
		routerGroup.Patch("/{id}/checkout", handler.transition(model.ActionCheckOut))
		routerGroup.Patch("/{id}/cancel", handler.transition(model.ActionCancel))
		routerGroup.Post("/{id}/services", handler.AddService)
	})
}

// CheckAvailability reports whether a room is free for a stay.
// @Summary Check room availability
// @Description Check whether a room has no confirmed or checked-in booking overlapping the stay.
// @Tags Booking
// @Produce json
// @Param room_id query string true "Room ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/availability [get]
// @Security BearerAuth
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	query := r.URL.Query()
	req := dto.AvailabilityRequest{
		RoomID:   query.Get(queryRoomID),
		CheckIn:  query.Get(queryCheckIn),
		CheckOut: query.Get(queryCheckOut),
	}

	res, err := handler.service.CheckAvailability(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Create a confirmed booking. The room must be free for the whole stay.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "ROOM_UNAVAILABLE"
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists bookings.
// @Summary Get all bookings
// @Description Retrieve bookings with optional filters and pagination. date_from and date_to select stays that touch the range.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "confirmed, checked_in, checked_out or cancelled"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param customer_id query string false "Customer ID"
// @Param room_id query string false "Room ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter, err := bookingFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

func bookingFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if status := query.Get(queryStatus); status != constant.Empty {
		if !model.Status(status).Valid() {
			return filter, failure.Validation(queryStatus, "unknown booking status "+status) // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	for _, param := range []string{queryCustomerID, queryRoomID} {
		value := query.Get(param)
		if value == constant.Empty {
			continue
		}

		if err := validator.ValidateVar(value, "uuid"); err != nil {
			return filter, failure.Validation(param, param+" must be a valid UUID") // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{Field: param, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if from := query.Get(queryDateFrom); from != constant.Empty {
		if err := validator.ValidateVar(from, "date"); err != nil {
			return filter, failure.Validation(queryDateFrom, "date_from must be YYYY-MM-DD") // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName: queryDateFrom, Field: model.FieldCheckOutDate, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName,
		})
	}

	if to := query.Get(queryDateTo); to != constant.Empty {
		if err := validator.ValidateVar(to, "date"); err != nil {
			return filter, failure.Validation(queryDateTo, "date_to must be YYYY-MM-DD") // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName: queryDateTo, Field: model.FieldCheckInDate, Value: to, Operator: gDto.FilterOperatorLessEq, Table: model.TableName,
		})
	}

	return filter, nil
}

// GetBookingByID retrieves a booking with its service line items.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking edits dates, guests, amount or special requests.
// @Summary Update a booking
// @Description Status cannot be changed here. A date change re-checks availability.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, booking)
}

// transition serves the check-in, check-out and cancel endpoints.
// @Summary Move a booking through its lifecycle
// @Description checkin: confirmed to checked_in. checkout: checked_in to checked_out. cancel: confirmed or checked_in to cancelled.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.TransitionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "INVALID_TRANSITION"
// @Router /v1/bookings/{id}/checkin [patch]
// @Router /v1/bookings/{id}/checkout [patch]
// @Router /v1/bookings/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) transition(action model.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Transition")
		defer scope.End()

		scope.SetAttribute("booking.action", string(action))

		id := chi.URLParam(r, constant.RequestParamID)
		if err := validator.ValidateID(id); err != nil {
			response.WithError(w, err)

			return
		}

		res, err := handler.service.Transition(ctx, id, action)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("action", string(action)).Msg("failed to transition booking")

			response.WithError(w, err)

			return
		}

		user, _ := ctx.Value(constant.ContextKeyUserID).(string)
		scope.AddEvent("Booking " + string(action) + " by user " + user)

		response.WithJSON(w, http.StatusOK, res)
	}
}

// AddService adds a catalog service to a booking.
// @Summary Add a service line item
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.LineItemRequest true "Service and quantity"
// @Success 201 {object} response.Data[dto.LineItemResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/services [post]
// @Security BearerAuth
func (handler *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.LineItemRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	item, err := handler.service.AddService(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add service to booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, item)
}
