package service

import (
	"context"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingDto "hotel/internal/domains/booking/model/dto"
	bookingRepository "hotel/internal/domains/booking/repository"
	"hotel/internal/domains/customer/model"
	"hotel/internal/domains/customer/model/dto"
	"hotel/internal/domains/customer/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"

	"github.com/rs/zerolog/log"
)

type Customer interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, search string) (dto.GetCustomersResponse, error)
	Get(ctx context.Context, id string) (dto.CustomerResponse, error)
	Update(ctx context.Context, req dto.UpdateCustomerRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Customer
	bookings bookingRepository.Booking
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Customer, bookings bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Customer {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCustomerRequest) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	customer := req.ToModel(user)

	if err = s.repo.Insert(ctx, customer); err != nil {
		log.Error().Err(err).Msg("failed to create customer")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.FromModel(customer)

	s.invalidateLists(ctx)

	return res, nil
}

// searchFilter matches the term against name, email and phone.
func searchFilter(term string) gDto.FilterGroup {
	if term == constant.Empty {
		return gDto.FilterGroup{}
	}

	fields := []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail, model.FieldPhone}
	filters := make([]any, len(fields))

	for i, field := range fields {
		filters[i] = gDto.Filter{
			ArgName:  "search_" + field,
			Field:    field,
			Value:    term,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr, Filters: filters},
		},
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, search string) (res dto.GetCustomersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(model.TableName, model.FieldFirstName, model.FieldLastName, model.FieldEmail, constant.FieldCreatedAt)

	filter := searchFilter(search)
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllCustomer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customers")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count customers")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get customers")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customers to cache")
		}
	}()

	return res, nil
}

// Get returns the customer with their booking history, most recent stay first.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheGetCustomer, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customer")

		return res, nil
	}

	customer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	if customer.ID == constant.Empty {
		return res, failure.NotFound("customer not found") // nolint:wrapcheck
	}

	history, err := s.bookings.GetAll(ctx, gDto.QueryParams{
		SortBy:  bookingModel.TableName + "." + bookingModel.FieldCheckInDate,
		SortDir: gDto.SortDirDesc,
	}, shared.FilterByID(id, bookingModel.FieldCustomerID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer bookings")

		return res, gRepo.TranslateError(err, bookingModel.EntityName)
	}

	res.FromModel(customer)

	res.Bookings = make([]bookingDto.BookingResponse, len(history))
	for i, booking := range history {
		res.Bookings[i].FromModel(booking)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customer to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCustomerRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if customer exists")

		return gRepo.TranslateError(err, model.EntityName)
	}

	if !exist {
		return failure.NotFound("customer not found") // nolint:wrapcheck
	}

	fields := shared.TransformFields(req, user)
	if dob := dto.ParseDate(req.DateOfBirth); dob != nil {
		fields[model.FieldDateOfBirth] = *dob
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update customer")

		return gRepo.TranslateError(err, model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete is reserved for admins and refuses customers with any booking.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role != constant.RoleAdmin {
		return failure.Forbidden("only admins can delete customers") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if customer exists")

		return gRepo.TranslateError(err, model.EntityName)
	}

	if !exist {
		return failure.NotFound("customer not found") // nolint:wrapcheck
	}

	hasBookings, err := s.bookings.Exist(ctx, shared.FilterByID(id, bookingModel.FieldCustomerID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check customer bookings")

		return gRepo.TranslateError(err, bookingModel.EntityName)
	}

	if hasBookings {
		return failure.Conflict("customer has bookings and cannot be deleted") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete customer")

		return gRepo.TranslateError(err, model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(model.CacheGetCustomer, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete customer cache")
		}
	}()

	s.invalidateLists(ctx)
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheGetAllCustomer)
		shared.InvalidateCaches(c, s.cache, model.CacheCountCustomer)
	}()
}
