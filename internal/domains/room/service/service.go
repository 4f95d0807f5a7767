package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	roomTypeModel "hotel/internal/domains/roomtype/model"
	roomTypeRepository "hotel/internal/domains/roomtype/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
	"hotel/shared/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	GetAvailable(ctx context.Context, req dto.AvailableRoomsRequest) (dto.AvailableRoomsResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) error
	UploadPhoto(ctx context.Context, req dto.UploadPhotoRequest, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Room
	roomTypes roomTypeRepository.RoomType
	bookings  bookingRepository.Booking
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
}

func New(repo repository.Room, roomTypes roomTypeRepository.RoomType, bookings bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:      repo,
		roomTypes: roomTypes,
		bookings:  bookings,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureRoomType(ctx, req.RoomTypeID); err != nil {
		return res, err
	}

	room := req.ToModel(user)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, model.CacheCountRoom)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(model.TableName, model.FieldRoomNumber, model.FieldFloor, model.FieldStatus, constant.FieldCreatedAt)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

// GetAvailable lists rooms free for the whole stay. It reads the bookings table directly and is never cached.
func (s *serviceImpl) GetAvailable(ctx context.Context, req dto.AvailableRoomsRequest) (res dto.AvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	stay, err := bookingModel.ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	rooms, err := s.repo.GetAvailable(ctx, stay.CheckIn, stay.CheckOut, req.RoomTypeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get available rooms")

		return res, gRepo.TranslateError(err, model.EntityName)
	}

	res.CheckIn = stay.CheckInString()
	res.CheckOut = stay.CheckOutString()
	res.Nights = stay.Nights()
	res.Rooms = make([]dto.RoomResponse, len(rooms))

	for i, room := range rooms {
		res.Rooms[i].FromModel(room)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Status != nil {
		return failure.Validation(model.FieldStatus, "room status is changed through the status endpoint") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureExists(ctx, id); err != nil {
		return err
	}

	if req.RoomTypeID != constant.Empty {
		if err = s.ensureRoomType(ctx, req.RoomTypeID); err != nil {
			return err
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return gRepo.TranslateError(err, model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

// UpdateStatus sets a housekeeping status. Marking a room available records when it was cleaned.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return err
	}

	status := model.Status(req.Status)
	if !status.ManuallySettable() {
		return failure.Validation(model.FieldStatus, fmt.Sprintf("status %s cannot be set manually", req.Status)) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureExists(ctx, id); err != nil {
		return err
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        string(status),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if status == model.StatusAvailable {
		fields[model.FieldLastCleaned] = now
	}

	if req.Notes != nil {
		fields[model.FieldNotes] = *req.Notes
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return gRepo.TranslateError(err, model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadPhoto(ctx context.Context, req dto.UploadPhotoRequest, id string) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadPhoto")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return url, gRepo.TranslateError(err, model.EntityName)
	}

	if current.ID == constant.Empty {
		return url, failure.NotFound("room not found") // nolint:wrapcheck
	}

	key := photoKey(id, req.Photo.Filename)

	url, err = s.s3.Put(ctx, s3.Object{
		Key:         key,
		ContentType: req.Photo.Header.Get(constant.RequestHeaderContentType),
		Body:        req.PhotoFile,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room photo")

		return constant.Empty, fmt.Errorf("failed to upload photo: %w", err)
	}

	fields := shared.TransformFields(struct{}{}, user)
	fields[model.FieldPhotoURL] = url

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to save room photo")

		s.removePhoto(ctx, url)

		return constant.Empty, gRepo.TranslateError(err, model.EntityName)
	}

	if current.PhotoURL != nil {
		s.removePhoto(ctx, *current.PhotoURL)
	}

	s.invalidate(ctx, id)

	return url, nil
}

// Delete refuses rooms that carry any booking, past or present.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return gRepo.TranslateError(err, model.EntityName)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	hasBookings, err := s.bookings.Exist(ctx, shared.FilterByID(id, bookingModel.FieldRoomID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room bookings")

		return gRepo.TranslateError(err, bookingModel.EntityName)
	}

	if hasBookings {
		return failure.Conflict("room has bookings and cannot be deleted") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return gRepo.TranslateError(err, model.EntityName)
	}

	if current.PhotoURL != nil {
		s.removePhoto(ctx, *current.PhotoURL)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ensureExists(ctx context.Context, id string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return gRepo.TranslateError(err, model.EntityName)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureRoomType(ctx context.Context, id string) error {
	exist, err := s.roomTypes.Exist(ctx, shared.FilterByID(id, roomTypeModel.FieldID, roomTypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room type exists")

		return gRepo.TranslateError(err, roomTypeModel.EntityName)
	}

	if !exist {
		return failure.NotFound("room type not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, model.CacheCountRoom)
	}()
}

// photoKey places a photo under rooms/{id}/ with a random name and the upload's extension.
func photoKey(id, filename string) string {
	return s3.ObjectKey(model.TableName, id, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

// removePhoto deletes the stored object behind url. Failures only leave an orphan object and are logged.
func (s *serviceImpl) removePhoto(ctx context.Context, url string) {
	key := s.s3.KeyFromURL(url)
	if key == constant.Empty {
		return
	}

	if err := s.s3.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete room photo")
	}
}
