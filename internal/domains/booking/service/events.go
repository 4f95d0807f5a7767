package service

import (
	"context"
	"hotel/infras/kafka"
	"hotel/internal/domains/booking/model"
	customerModel "hotel/internal/domains/customer/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"

	"github.com/rs/zerolog/log"
)

const headerEventType = "event_type"

// publish sends events once the transaction has committed. Delivery failures are logged and never
// undo the booking change.
func (s *serviceImpl) publish(ctx context.Context, events ...model.Event) {
	if !s.cfg.Kafka.Enable || len(events) == 0 {
		return
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{
			Key:     event.BookingID,
			Value:   event,
			Headers: map[string]string{headerEventType: event.Type},
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, messages...); err != nil {
			log.Error().Err(err).Str("topic", s.cfg.Kafka.Topics.BookingEvents).Msg("failed to publish booking events")
		}
	}()
}

// invalidateRoom drops cached reads of a room whose status changed as a side effect.
func (s *serviceImpl) invalidateRoom(ctx context.Context, roomID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(roomModel.CacheGetRoom, roomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, roomModel.CacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, roomModel.CacheCountRoom)
	}()
}

// invalidateCustomer drops the cached customer, whose response embeds the booking history.
func (s *serviceImpl) invalidateCustomer(ctx context.Context, customerID string) {
	if customerID == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(customerModel.CacheGetCustomer, customerID)); err != nil {
			log.Error().Err(err).Msg("failed to delete customer cache")
		}
	}()
}
