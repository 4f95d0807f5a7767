package router

import (
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/customer"
	"hotel/internal/handlers/hotelservice"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

const APIVersion = "/v1"

// mounter is implemented by every domain handler.
type mounter interface {
	Router(r chi.Router)
}

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Room         room.Handler
	Customer     customer.Handler
	HotelService hotelservice.Handler
	Booking      booking.Handler
}

func (d *DomainHandlers) mounters() []mounter {
	return []mounter{&d.Auth, &d.User, &d.Room, &d.Customer, &d.HotelService, &d.Booking}
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

// SetupRoutes mounts every domain under the versioned prefix.
func (r *Router) SetupRoutes(mux chi.Router) {
	mux.Route(APIVersion, func(v chi.Router) {
		for _, m := range r.DomainHandlers.mounters() {
			m.Router(v)
		}
	})
}
