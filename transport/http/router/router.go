package router

import (
	"smartmeet/internal/handlers/auth"
	"smartmeet/internal/handlers/booking"
	"smartmeet/internal/handlers/document"
	"smartmeet/internal/handlers/meet"
	"smartmeet/internal/handlers/notification"
	"smartmeet/internal/handlers/user"
	"smartmeet/internal/handlers/venue"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Venue        venue.Handler
	Booking      booking.Handler
	Notification notification.Handler
	Document     document.Handler
	Meet         meet.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Venue.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Document.Router(routerGroup)
		r.DomainHandlers.Meet.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
