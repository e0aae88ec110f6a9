package routes

import (
	"vivenda/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddStaticRoutes(router, rateLimiter)
	AddAuthRoutes(router, rateLimiter)
	AddUserRoutes(router, rateLimiter)
	AddCondominiumRoutes(router, rateLimiter)
	AddApartmentRoutes(router, rateLimiter)
	AddPlaceRoutes(router, rateLimiter)
	AddBookingRoutes(router, rateLimiter)
	AddPostRoutes(router, rateLimiter)
}
