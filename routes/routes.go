package routes

import (
	"net/http"

	"vivenda/apartments"
	"vivenda/auth"
	"vivenda/booking"
	"vivenda/condos"
	"vivenda/middleware"
	"vivenda/places"
	"vivenda/posts"
	"vivenda/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/request-code", rl.Limit(auth.RequestCode))
	router.POST("/api/auth/verify-code", rl.Limit(auth.VerifyCode))
	router.GET("/api/auth/profile", middleware.Authenticate(auth.GetUserProfile))
}

func AddUserRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/users", middleware.Authenticate(middleware.RequireAdmin(auth.GetUsers)))
	router.GET("/api/users/:id", middleware.Authenticate(auth.GetUser))
	router.PUT("/api/profile/name", middleware.Authenticate(auth.UpdateUserName))
	router.PUT("/api/users/:id/admin", middleware.Authenticate(middleware.RequireAdmin(auth.ToggleUserAdmin)))
}

func AddCondominiumRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.POST("/api/condominiums", middleware.Authenticate(middleware.RequireAdmin(condos.CreateCondominium)))
	router.GET("/api/condominiums", middleware.Authenticate(condos.GetCondominiums))
	router.GET("/api/condominiums/:id", middleware.Authenticate(condos.GetCondominium))
	router.PUT("/api/condominiums/:id", middleware.Authenticate(middleware.RequireAdmin(condos.UpdateCondominium)))
	router.DELETE("/api/condominiums/:id", middleware.Authenticate(middleware.RequireAdmin(condos.DeleteCondominium)))
	router.GET("/api/condominiums/:id/apartments", middleware.Authenticate(condos.GetCondominiumApartments))
}

func AddApartmentRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.POST("/api/apartments", middleware.Authenticate(middleware.RequireAdmin(apartments.CreateApartment)))
	router.GET("/api/apartments", middleware.Authenticate(apartments.GetApartments))
	router.GET("/api/apartments/:id", middleware.Authenticate(apartments.GetApartment))
	router.PUT("/api/apartments/:id", middleware.Authenticate(middleware.RequireAdmin(apartments.UpdateApartment)))
	router.DELETE("/api/apartments/:id", middleware.Authenticate(middleware.RequireAdmin(apartments.DeleteApartment)))
	router.GET("/api/users/:id/apartments", middleware.Authenticate(apartments.GetUserApartments))
}

func AddPlaceRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.POST("/api/places", middleware.Authenticate(middleware.RequireAdmin(places.CreatePlace)))
	router.GET("/api/places", middleware.Authenticate(places.GetPlaces))
	router.GET("/api/places/:placeid", middleware.Authenticate(places.GetPlace))
	router.PUT("/api/places/:placeid", middleware.Authenticate(middleware.RequireAdmin(places.UpdatePlace)))
	router.DELETE("/api/places/:placeid", middleware.Authenticate(middleware.RequireAdmin(places.DeletePlace)))
	router.POST("/api/places/:placeid/images", middleware.Authenticate(middleware.RequireAdmin(places.UploadPlaceImage)))
	router.GET("/api/condominiums/:id/places", middleware.Authenticate(places.GetPlacesByCondominium))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/books", rl.Limit(middleware.Authenticate(booking.CreateBook)))
	router.GET("/api/books", middleware.Authenticate(booking.GetBooks))
	router.GET("/api/books/:id", middleware.Authenticate(booking.GetBook))
	router.PUT("/api/books/:id", rl.Limit(middleware.Authenticate(booking.UpdateBook)))
	router.DELETE("/api/books/:id", middleware.Authenticate(booking.DeleteBook))
	router.PUT("/api/books/:id/status", middleware.Authenticate(middleware.RequireAdmin(booking.UpdateBookStatus)))
	router.GET("/api/books/:id/receipt", middleware.Authenticate(booking.PrintBookReceipt))
	router.GET("/api/places/:placeid/books", middleware.Authenticate(booking.GetBooksByPlace))
	router.GET("/api/users/:id/books", middleware.Authenticate(booking.GetBooksByUser))
	router.GET("/api/condominiums/:id/books", middleware.Authenticate(booking.GetBooksByCondominium))
	router.GET("/api/availability", middleware.Authenticate(booking.CheckPlaceAvailability))
	router.GET("/ws/places/:placeid/books", middleware.Authenticate(booking.HandleBookingWS))
}

func AddPostRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/posts", rl.Limit(middleware.Authenticate(posts.CreatePost)))
	router.GET("/api/posts", middleware.Authenticate(posts.GetPosts))
	router.GET("/api/posts/:id", middleware.Authenticate(posts.GetPost))
	router.PUT("/api/posts/:id", middleware.Authenticate(posts.UpdatePost))
	router.DELETE("/api/posts/:id", middleware.Authenticate(posts.DeletePost))
}
