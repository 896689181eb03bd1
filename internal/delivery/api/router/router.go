// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"library/config"
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/router/handler"
	"library/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	BookHandler        *handler.BookHandler
	ReservationHandler *handler.ReservationHandler
	ReviewHandler      *handler.ReviewHandler
	ReportHandler      *handler.ReportHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Config             *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	userHandler        *handler.UserHandler
	bookHandler        *handler.BookHandler
	reservationHandler *handler.ReservationHandler
	reviewHandler      *handler.ReviewHandler
	reportHandler      *handler.ReportHandler
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		userHandler:        params.UserHandler,
		bookHandler:        params.BookHandler,
		reservationHandler: params.ReservationHandler,
		reviewHandler:      params.ReviewHandler,
		reportHandler:      params.ReportHandler,
		authMiddleware:     params.AuthMiddleware,
		config:             params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authenticate := r.authMiddleware.Authenticate
	requireAdmin := r.authMiddleware.RequireRole(entity.RoleAdmin)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth and member administration
	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.Me, authenticate)

		authGroup.GET("", r.userHandler.ListUsers, authenticate, requireAdmin)
		authGroup.GET("/:id", r.userHandler.GetUser, authenticate, requireAdmin)
		authGroup.PUT("/:id", r.userHandler.UpdateUser, authenticate, requireAdmin)
		authGroup.DELETE("/:id", r.userHandler.DeleteUser, authenticate, requireAdmin)
	}

	// Reservation lifecycle, always on behalf of the authenticated member
	reservationsGroup := e.Group("/api/reservations")
	reservationsGroup.Use(authenticate)
	{
		reservationsGroup.POST("/reserve", r.reservationHandler.Reserve)
		reservationsGroup.POST("/loan", r.reservationHandler.Loan)
		reservationsGroup.POST("/return", r.reservationHandler.Return)
		reservationsGroup.GET("/history", r.reservationHandler.History)
		reservationsGroup.GET("", r.reservationHandler.List)
		reservationsGroup.GET("/:id/qr", r.reservationHandler.PickupQR)
	}

	reviewsGroup := e.Group("/reviews")
	{
		reviewsGroup.POST("", r.reviewHandler.CreateReview, authenticate)
		reviewsGroup.GET("/:bookId", r.reviewHandler.ListReviews)
		reviewsGroup.DELETE("/:reviewId", r.reviewHandler.DeleteReview, authenticate)
	}

	// Catalog: reads are public, changes need the admin role
	booksGroup := e.Group("/books")
	{
		booksGroup.GET("", r.bookHandler.ListBooks)
		booksGroup.GET("/recent", r.bookHandler.RecentBooks)
		booksGroup.GET("/:id", r.bookHandler.GetBook)
		booksGroup.POST("", r.bookHandler.CreateBook, authenticate, requireAdmin)
		booksGroup.PUT("/:id", r.bookHandler.UpdateBook, authenticate, requireAdmin)
		booksGroup.DELETE("/:id", r.bookHandler.DeleteBook, authenticate, requireAdmin)
	}

	reportsGroup := e.Group("/api/reports")
	reportsGroup.Use(authenticate, requireAdmin)
	{
		reportsGroup.GET("/books", r.reportHandler.TopBooks)
		reportsGroup.GET("/users", r.reportHandler.TopUsers)
		reportsGroup.GET("/ratings", r.reportHandler.TopRated)
	}
}

// RegisterStaticRoutes serves locally stored covers. S3 covers are linked by absolute URL.
func (r *router) RegisterStaticRoutes(e *echo.Echo) {
	if r.config.Storage == nil {
		return
	}
	if r.config.Storage.Provider != "" && r.config.Storage.Provider != config.StorageProviderLocal {
		return
	}

	e.Static(r.config.Storage.Local.URLPrefix, r.config.Storage.Local.Dir)
}
