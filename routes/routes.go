package routes

import (
	"time"

	maintenanceRepo "dencare/database/repository/maintenance"
	userRepo "dencare/database/repository/user"
	"dencare/handlers"
	"dencare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth        *handlers.AuthHandler
	Dentists    *handlers.DentistHandler
	Booking     *handlers.BookingHandler
	Admin       *handlers.AdminHandler
	UserRepo    userRepo.UserRepository
	Maintenance maintenanceRepo.MaintenanceRepository
}

// RegisterRoutes wires the /api/v1 surface onto the router.
func RegisterRoutes(r *gin.Engine, d *Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	protect := middleware.Protect(d.UserRepo)
	gate := middleware.MaintenanceGate(d.Maintenance)
	adminOnly := middleware.Authorize("admin")

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/me", protect, d.Auth.Me)
		auth.GET("/logout", protect, d.Auth.Logout)
	}

	dentists := api.Group("/dentists")
	{
		dentists.GET("", d.Dentists.GetDentists)
		dentists.GET("/:id", d.Dentists.GetDentist)

		dentists.POST("", protect, adminOnly, d.Dentists.CreateDentist)
		dentists.PUT("/:id", protect, adminOnly, d.Dentists.UpdateDentist)
		dentists.DELETE("/:id", protect, adminOnly, d.Dentists.DeleteDentist)
		dentists.PUT("/:id/calendar", protect, adminOnly, d.Dentists.SetCalendar)

		// The reservation protocol: both phases gated on maintenance.
		dentists.POST("/:id/appointments/reserve", protect, gate, d.Booking.Reserve)
		dentists.POST("/:id/appointments/confirm", protect, gate, d.Booking.Confirm)
	}

	appointments := api.Group("/appointments", protect)
	{
		appointments.GET("", d.Booking.GetAppointments)
		appointments.GET("/:id", d.Booking.GetAppointment)
		appointments.PUT("/:id", gate, d.Booking.UpdateAppointment)
		appointments.DELETE("/:id", gate, d.Booking.DeleteAppointment)
	}

	admin := api.Group("/admin", protect, adminOnly)
	{
		admin.GET("/maintenance", d.Admin.GetMaintenance)
		admin.PUT("/maintenance", d.Admin.SetMaintenance)
	}
}
