package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dencare/config"
	"dencare/cron"
	"dencare/database"
	appointmentRepo "dencare/database/repository/appointment"
	dentistRepo "dencare/database/repository/dentist"
	maintenanceRepo "dencare/database/repository/maintenance"
	userRepoPkg "dencare/database/repository/user"
	"dencare/handlers"
	"dencare/middleware"
	"dencare/routes"
	"dencare/services/booking"
	"dencare/services/dentist"
	"dencare/services/tasks"
	"dencare/services/user"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	utils.RegisterValidations()

	mongoClient, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			logger.Sugar().Errorf("main: error disconnecting MongoDB: %v", err)
		}
	}()

	ledgerClient, err := utils.NewRedisClient(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisLedgerDB,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer ledgerClient.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	dbName := config.AppConfig.DatabaseName

	// repositories.
	dentRepo := dentistRepo.NewMongoDentistRepo(mongoClient, dbName)
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(mongoClient, dbName)
	userRepo := userRepoPkg.NewMongoUserRepo(mongoClient, dbName)
	maintRepo := maintenanceRepo.NewMongoMaintenanceRepo(mongoClient, dbName)

	// services.
	reminders := tasks.NewAsynqEnqueuer(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisQueueDB,
	)
	defer reminders.Close()

	userService := &user.DefaultUserService{Repo: userRepo}
	dentistService := &dentist.DefaultDentistService{Repo: dentRepo}
	bookingService := &booking.DefaultBookingService{
		DentistRepo:      dentRepo,
		ApptRepo:         apptRepo,
		Ledger:           booking.NewRedisLedger(ledgerClient),
		Reminders:        reminders,
		ReservationTTL:   time.Duration(config.AppConfig.ReservationTTLSeconds) * time.Second,
		AdminBypassLimit: config.AppConfig.AdminBypassApptLimit,
	}

	// The reclaimer owns its own subscription lifecycle.
	reclaimer := booking.NewReclaimer(ledgerClient, config.AppConfig.RedisLedgerDB)
	if err := reclaimer.Start(context.Background()); err != nil {
		logger.Sugar().Fatalf("main: failed to start reclaimer: %v", err)
	}

	reminderWorker := cron.InitReminderWorker()

	routes.RegisterRoutes(router, &routes.Deps{
		Auth:        handlers.NewAuthHandler(userService),
		Dentists:    handlers.NewDentistHandler(dentistService),
		Booking:     handlers.NewBookingHandler(bookingService),
		Admin:       handlers.NewAdminHandler(maintRepo),
		UserRepo:    userRepo,
		Maintenance: maintRepo,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	reclaimer.Stop()
	reminderWorker.Shutdown()

	logger.Sugar().Info("main: server stopped gracefully")
}
