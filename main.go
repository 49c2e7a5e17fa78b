// File: clinicflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"clinicflow/config"
	"clinicflow/cron"
	"clinicflow/database"
	calendarRepo "clinicflow/database/repository/calendar"
	patientRepo "clinicflow/database/repository/patient"
	reminderRepo "clinicflow/database/repository/reminder"
	"clinicflow/handlers"
	"clinicflow/middleware"
	"clinicflow/routes"
	"clinicflow/services/notification"
	"clinicflow/services/patient"
	"clinicflow/services/reminder"
	"clinicflow/services/report"
	"clinicflow/services/scheduling"
	"clinicflow/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger(config.IsProduction())
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	calRepo := calendarRepo.NewMongoCalendarRepo()
	patRepo := patientRepo.NewMongoPatientRepo()
	planRepo := reminderRepo.NewMongoReminderRepo()

	// services.
	directory := patient.NewDirectoryService(patRepo, logger)
	finder := scheduling.NewSlotFinder(calRepo, config.AppConfig.SlotGranularityMinutes)
	manager := scheduling.NewBookingManager(calRepo, logger)
	orchestrator := scheduling.NewOrchestrator(finder, manager,
		config.AppConfig.BookingMaxAttempts, config.AppConfig.AutoConfirm, logger)
	reportService := report.NewService(calRepo)

	// Reminder delivery rides the async queue; the state machine below
	// only enqueues.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	notifier := notification.NewAsynqNotifier(asynqClient,
		config.AppConfig.ReminderMaxDeliveryAttempts, logger)

	scheduler := reminder.NewScheduler(planRepo, calRepo, notifier,
		time.Duration(config.AppConfig.ReminderGraceMinutes)*time.Minute,
		config.AppConfig.ReminderMaxDeliveryAttempts, logger)

	// The booking manager plans reminders on confirm; the scheduler
	// cancels bookings on a CANCEL reply. Wired after construction to
	// keep the packages independent.
	manager.SetReminderPlanner(scheduler)
	scheduler.SetCanceller(manager)

	// handlers.
	scheduleHandler := handlers.NewScheduleHandler(calRepo)
	bookingHandler := handlers.NewBookingHandler(directory, finder, manager, orchestrator,
		utils.GetSessionCacheClient(), config.AppConfig.AutoConfirm)
	reminderHandler := handlers.NewReminderHandler(scheduler, planRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	handlerBundle := &handlers.HandlerBundle{
		ImportScheduleHandler: scheduleHandler.ImportScheduleHandler,
		GetScheduleHandler:    scheduleHandler.GetScheduleHandler,

		StartSessionHandler: bookingHandler.StartSessionHandler,
		ConfirmSlotHandler:  bookingHandler.ConfirmSlotHandler,
		BookHandler:         bookingHandler.BookHandler,
		CancelHandler:       bookingHandler.CancelHandler,
		RescheduleHandler:   bookingHandler.RescheduleHandler,

		ReminderRespondHandler: reminderHandler.RespondHandler,
		GetReminderPlanHandler: reminderHandler.GetPlanHandler,

		FinalizedBookingsHandler: reportHandler.FinalizedBookingsHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background workers: the queue drain and the reminder tick.
	cron.InitDeliveryWorker(directory)

	tickCtx, stopTicker := context.WithCancel(context.Background())
	defer stopTicker()
	go cron.RunReminderTicker(tickCtx, scheduler,
		time.Duration(config.AppConfig.ReminderTickSeconds)*time.Second)

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

	stopTicker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
