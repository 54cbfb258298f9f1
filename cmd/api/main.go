package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendly/attendance-backend-go/internal/config"
	appHTTP "github.com/attendly/attendance-backend-go/internal/handler/http"
	"github.com/attendly/attendance-backend-go/internal/handler/http/middleware"
	"github.com/attendly/attendance-backend-go/internal/pkg/cron"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/email"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/pkg/oauth"
	"github.com/attendly/attendance-backend-go/internal/pkg/sse"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	authService "github.com/attendly/attendance-backend-go/internal/service/auth"
	leaveService "github.com/attendly/attendance-backend-go/internal/service/leave"
	notificationService "github.com/attendly/attendance-backend-go/internal/service/notification"
	profileService "github.com/attendly/attendance-backend-go/internal/service/profile"
	summaryService "github.com/attendly/attendance-backend-go/internal/service/summary"
	userService "github.com/attendly/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()
	appMetrics := metrics.New()

	notifSvc := notificationService.NewNotificationService(notificationRepo, hub)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, notifSvc, appMetrics)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, userRepo, profileRepo, notifSvc, emailService, appMetrics)
	profileSvc := profileService.NewProfileService(profileRepo)
	summarySvc := summaryService.NewSummaryService(summaryRepo, attendanceRepo)
	userSvc := userService.NewUserService(db, userRepo, profileRepo, notifSvc, emailService, appMetrics)
	authSvc := authService.NewAuthService(userRepo, profileRepo, sessionRepo, jwtService, googleService)

	scheduler := cron.NewScheduler()
	cron.NewSummaryJobs(summarySvc).RegisterJobs(scheduler)
	cron.NewSessionJobs(sessionRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	roles := middleware.NewRoleMiddleware(profileRepo)

	router := appHTTP.NewRouter(cfg.App, jwtService, roles, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Profile:      appHTTP.NewProfileHandler(profileSvc),
		Summary:      appHTTP.NewSummaryHandler(summarySvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, jwtService, hub),
		Admin:        appHTTP.NewAdminHandler(attendanceSvc, userSvc),
		Manager:      appHTTP.NewManagerHandler(attendanceSvc),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
