package http

import (
	"log/slog"
	"os"

	"github.com/attendly/attendance-backend-go/internal/config"
	"github.com/attendly/attendance-backend-go/internal/handler/http/middleware"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Profile      ProfileHandler
	Summary      SummaryHandler
	Notification NotificationHandler
	Admin        AdminHandler
	Manager      ManagerHandler
}

func NewRouter(cfg config.AppConfig, jwtService jwt.Service, roles *middleware.RoleMiddleware, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendly"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Handle("/metrics", promhttp.Handler())

	// SSE stream authenticates with its own short-lived query token.
	r.Get("/api/v1/notifications/stream", h.Notification.Stream)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/login/oauth", func(r chi.Router) {
				r.Get("/google", h.Auth.GoogleLogin)
			})
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.GoogleCallback)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Post("/auth/change-password", h.Auth.ChangePassword)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.Profile.GetMe)
				r.Put("/", h.Profile.UpdateMe)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/check-out/undo", h.Attendance.UndoCheckOut)
				r.Post("/break/start", h.Attendance.StartBreak)
				r.Post("/break/end", h.Attendance.EndBreak)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.Submit)
				r.Get("/", h.Leave.ListMine)
				r.Post("/{requestID}/cancel", h.Leave.Cancel)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(roles.RequireManager)
					r.Get("/all", h.Leave.ListAll)
					r.Post("/{requestID}/approve", h.Leave.Approve)
					r.Post("/{requestID}/reject", h.Leave.Reject)
				})
			})

			r.Route("/summary", func(r chi.Router) {
				r.Get("/monthly", h.Summary.Monthly)
				r.Get("/yearly", h.Summary.Yearly)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/stream-token", h.Notification.StreamToken)
				r.Post("/{notificationID}/read", h.Notification.MarkRead)
				r.Post("/read-all", h.Notification.MarkAllRead)
			})

			// Admin user management
			r.Route("/users", func(r chi.Router) {
				r.Use(roles.RequireAdmin)
				r.Get("/", h.Admin.ListUsers)
				r.Put("/{userID}/role", h.Admin.UpdateUserRole)
				r.Put("/{userID}/active", h.Admin.SetUserActive)
			})
		})
	})

	// Original flat-JSON admin and manager endpoints, paths unchanged.
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

		r.Group(func(r chi.Router) {
			r.Use(roles.RequireAdmin)
			r.Get("/api/admin/attendance", h.Admin.GetAttendance)
			r.Put("/api/admin/attendance", h.Admin.UpsertAttendance)
			r.Delete("/api/admin/attendance", h.Admin.DeleteAttendance)
			r.Post("/api/admin/create-user", h.Admin.CreateUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(roles.RequireManager)
			r.Get("/api/manager/attendance", h.Manager.GetAttendance)
		})
	})

	return r
}
