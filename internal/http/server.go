package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/config"
	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", s.Health)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", s.Login)
			auth.Post("/demo-login", s.DemoLogin)
			auth.Post("/refresh", s.Refresh)

			auth.Group(func(authed chi.Router) {
				authed.Use(WithAuth(s.Tokens, s.DB))
				authed.Post("/logout", s.Logout)
				authed.Get("/me", s.Me)
				authed.Put("/change-password", s.ChangePassword)
			})
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(WithAuth(s.Tokens, s.DB))
			users.With(RequireRole(models.RoleAdmin)).Get("/", s.ListUsers)
			users.With(RequireRole(models.RoleAdmin)).Post("/", s.CreateUser)
			users.With(RequireAnyRole(models.RoleAdmin, models.RoleAcademicSupervisor, models.RoleIndustrialSupervisor)).
				Get("/by-role/{role}", s.UsersByRole)
			users.Get("/{userId}", s.GetUser)
			users.Put("/{userId}", s.UpdateUser)
			users.With(RequireRole(models.RoleAdmin)).Put("/{userId}/profile", s.UpdateStudentProfile)
			users.With(RequireRole(models.RoleAdmin)).Delete("/{userId}", s.DeleteUser)
		})

		api.Route("/log-entries", func(entries chi.Router) {
			entries.Use(WithAuth(s.Tokens, s.DB))
			entries.Get("/", s.ListLogEntries)
			entries.With(RequireRole(models.RoleStudent)).Post("/", s.CreateLogEntry)
			entries.Get("/student/{studentId}", s.StudentLogEntries)
			entries.Get("/{entryId}", s.GetLogEntry)
			entries.With(RequireRole(models.RoleStudent)).Put("/{entryId}", s.UpdateLogEntry)
			entries.Delete("/{entryId}", s.DeleteLogEntry)
		})

		api.Route("/weekly-reports", func(reports chi.Router) {
			reports.Use(WithAuth(s.Tokens, s.DB))
			reports.Get("/", s.ListReports)
			reports.With(RequireRole(models.RoleStudent)).Post("/", s.CreateReport)
			reports.With(RequireAnyRole(models.RoleAdmin, models.RoleAcademicSupervisor, models.RoleIndustrialSupervisor)).
				Get("/pending", s.PendingReports)
			reports.Get("/student/{studentId}", s.StudentReports)
			reports.Get("/{reportId}", s.GetReport)
			reports.With(RequireRole(models.RoleStudent)).Put("/{reportId}", s.UpdateReport)
			reports.With(RequireRole(models.RoleStudent)).Post("/{reportId}/submit", s.SubmitReport)
			reports.With(RequireAnyRole(models.RoleAdmin, models.RoleAcademicSupervisor)).
				Put("/{reportId}/review", s.ReviewReport)
			reports.With(RequireAnyRole(models.RoleAdmin, models.RoleIndustrialSupervisor)).
				Put("/{reportId}/industrial-comment", s.IndustrialComment)
			reports.Delete("/{reportId}", s.DeleteReport)
		})

		api.Route("/notifications", func(notifications chi.Router) {
			notifications.Use(WithAuth(s.Tokens, s.DB))
			notifications.Get("/", s.ListNotifications)
			notifications.Get("/unread-count", s.UnreadNotificationCount)
			notifications.With(RequireRole(models.RoleAdmin)).Post("/", s.CreateNotification)
			notifications.Put("/mark-all-read", s.MarkAllNotificationsRead)
			notifications.Get("/{notificationId}", s.GetNotification)
			notifications.Put("/{notificationId}/read", s.MarkNotificationRead)
			notifications.Delete("/{notificationId}", s.DeleteNotification)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens, s.DB))
			admin.Use(RequireRole(models.RoleAdmin))
			admin.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.Ping(); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
