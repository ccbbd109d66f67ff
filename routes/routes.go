package routes

import (
	"net/http"

	"github.com/Amanzhol04/esports-portal/handlers"
	"github.com/Amanzhol04/esports-portal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Game         *handlers.GameHandler
	Registration *handlers.RegistrationHandler
	User         *handlers.UserHandler
	Dashboard    *handlers.DashboardHandler
	Export       *handlers.ExportHandler
	WebSocket    *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret []byte, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	// Публичные маршруты
	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/counts", h.Registration.CountsHandler)
		r.Get("/registered", h.Registration.RegisteredHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Post("/{tournamentID}/register", h.Registration.RegisterHandler)
	})
	router.Get("/games", h.Game.ListHandler)

	router.Post("/auth/callback", h.User.IdentityCallbackHandler)
	router.Get("/user/profile", h.User.ProfileHandler)

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	// Админка: логин открыт, остальное за JWT с ролью admin
	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Auth.LoginHandler)
		r.Post("/logout", h.Auth.LogoutHandler)
		r.Get("/check", h.Auth.CheckHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("admin"))

			r.Get("/dashboard", h.Dashboard.OverviewHandler)
			r.Get("/users/count", h.User.CountHandler)

			r.Route("/tournaments", func(r chi.Router) {
				r.Get("/", h.Tournament.AdminListHandler)
				r.Post("/", h.Tournament.CreateHandler)
				r.Put("/{tournamentID}", h.Tournament.UpdateHandler)
				r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
				r.Post("/{tournamentID}/image", h.Tournament.UploadImageHandler)
				r.Get("/{tournamentID}/registrations", h.Registration.ListByTournamentHandler)
				r.Get("/{tournamentID}/registrations/export", h.Export.ExportHandler)
			})

			r.Route("/games", func(r chi.Router) {
				r.Get("/", h.Game.ListHandler)
				r.Post("/", h.Game.CreateHandler)
				r.Put("/{gameID}", h.Game.UpdateHandler)
				r.Delete("/{gameID}", h.Game.DeleteHandler)
				r.Post("/{gameID}/image", h.Game.UploadImageHandler)
			})
		})
	})
}
