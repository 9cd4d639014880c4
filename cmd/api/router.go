package main

import (
	"fmt"
	"net/http"

	"github.com/crucial707/userposts/internal/config"
	"github.com/crucial707/userposts/internal/handlers"
	"github.com/crucial707/userposts/internal/middleware"
	"github.com/crucial707/userposts/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(conn repo.Connector, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(conn)
	postRepo := repo.NewPostRepo(conn)

	userHandler := &handlers.UserHandler{Repo: userRepo, PostRepo: postRepo}
	postHandler := &handlers.PostHandler{Repo: postRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIPRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustProxy).Middleware)
		r.Use(middleware.MaxBytes(int64(cfg.MaxBodyBytes)))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/by-username/{username}", userHandler.GetUserByUsername)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.UpdateUser)
				r.Delete("/", userHandler.DeleteUser)

				r.Get("/posts", userHandler.ListUserPosts)
				r.Get("/posts/count", userHandler.CountUserPosts)
				r.Delete("/posts", userHandler.DeleteUserPosts)
			})
		})

		r.Get("/usernames/{username}", userHandler.UsernameExists)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.Post("/", postHandler.CreatePost)
			r.Get("/{id}", postHandler.GetPost)
			r.Put("/{id}", postHandler.UpdatePost)
			r.Delete("/{id}", postHandler.DeletePost)
		})
	})

	return r
}
