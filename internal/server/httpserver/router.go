package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.exposeMetrics {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/health", s.health)
	if s.exposeMetrics {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/cookie/login", s.login)
		r.Post("/forgot-password", s.forgotPassword)
		r.Post("/reset-password", s.resetPassword)
		r.With(s.loadUser, s.requireUser).Post("/cookie/logout", s.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.loadUser)

		r.Get("/", s.index)
		r.Get("/login", s.loginPage)
		r.Get("/register", s.registerPage)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/users/me", s.me)

			r.Get("/catalog", s.catalogPage)
			r.Post("/catalog/toggle/{paintID}", s.toggle)

			r.Get("/inventory", s.inventoryPage)
			r.Post("/inventory/status/{paintID}", s.cycleStatus)
			r.Post("/inventory/remove/{paintID}", s.removeFromInventory)

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", s.recipeList)
				r.Post("/", s.recipeCreate)
				r.Get("/new", s.recipeNew)
				r.Post("/new", s.recipeCreate)
				r.Get("/paint-search", s.paintSearch)
				r.Get("/{id}", s.recipeDetail)
				r.Post("/{id}", s.recipeUpdate)
				r.Get("/{id}/edit", s.recipeEdit)
				r.Post("/{id}/edit", s.recipeUpdate)
				r.Post("/{id}/delete", s.recipeDelete)
			})
		})
	})

	return r
}
