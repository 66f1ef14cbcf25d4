package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	mw "github.com/DinithaNawanjana/paylanka-devops/internal/middleware"
)

func NewRouter(h *Handler, allowOrigins []string, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RecoverJSON(logger))
	r.Use(middleware.Logger)
	r.Use(mw.CORS(allowOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/payments", h.ListPayments)
		r.Post("/payments", h.CreatePayment)
		r.Delete("/payments/{id}", h.DeletePayment)
		r.Get("/summary", h.Summary)
	})

	return r
}
