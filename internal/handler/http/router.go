package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lojaops/commission-backend-go/internal/handler/http/middleware"
	"github.com/lojaops/commission-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	commissionHandler CommissionHandler,
	env string,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "commission-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			// Sale workflow entry points
			r.Route("/sales/{saleID}/commissions", func(r chi.Router) {
				r.Post("/", commissionHandler.Generate)
				r.Post("/recalculate", commissionHandler.Recalculate)
				r.Post("/cancel", commissionHandler.Cancel)
			})

			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", commissionHandler.List)
				r.Get("/summary", commissionHandler.Summary)
				r.Get("/audit-log", commissionHandler.AuditLog)
				r.Get("/{id}", commissionHandler.Get)
				r.Get("/{id}/audit-log", commissionHandler.AuditLog)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/close-period", commissionHandler.ClosePeriod)
					r.Post("/mark-paid", commissionHandler.MarkPaid)
				})
			})
		})
	})
	return r
}
