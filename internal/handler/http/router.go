package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/rgehrsitz/paygo/internal/handler/http/response"
)

// RouterConfig holds the transport-level options of the API
type RouterConfig struct {
	AllowedOrigins []string
	Version        string
	// LogOutput receives the JSON request log; nil means stdout
	LogOutput io.Writer
}

func NewRouter(cfg RouterConfig, payrollHandler PayrollHandler, statutoryHandler StatutoryHandler) *chi.Mux {
	r := chi.NewRouter()
	out := cfg.LogOutput
	if out == nil {
		out = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paygo"),
		slog.String("version", cfg.Version),
	)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payroll", func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/calculate", payrollHandler.Calculate)
		})

		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Get("/payslip", payrollHandler.EmployeePayslip)
			r.Get("/components", payrollHandler.EmployeeComponents)
		})

		r.Route("/statutory", func(r chi.Router) {
			r.Get("/policy", statutoryHandler.GetPolicy)
			r.Get("/minimum-wage/{region}", statutoryHandler.MinimumWage)

			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/contributions", statutoryHandler.Contributions)
				r.Post("/withholding-tax", statutoryHandler.WithholdingTax)
				r.Post("/premiums", statutoryHandler.Premiums)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
