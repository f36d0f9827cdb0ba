package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/config"
	"github.com/user/ems-go/dashboard"
	"github.com/user/ems-go/departments"
	_ "github.com/user/ems-go/docs" // Swagger spec registration
	"github.com/user/ems-go/logging"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// NewRouter wires the middleware chain and every route of the API.
//
// Order matters: RequestID must run before the request logger so each log line carries
// the id, and the panic recoverer sits inside the logger so recovered panics are logged
// with their 500 status.
func NewRouter(cfg *config.ServerConfig, logger *logrus.Logger, svc *Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSAllowedOrigins),
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteError(w, r, apperror.NewNotFoundError("Route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Success: false, Error: "Method not allowed"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusOK, HealthResponse{Success: true, Status: "ok"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	authHandlers := auth.NewHandlers(svc.Users, svc.Tokens)
	authenticate := auth.Authenticate(svc.Tokens, svc.Users)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandlers.HandleLogin())
		r.With(authenticate).Get("/verify", authHandlers.HandleVerify())
	})

	r.Route("/api/department", func(r chi.Router) {
		r.Use(authenticate)
		departments.NewDepartmentHandler(svc.Departments).RegisterRoutes(r)
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authenticate)
		dashboard.NewHandler(svc.Dashboard).RegisterRoutes(r)
	})

	return r
}

// recoverer turns a panic in a handler into a logged 500 "Server error" response.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				err := apperror.NewInternalError("panic recovered", fmt.Errorf("%v", rvr))
				logging.FromContext(r.Context()).WithField("stack", string(debug.Stack())).Error("handler panicked")
				auth.WriteError(w, r, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
