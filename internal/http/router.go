package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/metrics"
)

type Options struct {
	Logger         *slog.Logger
	Verifier       *auth.Verifier
	AllowedOrigins []string
	// CloseRateLimit caps month close requests per client IP per minute.
	// Zero disables the limit.
	CloseRateLimit int
}

type Handlers struct {
	Slips      *fuelslip.Handler
	Import     *importcsv.Handler
	Closes     *closing.Handler
	Statements *statement.Handler
	Accounts   *account.Handler
	Fleet      *fleet.Handler
}

func New(opts Options, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logging.Middleware(opts.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.ActorHeader},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(opts.Verifier.Middleware)

		r.Route("/slips", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Slips.Routes(r)
		})

		r.Route("/import", v1.Import.Routes)

		r.Route("/closes", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			if opts.CloseRateLimit > 0 {
				r.Use(httprate.Limit(opts.CloseRateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						respond.Problem(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many month close requests")
					}),
				))
			}

			v1.Closes.Routes(r)
		})

		r.Route("/statements", v1.Statements.Routes)

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Accounts.Routes(r)
		})

		r.Route("/fleet", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Fleet.Routes(r)
		})
	})

	return router
}
