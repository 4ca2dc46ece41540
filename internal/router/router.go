package router

import (
	"database/sql"
	"net/http"

	mem "vet-clinic-scheduling/internal/adapters/storage/memory"
	pg "vet-clinic-scheduling/internal/adapters/storage/postgres"
	_ "vet-clinic-scheduling/internal/docs"
	"vet-clinic-scheduling/internal/domain/appointments"
	"vet-clinic-scheduling/internal/domain/scheduling"
	"vet-clinic-scheduling/internal/middleware"
	"vet-clinic-scheduling/internal/platform/logger"
	"vet-clinic-scheduling/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB           *sql.DB
	TxMaxRetries int

	Logger        logger.Logger            // nil = descartar
	BusinessHours scheduling.BusinessHours // vacío = 09:00-18:00
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var repo appointments.Repository
	if opts.DB != nil {
		repo = pg.NewAppointmentsRepo(opts.DB, opts.TxMaxRetries)
	} else {
		repo = mem.NewAppointmentsRepo()
	}

	appointmentsSvc := appointments.NewService(repo)
	availabilitySvc := scheduling.NewAvailabilityService(repo, opts.BusinessHours)

	appointments.RegisterRoutes(r, appointmentsSvc, log)
	scheduling.RegisterRoutes(r, availabilitySvc)

	return r
}
