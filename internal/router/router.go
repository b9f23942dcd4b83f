package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "eldercare-reminders/internal/adapters/storage/memory"
	pg "eldercare-reminders/internal/adapters/storage/postgres"
	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/dashboard"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/settings"
	"eldercare-reminders/internal/domain/voice"
	"eldercare-reminders/internal/middleware"
	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/platform/validator"
	"eldercare-reminders/internal/ports/kv"

	_ "eldercare-reminders/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Tomas, preferencias e historial de voz. nil => in-memory.
	KV kv.Store

	Logger     logger.Logger
	Location   *time.Location
	DoseWindow time.Duration

	// Reloj para tests; por defecto time.Now en Location.
	Now func() time.Time
}

// Services agrupa los services ya cableados; main los reusa para los recordatorios.
type Services struct {
	Medications  *medications.Service
	Appointments *appointments.Service
	Settings     *settings.Service
	Voice        *voice.Service
	Dashboard    *dashboard.Service
	KV           kv.Store
}

func NewServices(opts Options) *Services {
	var (
		medRepo  medications.Repository
		apptRepo appointments.Repository
	)
	if opts.DB != nil {
		medRepo = pg.NewMedicationsRepo(opts.DB)
		apptRepo = pg.NewAppointmentsRepo(opts.DB)
	} else {
		medRepo = mem.NewMedicationRepo()
		apptRepo = mem.NewAppointmentRepo()
	}

	store := opts.KV
	if store == nil {
		store = mem.NewKVStore()
	}

	window := opts.DoseWindow
	if window <= 0 {
		window = medications.DefaultDoseWindow
	}

	now := opts.Now
	if now == nil {
		loc := opts.Location
		if loc == nil {
			loc = time.Local
		}
		now = func() time.Time { return time.Now().In(loc) }
	}

	medsSvc := medications.NewService(medRepo, medications.NewIntakeLog(store), window)
	medsSvc.SetClock(now)
	if opts.Logger != nil {
		medsSvc.SetLogger(opts.Logger.With(map[string]any{"component": "medications"}))
	}
	apptsSvc := appointments.NewService(apptRepo)
	apptsSvc.SetClock(now)

	return &Services{
		Medications:  medsSvc,
		Appointments: apptsSvc,
		Settings:     settings.NewService(store),
		Voice:        voice.NewService(medsSvc, apptsSvc, store),
		Dashboard:    dashboard.NewService(medsSvc, apptsSvc),
		KV:           store,
	}
}

func NewRouter(opts Options) http.Handler {
	return NewRouterWith(opts, NewServices(opts))
}

func NewRouterWith(opts Options, svcs *Services) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	v := validator.New()

	// Rutas por módulo
	medications.RegisterRoutes(r, svcs.Medications, v)
	appointments.RegisterRoutes(r, svcs.Appointments, v)
	settings.RegisterRoutes(r, svcs.Settings)
	voice.RegisterRoutes(r, svcs.Voice, v)
	dashboard.RegisterRoutes(r, svcs.Dashboard)

	return r
}
