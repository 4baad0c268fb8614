package routes

import (
	"net/http"

	"github.com/evolutionflow/admin-bff/api/controllers"
	"github.com/evolutionflow/admin-bff/api/middleware"
	"github.com/evolutionflow/admin-bff/internal/app"
	"github.com/evolutionflow/admin-bff/internal/auth"
	"github.com/evolutionflow/admin-bff/internal/contacts"
	"github.com/evolutionflow/admin-bff/internal/schedules"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
	pkgredis "github.com/evolutionflow/admin-bff/pkg/redis"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the admin API is built from.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Services    *app.Services
	Auth        auth.Service
	Idempotency pkgredis.IdempotencyStore
	RateLimit   middleware.RateLimitStore
	Readiness   map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(d Deps) (http.Handler, error) {
	cfg, logg, svc := d.Config, d.Logger, d.Services
	pageSize := cfg.ListView.PageSize

	proxy, err := controllers.BackendProxy(cfg.Backend.URL, logg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.App.AdminPath, http.StatusFound)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	authMW := middleware.Auth(cfg.JWT, d.Auth, logg)

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.RateLimit, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
		r.With(authMW).Get("/me", controllers.AuthMe(d.Auth, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Handle(controllers.ProxyPrefix+"/*", proxy)

		r.Route("/api/admin/v1", func(r chi.Router) {
			r.Use(middleware.Idempotency(d.Idempotency, logg))

			r.Get("/dashboard", controllers.Dashboard(svc.Dashboard, cfg.Cron.SnapshotMaxAge, logg))

			r.Route("/members", func(r chi.Router) {
				r.Get("/", controllers.MemberList(svc.Members, pageSize, logg))
				r.Get("/stats", controllers.MemberStats(svc.Members, logg))
				r.Get("/{id}", controllers.MemberDetail(svc.Members, logg))
				r.Patch("/{id}", controllers.MemberUpdate(svc.Members, logg))
				r.Delete("/{id}", controllers.MemberDelete(svc.Members, logg))
				r.Put("/{id}/status", controllers.MemberStatus(svc.Members, logg))
				r.Get("/{id}/activity", controllers.MemberActivity(svc.Members, logg))
			})

			r.Route("/instructors", func(r chi.Router) {
				r.Get("/", controllers.InstructorList(svc.Instructors, pageSize, logg))
				r.Post("/new", controllers.InstructorCreate(svc.Instructors, logg))
				r.Get("/{code}", controllers.InstructorDetail(svc.Instructors, logg))
				r.Patch("/{code}", controllers.InstructorUpdate(svc.Instructors, logg))
				r.Delete("/{code}", controllers.InstructorDelete(svc.Instructors, logg))
				r.Put("/{code}/visibility", controllers.InstructorVisibility(svc.Instructors, logg))
			})

			r.Route("/workshops", func(r chi.Router) {
				r.Get("/", controllers.WorkshopList(svc.Workshops, pageSize, logg))
				r.Post("/", controllers.WorkshopCreate(svc.Workshops, logg))
				r.Get("/{id}", controllers.WorkshopDetail(svc.Workshops, logg))
				r.Patch("/{id}", controllers.WorkshopUpdate(svc.Workshops, logg))
				r.Delete("/{id}", controllers.WorkshopDelete(svc.Workshops, logg))
				r.Put("/{id}/status", controllers.WorkshopStatus(svc.Workshops, logg))
				r.Put("/{id}/visibility", controllers.WorkshopVisibility(svc.Workshops, logg))
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", controllers.ScheduleList(svc.Schedules, schedules.ViewSchedules, pageSize, logg))
				r.Post("/", controllers.ScheduleCreate(svc.Schedules, logg))
				r.Get("/{id}", controllers.ScheduleDetail(svc.Schedules, logg))
				r.Patch("/{id}", controllers.ScheduleUpdate(svc.Schedules, logg))
				r.Delete("/{id}", controllers.ScheduleDelete(svc.Schedules, logg))
				r.Put("/{id}/status", controllers.ScheduleStatus(svc.Schedules, logg))
			})
			r.Get("/events", controllers.ScheduleList(svc.Schedules, schedules.ViewEvents, pageSize, logg))

			r.Route("/studios", func(r chi.Router) {
				r.Get("/", controllers.StudioList(svc.Studios, pageSize, logg))
				r.Post("/", controllers.StudioCreate(svc.Studios, logg))
				r.Get("/{id}", controllers.StudioDetail(svc.Studios, logg))
				r.Patch("/{id}", controllers.StudioUpdate(svc.Studios, logg))
				r.Put("/{id}/status", controllers.StudioStatus(svc.Studios, logg))
			})

			r.Route("/inquiries", func(r chi.Router) {
				r.Get("/", controllers.ContactList(svc.Contacts, contacts.ViewInquiries, pageSize, logg))
				r.Put("/{id}/status", controllers.ContactStatus(svc.Contacts, logg))
			})
			r.Get("/partnerships", controllers.ContactList(svc.Contacts, contacts.ViewPartnerships, pageSize, logg))

			r.Route("/requests/{kind}", func(r chi.Router) {
				r.Get("/", controllers.RequestList(svc.Requests, pageSize, logg))
				r.Post("/{id}/approve", controllers.RequestApprove(svc.Requests, logg))
				r.Post("/{id}/reject", controllers.RequestReject(svc.Requests, logg))
			})

			r.Get("/audit", controllers.AuditList(svc.Audit, pageSize, logg))
		})
	})

	return r, nil
}
