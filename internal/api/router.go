package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-backend/internal/auth"
	"github.com/clinicore/clinic-backend/internal/billing"
	"github.com/clinicore/clinic-backend/internal/inventory"
	"github.com/clinicore/clinic-backend/internal/patient"
	"github.com/clinicore/clinic-backend/internal/schedule"
	"github.com/clinicore/clinic-backend/internal/staff"
)

type RouterConfig struct {
	Schedule  *schedule.Service
	Billing   *billing.Service
	Inventory *inventory.Service
	Patients  *patient.Service
	Staff     *staff.Service
	Auth      *auth.Manager
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Log       zerolog.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/auth/login", loginHandler(cfg.Auth))

	// Everything else requires a session
	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.Middleware(rejectAuth))
		adminOnly := auth.RequireRole(rejectAuth, staff.RoleAdmin)

		r.Post("/auth/logout", logoutHandler(cfg.Auth))

		r.Post("/appointments", bookAppointmentHandler(cfg.Schedule))
		r.Get("/appointments", listAppointmentsHandler(cfg.Schedule))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Schedule))
		r.Post("/appointments/{id}/confirm", transitionHandler(func(req *http.Request, id uuid.UUID) (*schedule.Appointment, error) {
			return cfg.Schedule.Confirm(req.Context(), id)
		}))
		r.Post("/appointments/{id}/complete", transitionHandler(func(req *http.Request, id uuid.UUID) (*schedule.Appointment, error) {
			return cfg.Schedule.Complete(req.Context(), id)
		}))
		r.Post("/appointments/{id}/cancel", transitionHandler(func(req *http.Request, id uuid.UUID) (*schedule.Appointment, error) {
			return cfg.Schedule.Cancel(req.Context(), id)
		}))
		r.Post("/appointments/{id}/no-show", transitionHandler(func(req *http.Request, id uuid.UUID) (*schedule.Appointment, error) {
			return cfg.Schedule.MarkNoShow(req.Context(), id)
		}))
		r.Post("/appointments/{id}/reschedule", rescheduleAppointmentHandler(cfg.Schedule))
		r.With(adminOnly).Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Schedule))
		r.Get("/availability", checkAvailabilityHandler(cfg.Schedule))

		r.Post("/patients", createPatientHandler(cfg.Patients))
		r.Get("/patients", listPatientsHandler(cfg.Patients))
		r.Get("/patients/{id}", getPatientHandler(cfg.Patients))
		r.Put("/patients/{id}", updatePatientHandler(cfg.Patients))
		r.With(adminOnly).Delete("/patients/{id}", deletePatientHandler(cfg.Patients))
		r.Get("/patients/{id}/records", listMedicalRecordsHandler(cfg.Patients))
		r.Post("/patients/{id}/records", addMedicalRecordHandler(cfg.Patients))

		r.Get("/practitioners", listPractitionersHandler(cfg.Staff))
		r.Post("/practitioners", createPractitionerHandler(cfg.Staff))
		r.Get("/practitioners/{id}", getPractitionerHandler(cfg.Staff))
		r.Put("/practitioners/{id}", updatePractitionerHandler(cfg.Staff))

		r.Post("/invoices", createInvoiceHandler(cfg.Billing))
		r.Get("/invoices", listInvoicesHandler(cfg.Billing))
		r.Get("/invoices/{id}", getInvoiceHandler(cfg.Billing))
		r.Put("/invoices/{id}", updateInvoiceHandler(cfg.Billing))
		r.Post("/invoices/{id}/finalize", finalizeInvoiceHandler(cfg.Billing))
		r.Post("/invoices/{id}/payments", recordPaymentHandler(cfg.Billing))
		r.Get("/billing/stats", billingStatsHandler(cfg.Billing))

		r.Post("/medicines", createStockHandler(cfg.Inventory))
		r.Get("/medicines", listStockHandler(cfg.Inventory))
		r.Get("/medicines/{id}", getStockHandler(cfg.Inventory))
		r.Put("/medicines/{id}", updateStockHandler(cfg.Inventory))
		r.With(adminOnly).Delete("/medicines/{id}", deleteStockHandler(cfg.Inventory))
		r.Post("/medicines/{id}/movements", recordMovementHandler(cfg.Inventory))
		r.Get("/medicines/{id}/movements", listMovementsHandler(cfg.Inventory))
		r.Get("/inventory/low-stock", lowStockHandler(cfg.Inventory))
		r.Get("/inventory/expiring", expiringStockHandler(cfg.Inventory))
	})

	return r
}
