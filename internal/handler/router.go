package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hourglass/internal/mw"
	"hourglass/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	Auth      *service.AuthService
	WorkOrder *service.WorkOrderService
	Timesheet *service.TimesheetService
	Invoice   *service.InvoiceService
	Job       *service.JobService
	Dashboard *service.DashboardService
}

func NewRouter(svcs Services, jwtSecret string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/auth/login", LoginHandler(svcs.Auth, jwtSecret))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(jwtSecret))

		r.Get("/api/auth/me", MeHandler(svcs.Auth))
		r.Get("/api/vendors", ListVendorsHandler(svcs.Auth))

		r.Get("/api/work-orders", ListWorkOrdersHandler(svcs.WorkOrder))
		r.Post("/api/work-orders", CreateWorkOrderHandler(svcs.WorkOrder))
		r.Put("/api/work-orders/{id}/status", UpdateWorkOrderStatusHandler(svcs.WorkOrder))
		r.Put("/api/work-orders/{id}/assign", AssignWorkOrderHandler(svcs.WorkOrder))

		r.Get("/api/jobs", ListJobsHandler(svcs.Job))
		r.Post("/api/jobs", CreateJobHandler(svcs.Job))
		r.Put("/api/jobs/{id}", UpdateJobHandler(svcs.Job))
		r.Put("/api/jobs/{id}/status", UpdateJobStatusHandler(svcs.Job))
		r.Post("/api/jobs/{id}/apply", ApplyForJobHandler(svcs.Job))
		r.Get("/api/jobs/{id}/applicants", JobApplicantsHandler(svcs.Job))

		r.Get("/api/timesheets", ListTimesheetsHandler(svcs.Timesheet))
		r.Post("/api/timesheets", CreateTimesheetHandler(svcs.Timesheet, svcs.WorkOrder))
		r.Post("/api/timesheets/{id}/submit", SubmitTimesheetHandler(svcs.Timesheet))
		r.Post("/api/timesheets/{id}/approve", ApproveTimesheetHandler(svcs.Timesheet))
		r.Post("/api/timesheets/{id}/reject", RejectTimesheetHandler(svcs.Timesheet))

		r.Get("/api/invoices", ListInvoicesHandler(svcs.Invoice))
		r.Post("/api/invoices", CreateInvoiceHandler(svcs.Invoice, svcs.WorkOrder))
		r.Post("/api/invoices/{id}/submit", SubmitInvoiceHandler(svcs.Invoice))
		r.Post("/api/invoices/{id}/approve", ApproveInvoiceHandler(svcs.Invoice))
		r.Post("/api/invoices/{id}/reject", RejectInvoiceHandler(svcs.Invoice))
		r.Post("/api/invoices/{id}/pay", PayInvoiceHandler(svcs.Invoice))

		r.Get("/api/dashboard/vendor/stats", VendorStatsHandler(svcs.Dashboard))
		r.Get("/api/dashboard/company/stats", CompanyStatsHandler(svcs.Dashboard))
	})

	return r
}
