package storage

import (
	"context"
	"errors"

	"hourglass/internal/model"
)

// ErrNotFound is returned for lookups by id or email that match nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (user email) is violated.
var ErrDuplicate = errors.New("already exists")

// Store is the persistence boundary. Two implementations exist: postgres
// (pgx over database/sql) and an in-process memory store used when no
// database URI is configured and by the test suite.
type Store interface {
	CreateUser(ctx context.Context, u model.User) error
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UserByID(ctx context.Context, id string) (model.User, error)
	ActiveUsersByRole(ctx context.Context, role model.Role) ([]model.User, error)

	CreateWorkOrder(ctx context.Context, w model.WorkOrder) error
	WorkOrderByID(ctx context.Context, id string) (model.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, w model.WorkOrder) error
	WorkOrdersByCompany(ctx context.Context, companyID string) ([]model.WorkOrder, error)
	WorkOrdersByVendor(ctx context.Context, vendorID string) ([]model.WorkOrder, error)
	CountWorkOrders(ctx context.Context) (int64, error)

	CreateTimesheet(ctx context.Context, t model.Timesheet) error
	TimesheetByID(ctx context.Context, id string) (model.Timesheet, error)
	UpdateTimesheet(ctx context.Context, t model.Timesheet) error
	TimesheetsByVendor(ctx context.Context, vendorID string) ([]model.Timesheet, error)
	TimesheetsByCompany(ctx context.Context, companyID string) ([]model.Timesheet, error)

	CreateInvoice(ctx context.Context, inv model.Invoice) error
	InvoiceByID(ctx context.Context, id string) (model.Invoice, error)
	UpdateInvoice(ctx context.Context, inv model.Invoice) error
	InvoicesByVendor(ctx context.Context, vendorID string) ([]model.Invoice, error)
	InvoicesByCompany(ctx context.Context, companyID string) ([]model.Invoice, error)
	CountInvoices(ctx context.Context) (int64, error)

	CreateJob(ctx context.Context, j model.Job) error
	JobByID(ctx context.Context, id string) (model.Job, error)
	UpdateJob(ctx context.Context, j model.Job) error
	JobsByCompany(ctx context.Context, companyID string) ([]model.Job, error)
	JobsByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error)
	Jobs(ctx context.Context) ([]model.Job, error)
}
