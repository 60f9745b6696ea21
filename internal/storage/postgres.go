package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hourglass/internal/model"
)

// PostgresStore implements Store with hand-written SQL over the pgx stdlib
// driver. Nested collections (timesheet entries, invoice items, job skills
// and applicants) are stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Active, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, active, created_at, updated_at
		FROM users WHERE email = $1
	`, email))
}

func (s *PostgresStore) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, active, created_at, updated_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStore) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ActiveUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, name, role, active, created_at, updated_at
		FROM users WHERE role = $1 AND active
		ORDER BY created_at DESC, id
	`, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateWorkOrder(ctx context.Context, w model.WorkOrder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_orders (id, number, title, description, company_id, vendor_id, status,
			assigned_date, due_date, completed_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, w.ID, w.WorkOrderNumber, w.Title, w.Description, w.CompanyID, nullString(w.VendorID),
		w.Status, w.AssignedDate, w.DueDate, w.CompletedDate, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateWorkOrder(ctx context.Context, w model.WorkOrder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE work_orders
		SET title = $2, description = $3, vendor_id = $4, status = $5,
			assigned_date = $6, due_date = $7, completed_date = $8, updated_at = $9
		WHERE id = $1
	`, w.ID, w.Title, w.Description, nullString(w.VendorID), w.Status,
		w.AssignedDate, w.DueDate, w.CompletedDate, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return requireRow(res)
}

const workOrderCols = `id, number, title, description, company_id, vendor_id, status,
	assigned_date, due_date, completed_date, created_at, updated_at`

func (s *PostgresStore) WorkOrderByID(ctx context.Context, id string) (model.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workOrderCols+` FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("query work order: %w", err)
	}
	list, err := scanWorkOrders(rows)
	if err != nil {
		return model.WorkOrder{}, err
	}
	if len(list) == 0 {
		return model.WorkOrder{}, ErrNotFound
	}
	return list[0], nil
}

func (s *PostgresStore) WorkOrdersByCompany(ctx context.Context, companyID string) ([]model.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workOrderCols+` FROM work_orders WHERE company_id = $1 ORDER BY created_at DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query work orders: %w", err)
	}
	return scanWorkOrders(rows)
}

func (s *PostgresStore) WorkOrdersByVendor(ctx context.Context, vendorID string) ([]model.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workOrderCols+` FROM work_orders WHERE vendor_id = $1 ORDER BY created_at DESC, id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("query work orders: %w", err)
	}
	return scanWorkOrders(rows)
}

func (s *PostgresStore) CountWorkOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count work orders: %w", err)
	}
	return n, nil
}

func scanWorkOrders(rows *sql.Rows) ([]model.WorkOrder, error) {
	defer rows.Close()
	var out []model.WorkOrder
	for rows.Next() {
		var w model.WorkOrder
		var vendorID sql.NullString
		if err := rows.Scan(&w.ID, &w.WorkOrderNumber, &w.Title, &w.Description, &w.CompanyID,
			&vendorID, &w.Status, &w.AssignedDate, &w.DueDate, &w.CompletedDate,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		if vendorID.Valid {
			w.VendorID = vendorID.String
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateTimesheet(ctx context.Context, t model.Timesheet) error {
	entries, err := json.Marshal(t.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO timesheets (id, vendor_id, company_id, work_order_id, status,
			week_start_date, week_end_date, entries, total_hours, notes,
			submitted_date, approved_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, t.ID, t.VendorID, t.CompanyID, t.WorkOrderID, t.Status,
		t.WeekStartDate, t.WeekEndDate, entries, t.TotalHours, t.Notes,
		t.SubmittedDate, t.ApprovedDate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert timesheet: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTimesheet(ctx context.Context, t model.Timesheet) error {
	entries, err := json.Marshal(t.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE timesheets
		SET status = $2, entries = $3, total_hours = $4, notes = $5,
			submitted_date = $6, approved_date = $7, updated_at = $8
		WHERE id = $1
	`, t.ID, t.Status, entries, t.TotalHours, t.Notes, t.SubmittedDate, t.ApprovedDate, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update timesheet: %w", err)
	}
	return requireRow(res)
}

const timesheetCols = `id, vendor_id, company_id, work_order_id, status,
	week_start_date, week_end_date, entries, total_hours, notes,
	submitted_date, approved_date, created_at, updated_at`

func (s *PostgresStore) TimesheetByID(ctx context.Context, id string) (model.Timesheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timesheetCols+` FROM timesheets WHERE id = $1`, id)
	if err != nil {
		return model.Timesheet{}, fmt.Errorf("query timesheet: %w", err)
	}
	list, err := scanTimesheets(rows)
	if err != nil {
		return model.Timesheet{}, err
	}
	if len(list) == 0 {
		return model.Timesheet{}, ErrNotFound
	}
	return list[0], nil
}

func (s *PostgresStore) TimesheetsByVendor(ctx context.Context, vendorID string) ([]model.Timesheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timesheetCols+` FROM timesheets WHERE vendor_id = $1 ORDER BY created_at DESC, id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("query timesheets: %w", err)
	}
	return scanTimesheets(rows)
}

func (s *PostgresStore) TimesheetsByCompany(ctx context.Context, companyID string) ([]model.Timesheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timesheetCols+` FROM timesheets WHERE company_id = $1 ORDER BY created_at DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query timesheets: %w", err)
	}
	return scanTimesheets(rows)
}

func scanTimesheets(rows *sql.Rows) ([]model.Timesheet, error) {
	defer rows.Close()
	var out []model.Timesheet
	for rows.Next() {
		var t model.Timesheet
		var entries []byte
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.VendorID, &t.CompanyID, &t.WorkOrderID, &t.Status,
			&t.WeekStartDate, &t.WeekEndDate, &entries, &t.TotalHours, &notes,
			&t.SubmittedDate, &t.ApprovedDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}
		if err := json.Unmarshal(entries, &t.Entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
		if notes.Valid {
			t.Notes = notes.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateInvoice(ctx context.Context, inv model.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, number, vendor_id, company_id, work_order_id, status,
			items, subtotal, tax_amount, total_amount, due_date, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, inv.ID, inv.InvoiceNumber, inv.VendorID, inv.CompanyID, inv.WorkOrderID, inv.Status,
		items, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.DueDate, inv.PaidDate,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateInvoice(ctx context.Context, inv model.Invoice) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices
		SET status = $2, paid_date = $3, updated_at = $4
		WHERE id = $1
	`, inv.ID, inv.Status, inv.PaidDate, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return requireRow(res)
}

const invoiceCols = `id, number, vendor_id, company_id, work_order_id, status,
	items, subtotal, tax_amount, total_amount, due_date, paid_date, created_at, updated_at`

func (s *PostgresStore) InvoiceByID(ctx context.Context, id string) (model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id)
	if err != nil {
		return model.Invoice{}, fmt.Errorf("query invoice: %w", err)
	}
	list, err := scanInvoices(rows)
	if err != nil {
		return model.Invoice{}, err
	}
	if len(list) == 0 {
		return model.Invoice{}, ErrNotFound
	}
	return list[0], nil
}

func (s *PostgresStore) InvoicesByVendor(ctx context.Context, vendorID string) ([]model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE vendor_id = $1 ORDER BY created_at DESC, id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	return scanInvoices(rows)
}

func (s *PostgresStore) InvoicesByCompany(ctx context.Context, companyID string) ([]model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE company_id = $1 ORDER BY created_at DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	return scanInvoices(rows)
}

func (s *PostgresStore) CountInvoices(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func scanInvoices(rows *sql.Rows) ([]model.Invoice, error) {
	defer rows.Close()
	var out []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		var items []byte
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.VendorID, &inv.CompanyID,
			&inv.WorkOrderID, &inv.Status, &items, &inv.Subtotal, &inv.TaxAmount,
			&inv.TotalAmount, &inv.DueDate, &inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, j model.Job) error {
	skills, err := json.Marshal(j.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	applicants, err := json.Marshal(j.ApplicantIDs)
	if err != nil {
		return fmt.Errorf("marshal applicants: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, description, company_id, status, required_skills,
			location, salary_min, salary_max, employment_type, applicant_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, j.ID, j.Title, j.Description, j.CompanyID, j.Status, skills,
		j.Location, j.SalaryMin, j.SalaryMax, j.EmploymentType, applicants, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateJob(ctx context.Context, j model.Job) error {
	skills, err := json.Marshal(j.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	applicants, err := json.Marshal(j.ApplicantIDs)
	if err != nil {
		return fmt.Errorf("marshal applicants: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET title = $2, description = $3, status = $4, required_skills = $5, location = $6,
			salary_min = $7, salary_max = $8, employment_type = $9, applicant_ids = $10, updated_at = $11
		WHERE id = $1
	`, j.ID, j.Title, j.Description, j.Status, skills, j.Location,
		j.SalaryMin, j.SalaryMax, j.EmploymentType, applicants, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireRow(res)
}

const jobCols = `id, title, description, company_id, status, required_skills,
	location, salary_min, salary_max, employment_type, applicant_ids, created_at, updated_at`

func (s *PostgresStore) JobByID(ctx context.Context, id string) (model.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobCols+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		return model.Job{}, fmt.Errorf("query job: %w", err)
	}
	list, err := scanJobs(rows)
	if err != nil {
		return model.Job{}, err
	}
	if len(list) == 0 {
		return model.Job{}, ErrNotFound
	}
	return list[0], nil
}

func (s *PostgresStore) JobsByCompany(ctx context.Context, companyID string) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobCols+` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	return scanJobs(rows)
}

func (s *PostgresStore) JobsByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobCols+` FROM jobs WHERE status = $1 ORDER BY created_at DESC, id`, status)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	return scanJobs(rows)
}

func (s *PostgresStore) Jobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobCols+` FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	return scanJobs(rows)
}

func scanJobs(rows *sql.Rows) ([]model.Job, error) {
	defer rows.Close()
	var out []model.Job
	for rows.Next() {
		var j model.Job
		var skills, applicants []byte
		var salaryMin, salaryMax sql.NullFloat64
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.CompanyID, &j.Status, &skills,
			&j.Location, &salaryMin, &salaryMax, &j.EmploymentType, &applicants,
			&j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if err := json.Unmarshal(skills, &j.RequiredSkills); err != nil {
			return nil, fmt.Errorf("unmarshal skills: %w", err)
		}
		if err := json.Unmarshal(applicants, &j.ApplicantIDs); err != nil {
			return nil, fmt.Errorf("unmarshal applicants: %w", err)
		}
		if salaryMin.Valid {
			j.SalaryMin = salaryMin.Float64
		}
		if salaryMax.Valid {
			j.SalaryMax = salaryMax.Float64
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
