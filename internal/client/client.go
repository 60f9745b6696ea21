package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hourglass/internal/model"
)

var (
	// ErrNoSession means an authenticated call was attempted without a
	// token; log in first.
	ErrNoSession = errors.New("no session, please login")

	// ErrUnauthorized means the authority rejected the token; the session
	// has already been cleared.
	ErrUnauthorized = errors.New("session expired, please login again")
)

// APIError carries a 4xx/5xx response's status and server-provided message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the work-order authority and maintains the local entity
// caches that views read from. All mutations flow through it: status
// transitions apply optimistically and reconcile when the call settles,
// creations invalidate the relevant list on success.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session

	workOrders *ListCache[model.WorkOrder]
	timesheets *ListCache[model.Timesheet]
	invoices   *ListCache[model.Invoice]
	jobs       *ListCache[model.Job]
}

func New(baseURL string, creds CredentialStore) *Client {
	c := &Client{
		baseURL: baseURL,
		// No explicit timeout: callers control cancellation via ctx,
		// otherwise resolution is the transport's default behavior.
		http:    &http.Client{},
		session: NewSession(creds),
	}
	c.workOrders = NewListCache(func(ctx context.Context) ([]model.WorkOrder, error) {
		var out []model.WorkOrder
		return out, c.do(ctx, http.MethodGet, "/api/work-orders", nil, &out)
	})
	c.timesheets = NewListCache(func(ctx context.Context) ([]model.Timesheet, error) {
		var out []model.Timesheet
		return out, c.do(ctx, http.MethodGet, "/api/timesheets", nil, &out)
	})
	c.invoices = NewListCache(func(ctx context.Context) ([]model.Invoice, error) {
		var out []model.Invoice
		return out, c.do(ctx, http.MethodGet, "/api/invoices", nil, &out)
	})
	c.jobs = NewListCache(func(ctx context.Context) ([]model.Job, error) {
		var out []model.Job
		return out, c.do(ctx, http.MethodGet, "/api/jobs", nil, &out)
	})
	return c
}

// Session exposes the explicit session object (current user, subscription
// to teardown via CurrentUser polling after errors).
func (c *Client) Session() *Session { return c.session }

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Profile, error) {
	var res loginResult
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/api/auth/login", loginPayload{Email: email, Password: password}, &res); err != nil {
		return model.Profile{}, err
	}

	profile := model.Profile{ID: res.ID, Email: res.Email, Name: res.Name, Role: res.Role}
	if err := c.session.establish(res.Token, profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return model.Profile{}, err
	}
	return out, nil
}

// Vendors lists the active vendor roster. Company accounts call it to pick
// a vendor for work-order assignment or on-behalf timesheets.
func (c *Client) Vendors(ctx context.Context) ([]model.Profile, error) {
	var out []model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/vendors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkOrders serves reads from the cache, fetching from the authority when
// the entry is missing or stale.
func (c *Client) WorkOrders(ctx context.Context) ([]model.WorkOrder, error) {
	return c.workOrders.Get(ctx)
}

func (c *Client) Timesheets(ctx context.Context) ([]model.Timesheet, error) {
	return c.timesheets.Get(ctx)
}

func (c *Client) Invoices(ctx context.Context) ([]model.Invoice, error) {
	return c.invoices.Get(ctx)
}

func (c *Client) Jobs(ctx context.Context) ([]model.Job, error) {
	return c.jobs.Get(ctx)
}

// SubscribeWorkOrders signals on every work-order cache write or
// invalidation; the analogous methods below cover the other entity types.
func (c *Client) SubscribeWorkOrders() <-chan struct{} { return c.workOrders.Subscribe() }
func (c *Client) SubscribeTimesheets() <-chan struct{} { return c.timesheets.Subscribe() }
func (c *Client) SubscribeInvoices() <-chan struct{}   { return c.invoices.Subscribe() }
func (c *Client) SubscribeJobs() <-chan struct{}       { return c.jobs.Subscribe() }

type CreateWorkOrderParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	VendorID    string `json:"vendorId,omitempty"`
}

// CreateWorkOrder posts the new work order and invalidates the list on
// success; the created entity becomes visible after the next refetch. No
// optimistic insert.
func (c *Client) CreateWorkOrder(ctx context.Context, params CreateWorkOrderParams) (model.WorkOrder, error) {
	var out model.WorkOrder
	if err := c.do(ctx, http.MethodPost, "/api/work-orders", params, &out); err != nil {
		return model.WorkOrder{}, err
	}
	c.workOrders.Invalidate()
	return out, nil
}

func (c *Client) UpdateWorkOrderStatus(ctx context.Context, id string, status model.WorkOrderStatus) (model.WorkOrder, error) {
	now := time.Now().UTC()
	return runTransition(ctx, c.workOrders, id,
		func(w *model.WorkOrder) {
			w.Status = status
			w.UpdatedAt = now
			if status == model.WorkOrderCompleted {
				w.CompletedDate = &now
			}
		},
		func(ctx context.Context) (model.WorkOrder, error) {
			var out model.WorkOrder
			err := c.do(ctx, http.MethodPut, "/api/work-orders/"+id+"/status?status="+string(status), nil, &out)
			return out, err
		})
}

func (c *Client) AssignWorkOrder(ctx context.Context, id, vendorID string) (model.WorkOrder, error) {
	now := time.Now().UTC()
	return runTransition(ctx, c.workOrders, id,
		func(w *model.WorkOrder) {
			w.VendorID = vendorID
			w.Status = model.WorkOrderAssigned
			w.AssignedDate = &now
			w.UpdatedAt = now
		},
		func(ctx context.Context) (model.WorkOrder, error) {
			var out model.WorkOrder
			err := c.do(ctx, http.MethodPut, "/api/work-orders/"+id+"/assign?vendorId="+vendorID, nil, &out)
			return out, err
		})
}

type TimesheetEntryParams struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	WorkOrderID string  `json:"workOrderId"`
}

type CreateTimesheetParams struct {
	WorkOrderID   string                 `json:"workOrderId"`
	VendorID      string                 `json:"vendorId,omitempty"`
	WeekStartDate string                 `json:"weekStartDate"`
	WeekEndDate   string                 `json:"weekEndDate"`
	Entries       []TimesheetEntryParams `json:"entries"`
	Notes         string                 `json:"notes,omitempty"`
}

func (c *Client) CreateTimesheet(ctx context.Context, params CreateTimesheetParams) (model.Timesheet, error) {
	var out model.Timesheet
	if err := c.do(ctx, http.MethodPost, "/api/timesheets", params, &out); err != nil {
		return model.Timesheet{}, err
	}
	c.timesheets.Invalidate()
	return out, nil
}

func (c *Client) SubmitTimesheet(ctx context.Context, id string) (model.Timesheet, error) {
	return c.timesheetTransition(ctx, id, "submit", model.TimesheetSubmitted)
}

func (c *Client) ApproveTimesheet(ctx context.Context, id string) (model.Timesheet, error) {
	return c.timesheetTransition(ctx, id, "approve", model.TimesheetApproved)
}

func (c *Client) RejectTimesheet(ctx context.Context, id string) (model.Timesheet, error) {
	return c.timesheetTransition(ctx, id, "reject", model.TimesheetRejected)
}

func (c *Client) timesheetTransition(ctx context.Context, id, action string, status model.TimesheetStatus) (model.Timesheet, error) {
	now := time.Now().UTC()
	return runTransition(ctx, c.timesheets, id,
		func(t *model.Timesheet) {
			t.Status = status
			t.UpdatedAt = now
			switch status {
			case model.TimesheetSubmitted:
				t.SubmittedDate = &now
			case model.TimesheetApproved:
				t.ApprovedDate = &now
			}
		},
		func(ctx context.Context) (model.Timesheet, error) {
			var out model.Timesheet
			err := c.do(ctx, http.MethodPost, "/api/timesheets/"+id+"/"+action, nil, &out)
			return out, err
		})
}

type InvoiceItemParams struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type CreateInvoiceParams struct {
	WorkOrderID string              `json:"workOrderId"`
	Items       []InvoiceItemParams `json:"items"`
	DueDate     string              `json:"dueDate,omitempty"`
}

func (c *Client) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (model.Invoice, error) {
	var out model.Invoice
	if err := c.do(ctx, http.MethodPost, "/api/invoices", params, &out); err != nil {
		return model.Invoice{}, err
	}
	c.invoices.Invalidate()
	return out, nil
}

func (c *Client) SubmitInvoice(ctx context.Context, id string) (model.Invoice, error) {
	return c.invoiceTransition(ctx, id, "submit", model.InvoicePending)
}

func (c *Client) ApproveInvoice(ctx context.Context, id string) (model.Invoice, error) {
	return c.invoiceTransition(ctx, id, "approve", model.InvoiceApproved)
}

func (c *Client) RejectInvoice(ctx context.Context, id string) (model.Invoice, error) {
	return c.invoiceTransition(ctx, id, "reject", model.InvoiceRejected)
}

func (c *Client) MarkInvoicePaid(ctx context.Context, id string) (model.Invoice, error) {
	return c.invoiceTransition(ctx, id, "pay", model.InvoicePaid)
}

func (c *Client) invoiceTransition(ctx context.Context, id, action string, status model.InvoiceStatus) (model.Invoice, error) {
	now := time.Now().UTC()
	return runTransition(ctx, c.invoices, id,
		func(inv *model.Invoice) {
			inv.Status = status
			inv.UpdatedAt = now
			if status == model.InvoicePaid {
				inv.PaidDate = &now
			}
		},
		func(ctx context.Context) (model.Invoice, error) {
			var out model.Invoice
			err := c.do(ctx, http.MethodPost, "/api/invoices/"+id+"/"+action, nil, &out)
			return out, err
		})
}

type CreateJobParams struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employmentType"`
	RequiredSkills []string `json:"requiredSkills,omitempty"`
	SalaryMin      float64  `json:"salaryMin,omitempty"`
	SalaryMax      float64  `json:"salaryMax,omitempty"`
}

func (c *Client) CreateJob(ctx context.Context, params CreateJobParams) (model.Job, error) {
	var out model.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", params, &out); err != nil {
		return model.Job{}, err
	}
	c.jobs.Invalidate()
	return out, nil
}

// UpdateJob edits a posting in place; like creation it reconciles by
// invalidation only.
func (c *Client) UpdateJob(ctx context.Context, id string, params CreateJobParams) (model.Job, error) {
	var out model.Job
	if err := c.do(ctx, http.MethodPut, "/api/jobs/"+id, params, &out); err != nil {
		return model.Job{}, err
	}
	c.jobs.Invalidate()
	return out, nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) (model.Job, error) {
	now := time.Now().UTC()
	return runTransition(ctx, c.jobs, id,
		func(j *model.Job) {
			j.Status = status
			j.UpdatedAt = now
		},
		func(ctx context.Context) (model.Job, error) {
			var out model.Job
			err := c.do(ctx, http.MethodPut, "/api/jobs/"+id+"/status?status="+string(status), nil, &out)
			return out, err
		})
}

// ApplyForJob records the vendor's application; applying twice is a
// server-side no-op.
func (c *Client) ApplyForJob(ctx context.Context, id string) (model.Job, error) {
	var out model.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+id+"/apply", nil, &out); err != nil {
		return model.Job{}, err
	}
	c.jobs.Invalidate()
	return out, nil
}

func (c *Client) JobApplicants(ctx context.Context, id string) ([]model.Profile, error) {
	var out []model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+id+"/applicants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) VendorStats(ctx context.Context) (model.VendorStats, error) {
	var out model.VendorStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/vendor/stats", nil, &out); err != nil {
		return model.VendorStats{}, err
	}
	return out, nil
}

func (c *Client) CompanyStats(ctx context.Context) (model.CompanyStats, error) {
	var out model.CompanyStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/company/stats", nil, &out); err != nil {
		return model.CompanyStats{}, err
	}
	return out, nil
}

// do issues an authenticated request. Any 401 tears the session down so a
// subsequent CurrentUser returns none.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, ok := c.session.Token()
	if !ok {
		return ErrNoSession
	}
	return c.request(ctx, method, path, token, body, out)
}

func (c *Client) doUnauthenticated(ctx context.Context, method, path string, body, out any) error {
	return c.request(ctx, method, path, "", body, out)
}

func (c *Client) request(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Error == "" {
			apiErr.Error = "request failed"
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
