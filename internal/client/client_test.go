package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"hourglass/internal/handler"
	"hourglass/internal/model"
	"hourglass/internal/service"
	"hourglass/internal/storage"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	store := storage.NewMemoryStore()
	auth := service.NewAuthService(store)
	svcs := handler.Services{
		Auth:      auth,
		WorkOrder: service.NewWorkOrderService(store),
		Timesheet: service.NewTimesheetService(store),
		Invoice:   service.NewInvoiceService(store),
		Job:       service.NewJobService(store),
		Dashboard: service.NewDashboardService(store),
	}
	if err := auth.EnsureSeedUsers(context.Background()); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	server := httptest.NewServer(handler.NewRouter(svcs, "client-test-secret"))
	t.Cleanup(server.Close)
	return server
}

func loggedIn(t *testing.T, server *httptest.Server, email string) (*Client, model.Profile) {
	t.Helper()
	c := New(server.URL, NewMemStore())
	profile, err := c.Login(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return c, profile
}

func TestClientLogin(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		c := New(server.URL, NewMemStore())
		if _, err := c.WorkOrders(ctx); !errors.Is(err, ErrNoSession) {
			t.Errorf("got %v, want ErrNoSession", err)
		}
	})

	t.Run("establishes the session", func(t *testing.T) {
		c, profile := loggedIn(t, server, "vendor@hourglass.com")
		if profile.Role != "vendor" {
			t.Errorf("role = %q, want vendor", profile.Role)
		}
		user, ok := c.Session().CurrentUser()
		if !ok || user.Email != "vendor@hourglass.com" {
			t.Errorf("session user = %+v, %v", user, ok)
		}
		me, err := c.Me(ctx)
		if err != nil {
			t.Fatalf("Me: %v", err)
		}
		if me.ID != profile.ID {
			t.Errorf("me = %+v", me)
		}
	})

	t.Run("bad credentials surface the server message", func(t *testing.T) {
		c := New(server.URL, NewMemStore())
		_, err := c.Login(ctx, "vendor@hourglass.com", "wrong")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *APIError", err)
		}
		if apiErr.Status != 400 || apiErr.Message == "" {
			t.Errorf("apiErr = %+v", apiErr)
		}
	})

	t.Run("logout tears the session down", func(t *testing.T) {
		c, _ := loggedIn(t, server, "vendor@hourglass.com")
		c.Logout()
		if _, ok := c.Session().CurrentUser(); ok {
			t.Error("user survived logout")
		}
		if _, err := c.WorkOrders(ctx); !errors.Is(err, ErrNoSession) {
			t.Errorf("got %v, want ErrNoSession", err)
		}
	})
}

func TestClientExpiredToken(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	creds := NewMemStore()
	creds.Set(tokenKey, "stale-token")
	creds.Set(userKey, `{"id":"u1","email":"vendor@hourglass.com","name":"V","role":"vendor"}`)

	c := New(server.URL, creds)
	if _, ok := c.Session().CurrentUser(); !ok {
		t.Fatal("persisted session should load")
	}

	if _, err := c.WorkOrders(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if _, ok := c.Session().CurrentUser(); ok {
		t.Error("session survived a 401")
	}
	if _, ok := creds.Get(tokenKey); ok {
		t.Error("persisted token survived a 401")
	}
}

func TestClientWorkOrderFlow(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	vendor, vendorProfile := loggedIn(t, server, "vendor@hourglass.com")

	t.Run("vendor cannot create", func(t *testing.T) {
		_, err := vendor.CreateWorkOrder(ctx, CreateWorkOrderParams{
			Title:       "Not allowed",
			Description: "Vendors do not create work orders",
		})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 403 {
			t.Fatalf("got %v, want 403 APIError", err)
		}
		if apiErr.Message != "only companies can create work orders" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	created, err := company.CreateWorkOrder(ctx, CreateWorkOrderParams{
		Title:       "Install backup generator",
		Description: "Install and wire the standby generator at the warehouse",
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}

	t.Run("creation invalidates the list", func(t *testing.T) {
		orders, err := company.WorkOrders(ctx)
		if err != nil {
			t.Fatalf("WorkOrders: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != created.ID {
			t.Fatalf("orders = %d items", len(orders))
		}
	})

	t.Run("transition commits against the authority", func(t *testing.T) {
		if _, err := company.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderOpen); err != nil {
			t.Fatalf("open: %v", err)
		}
		assigned, err := company.AssignWorkOrder(ctx, created.ID, vendorProfile.ID)
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		if assigned.Status != model.WorkOrderAssigned || assigned.AssignedDate == nil {
			t.Errorf("assigned = %+v", assigned)
		}

		orders, err := company.WorkOrders(ctx)
		if err != nil {
			t.Fatalf("WorkOrders: %v", err)
		}
		if orders[0].Status != model.WorkOrderAssigned {
			t.Errorf("refetched status = %s, want ASSIGNED", orders[0].Status)
		}
	})

	t.Run("rejected transition rolls the cache back", func(t *testing.T) {
		before, err := company.WorkOrders(ctx)
		if err != nil {
			t.Fatalf("WorkOrders: %v", err)
		}

		// ASSIGNED -> COMPLETED skips a state; the authority returns 409.
		_, err = company.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderCompleted)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 409 {
			t.Fatalf("got %v, want 409 APIError", err)
		}

		after, ok := company.workOrders.Snapshot()
		if !ok {
			t.Fatal("cache dropped on rollback")
		}
		if len(after) != len(before) {
			t.Fatalf("lengths differ: %d vs %d", len(after), len(before))
		}
		for i := range before {
			if after[i].ID != before[i].ID || after[i].Status != before[i].Status {
				t.Errorf("item %d changed: %s/%s vs %s/%s", i,
					after[i].ID, after[i].Status, before[i].ID, before[i].Status)
			}
		}
	})

	t.Run("vendor progresses the order", func(t *testing.T) {
		done, err := vendor.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderInProgress)
		if err != nil {
			t.Fatalf("in progress: %v", err)
		}
		if done.Status != model.WorkOrderInProgress {
			t.Errorf("status = %s", done.Status)
		}

		completed, err := vendor.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderCompleted)
		if err != nil {
			t.Fatalf("completed: %v", err)
		}
		if completed.CompletedDate == nil {
			t.Error("completed date not set")
		}
	})
}

func TestClientTimesheetAndInvoiceFlow(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	vendor, vendorProfile := loggedIn(t, server, "vendor@hourglass.com")

	created, err := company.CreateWorkOrder(ctx, CreateWorkOrderParams{
		Title:       "Quarterly maintenance",
		Description: "Service all rooftop units before the season change",
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}
	if _, err := company.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderOpen); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := company.AssignWorkOrder(ctx, created.ID, vendorProfile.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	ts, err := vendor.CreateTimesheet(ctx, CreateTimesheetParams{
		WorkOrderID:   created.ID,
		WeekStartDate: "2026-08-24",
		WeekEndDate:   "2026-08-30",
		Entries: []TimesheetEntryParams{
			{Date: "2026-08-24", Hours: 8, Description: "Filter replacement", WorkOrderID: created.ID},
			{Date: "2026-08-25", Hours: 6.5, Description: "Coil cleaning", WorkOrderID: created.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateTimesheet: %v", err)
	}
	if ts.TotalHours != 14.5 {
		t.Errorf("total hours = %v, want 14.5", ts.TotalHours)
	}

	t.Run("timesheet approval", func(t *testing.T) {
		if _, err := vendor.SubmitTimesheet(ctx, ts.ID); err != nil {
			t.Fatalf("submit: %v", err)
		}
		approved, err := company.ApproveTimesheet(ctx, ts.ID)
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if approved.Status != model.TimesheetApproved || approved.ApprovedDate == nil {
			t.Errorf("approved = %+v", approved)
		}
	})

	inv, err := vendor.CreateInvoice(ctx, CreateInvoiceParams{
		WorkOrderID: created.ID,
		Items: []InvoiceItemParams{
			{Description: "Labor, ten hours", Quantity: 10, UnitPrice: 10},
			{Description: "Materials", Quantity: 3, UnitPrice: 10},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.TotalAmount != 140.40 {
		t.Errorf("total = %v, want 140.40", inv.TotalAmount)
	}

	t.Run("invoice payment", func(t *testing.T) {
		if _, err := vendor.SubmitInvoice(ctx, inv.ID); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := company.ApproveInvoice(ctx, inv.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
		paid, err := company.MarkInvoicePaid(ctx, inv.ID)
		if err != nil {
			t.Fatalf("pay: %v", err)
		}
		if paid.Status != model.InvoicePaid || paid.PaidDate == nil {
			t.Errorf("paid = %+v", paid)
		}
	})

	t.Run("dashboards reflect the flow", func(t *testing.T) {
		vendorStats, err := vendor.VendorStats(ctx)
		if err != nil {
			t.Fatalf("VendorStats: %v", err)
		}
		if vendorStats.TotalHours != 14.5 {
			t.Errorf("vendor hours = %v, want 14.5", vendorStats.TotalHours)
		}

		companyStats, err := company.CompanyStats(ctx)
		if err != nil {
			t.Fatalf("CompanyStats: %v", err)
		}
		if companyStats.ActiveVendors != 1 {
			t.Errorf("active vendors = %d, want 1", companyStats.ActiveVendors)
		}
		if companyStats.MonthlySpend != 140.40 {
			t.Errorf("monthly spend = %v, want 140.40", companyStats.MonthlySpend)
		}
	})
}

func TestClientVendors(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	vendor, vendorProfile := loggedIn(t, server, "vendor@hourglass.com")

	t.Run("company only", func(t *testing.T) {
		_, err := vendor.Vendors(ctx)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 403 {
			t.Fatalf("got %v, want 403 APIError", err)
		}
	})

	vendors, err := company.Vendors(ctx)
	if err != nil {
		t.Fatalf("Vendors: %v", err)
	}
	if len(vendors) != 1 || vendors[0].ID != vendorProfile.ID {
		t.Fatalf("vendors = %+v, want the seed vendor", vendors)
	}

	t.Run("roster drives assignment", func(t *testing.T) {
		created, err := company.CreateWorkOrder(ctx, CreateWorkOrderParams{
			Title:       "Repaint loading dock",
			Description: "Strip and repaint the dock markings",
		})
		if err != nil {
			t.Fatalf("CreateWorkOrder: %v", err)
		}
		if _, err := company.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderOpen); err != nil {
			t.Fatalf("open: %v", err)
		}
		assigned, err := company.AssignWorkOrder(ctx, created.ID, vendors[0].ID)
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		if assigned.VendorID != vendorProfile.ID {
			t.Errorf("vendor id = %q, want %q", assigned.VendorID, vendorProfile.ID)
		}
	})
}

func TestClientTimesheetRollback(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	vendor, vendorProfile := loggedIn(t, server, "vendor@hourglass.com")

	created, err := company.CreateWorkOrder(ctx, CreateWorkOrderParams{
		Title:       "Dock door repair",
		Description: "Replace the torn seal on door three",
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}
	if _, err := company.UpdateWorkOrderStatus(ctx, created.ID, model.WorkOrderOpen); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := company.AssignWorkOrder(ctx, created.ID, vendorProfile.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	ts, err := vendor.CreateTimesheet(ctx, CreateTimesheetParams{
		WorkOrderID:   created.ID,
		WeekStartDate: "2026-08-24",
		WeekEndDate:   "2026-08-30",
		Entries: []TimesheetEntryParams{
			{Date: "2026-08-26", Hours: 4, Description: "Seal replacement", WorkOrderID: created.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateTimesheet: %v", err)
	}
	if _, err := vendor.SubmitTimesheet(ctx, ts.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Warm the cache so the rollback has a snapshot to restore.
	sheets, err := vendor.Timesheets(ctx)
	if err != nil {
		t.Fatalf("Timesheets: %v", err)
	}
	if len(sheets) != 1 || sheets[0].Status != model.TimesheetSubmitted {
		t.Fatalf("sheets = %+v, want one SUBMITTED", sheets)
	}

	// Approval is company-only; the authority rejects the vendor with 403.
	_, err = vendor.ApproveTimesheet(ctx, ts.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("got %v, want 403 APIError", err)
	}

	after, ok := vendor.timesheets.Snapshot()
	if !ok {
		t.Fatal("cache dropped on rollback")
	}
	if len(after) != 1 {
		t.Fatalf("after = %d items, want 1", len(after))
	}
	if after[0].Status != model.TimesheetSubmitted {
		t.Errorf("status = %s, want SUBMITTED", after[0].Status)
	}
	if after[0].ApprovedDate != nil {
		t.Errorf("approved date = %v, want nil", *after[0].ApprovedDate)
	}
}

func TestClientJobFlow(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	vendor, vendorProfile := loggedIn(t, server, "vendor@hourglass.com")

	job, err := company.CreateJob(ctx, CreateJobParams{
		Title:          "Licensed Electrician",
		Description:    "Commercial wiring work across several sites",
		Location:       "Austin, TX",
		EmploymentType: "CONTRACT",
		RequiredSkills: []string{"wiring"},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if _, err := company.UpdateJobStatus(ctx, job.ID, model.JobOpen); err != nil {
		t.Fatalf("open job: %v", err)
	}

	open, err := vendor.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("vendor sees %d jobs, want 1", len(open))
	}

	applied, err := vendor.ApplyForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ApplyForJob: %v", err)
	}
	if len(applied.ApplicantIDs) != 1 || applied.ApplicantIDs[0] != vendorProfile.ID {
		t.Errorf("applicants = %v", applied.ApplicantIDs)
	}

	profiles, err := company.JobApplicants(ctx, job.ID)
	if err != nil {
		t.Fatalf("JobApplicants: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Email != "vendor@hourglass.com" {
		t.Errorf("profiles = %+v", profiles)
	}

	updated, err := company.UpdateJob(ctx, job.ID, CreateJobParams{
		Title:          "Senior Licensed Electrician",
		Description:    "Commercial wiring work across several sites",
		Location:       "Austin, TX",
		EmploymentType: "CONTRACT",
		RequiredSkills: []string{"wiring"},
	})
	if err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if updated.Title != "Senior Licensed Electrician" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Status != model.JobOpen {
		t.Errorf("edit must not touch status, got %s", updated.Status)
	}
}

func TestClientSubscriptions(t *testing.T) {
	server := newBackend(t)
	ctx := context.Background()

	company, _ := loggedIn(t, server, "company@hourglass.com")
	ch := company.SubscribeWorkOrders()

	if _, err := company.CreateWorkOrder(ctx, CreateWorkOrderParams{
		Title:       "Notify subscribers",
		Description: "Creation invalidates the work order cache",
	}); err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}

	select {
	case <-ch:
	default:
		t.Error("no signal after creation invalidated the cache")
	}
}
