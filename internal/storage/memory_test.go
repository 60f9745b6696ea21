package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"hourglass/internal/model"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u := model.User{
		ID:    "u1",
		Email: "vendor@hourglass.com",
		Name:  "Vendor User",
		Role:  model.RoleVendor,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	t.Run("duplicate email", func(t *testing.T) {
		dup := model.User{ID: "u2", Email: "vendor@hourglass.com"}
		if err := store.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicate) {
			t.Errorf("got %v, want ErrDuplicate", err)
		}
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := store.UserByEmail(ctx, "vendor@hourglass.com")
		if err != nil {
			t.Fatalf("UserByEmail: %v", err)
		}
		if got.ID != "u1" {
			t.Errorf("got id %q, want u1", got.ID)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.UserByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryStoreWorkOrders(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	orders := []model.WorkOrder{
		{ID: "w1", CompanyID: "c1", VendorID: "v1", Status: model.WorkOrderOpen, CreatedAt: base},
		{ID: "w2", CompanyID: "c1", Status: model.WorkOrderDraft, CreatedAt: base.Add(time.Hour)},
		{ID: "w3", CompanyID: "c2", VendorID: "v1", Status: model.WorkOrderOpen, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, w := range orders {
		if err := store.CreateWorkOrder(ctx, w); err != nil {
			t.Fatalf("CreateWorkOrder(%s): %v", w.ID, err)
		}
	}

	t.Run("scoped by company newest first", func(t *testing.T) {
		got, err := store.WorkOrdersByCompany(ctx, "c1")
		if err != nil {
			t.Fatalf("WorkOrdersByCompany: %v", err)
		}
		if len(got) != 2 || got[0].ID != "w2" || got[1].ID != "w1" {
			t.Errorf("got %v, want [w2 w1]", ids(got, func(w model.WorkOrder) string { return w.ID }))
		}
	})

	t.Run("scoped by vendor", func(t *testing.T) {
		got, err := store.WorkOrdersByVendor(ctx, "v1")
		if err != nil {
			t.Fatalf("WorkOrdersByVendor: %v", err)
		}
		if len(got) != 2 || got[0].ID != "w3" || got[1].ID != "w1" {
			t.Errorf("got %v, want [w3 w1]", ids(got, func(w model.WorkOrder) string { return w.ID }))
		}
	})

	t.Run("listing twice returns identical order", func(t *testing.T) {
		first, _ := store.WorkOrdersByCompany(ctx, "c1")
		second, _ := store.WorkOrdersByCompany(ctx, "c1")
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("position %d: %s vs %s", i, first[i].ID, second[i].ID)
			}
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.CountWorkOrders(ctx)
		if err != nil {
			t.Fatalf("CountWorkOrders: %v", err)
		}
		if n != 3 {
			t.Errorf("count = %d, want 3", n)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		err := store.UpdateWorkOrder(ctx, model.WorkOrder{ID: "ghost"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("returned values are isolated copies", func(t *testing.T) {
		got, err := store.WorkOrderByID(ctx, "w1")
		if err != nil {
			t.Fatalf("WorkOrderByID: %v", err)
		}
		got.Status = model.WorkOrderCancelled

		again, _ := store.WorkOrderByID(ctx, "w1")
		if again.Status != model.WorkOrderOpen {
			t.Errorf("stored status changed to %s through a returned copy", again.Status)
		}
	})
}

func TestMemoryStoreTimesheetCloneIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ts := model.Timesheet{
		ID:       "t1",
		VendorID: "v1",
		Entries:  []model.TimesheetEntry{{Hours: 8, Description: "site work"}},
	}
	if err := store.CreateTimesheet(ctx, ts); err != nil {
		t.Fatalf("CreateTimesheet: %v", err)
	}

	got, err := store.TimesheetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("TimesheetByID: %v", err)
	}
	got.Entries[0].Hours = 99

	again, _ := store.TimesheetByID(ctx, "t1")
	if again.Entries[0].Hours != 8 {
		t.Errorf("stored entry mutated through a returned slice")
	}
}

func TestMemoryStoreJobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		{ID: "j1", CompanyID: "c1", Status: model.JobOpen, CreatedAt: base},
		{ID: "j2", CompanyID: "c1", Status: model.JobDraft, CreatedAt: base.Add(time.Hour)},
		{ID: "j3", CompanyID: "c2", Status: model.JobOpen, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, j := range jobs {
		if err := store.CreateJob(ctx, j); err != nil {
			t.Fatalf("CreateJob(%s): %v", j.ID, err)
		}
	}

	t.Run("by status", func(t *testing.T) {
		got, err := store.JobsByStatus(ctx, model.JobOpen)
		if err != nil {
			t.Fatalf("JobsByStatus: %v", err)
		}
		if len(got) != 2 || got[0].ID != "j3" || got[1].ID != "j1" {
			t.Errorf("got %v, want [j3 j1]", ids(got, func(j model.Job) string { return j.ID }))
		}
	})

	t.Run("by company", func(t *testing.T) {
		got, err := store.JobsByCompany(ctx, "c1")
		if err != nil {
			t.Fatalf("JobsByCompany: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d jobs, want 2", len(got))
		}
	})

	t.Run("all", func(t *testing.T) {
		got, err := store.Jobs(ctx)
		if err != nil {
			t.Fatalf("Jobs: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d jobs, want 3", len(got))
		}
	})
}

func ids[E any](items []E, id func(E) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
