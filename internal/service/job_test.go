package service

import (
	"context"
	"errors"
	"testing"

	"hourglass/internal/model"
	"hourglass/internal/storage"
)

func validJobInput() CreateJobInput {
	return CreateJobInput{
		Title:          "Licensed Electrician",
		Description:    "Commercial wiring work across several sites",
		Location:       "Austin, TX",
		EmploymentType: model.EmploymentContract,
		RequiredSkills: []string{"wiring", "conduit"},
		SalaryMin:      60000,
		SalaryMax:      80000,
	}
}

func TestJobCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(storage.NewMemoryStore())

	t.Run("creates draft posting", func(t *testing.T) {
		j, err := svc.Create(ctx, "c1", validJobInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if j.Status != model.JobDraft {
			t.Errorf("status = %s, want DRAFT", j.Status)
		}
		if j.ApplicantIDs == nil {
			t.Error("applicant list should be initialized")
		}
	})

	t.Run("rejects unknown employment type", func(t *testing.T) {
		in := validJobInput()
		in.EmploymentType = "GIG"
		if _, err := svc.Create(ctx, "c1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("requires at least one skill", func(t *testing.T) {
		in := validJobInput()
		in.RequiredSkills = nil
		if _, err := svc.Create(ctx, "c1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("rejects inverted salary range", func(t *testing.T) {
		in := validJobInput()
		in.SalaryMin, in.SalaryMax = 90000, 50000
		if _, err := svc.Create(ctx, "c1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})
}

func TestJobListScoping(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(storage.NewMemoryStore())

	if _, err := svc.Create(ctx, "c1", validJobInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	open, err := svc.Create(ctx, "c1", validJobInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, open.ID, model.JobOpen); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	t.Run("company sees all of its postings", func(t *testing.T) {
		got, err := svc.ListForUser(ctx, "c1", model.RoleCompany)
		if err != nil {
			t.Fatalf("ListForUser: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d jobs, want 2", len(got))
		}
	})

	t.Run("vendor sees only open postings", func(t *testing.T) {
		got, err := svc.ListForUser(ctx, "v1", model.RoleVendor)
		if err != nil {
			t.Fatalf("ListForUser: %v", err)
		}
		if len(got) != 1 || got[0].ID != open.ID {
			t.Errorf("vendor list should contain only the open posting, got %d", len(got))
		}
	})
}

func TestJobApply(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewJobService(store)
	auth := NewAuthService(store)

	vendor, err := auth.CreateUser(ctx, "sparky@example.com", "password123", "Sparky", model.RoleVendor)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	j, err := svc.Create(ctx, "c1", validJobInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("records application once", func(t *testing.T) {
		got, err := svc.Apply(ctx, j.ID, vendor.ID)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if len(got.ApplicantIDs) != 1 {
			t.Fatalf("got %d applicants, want 1", len(got.ApplicantIDs))
		}

		got, err = svc.Apply(ctx, j.ID, vendor.ID)
		if err != nil {
			t.Fatalf("Apply again: %v", err)
		}
		if len(got.ApplicantIDs) != 1 {
			t.Errorf("reapplying duplicated the applicant: %d", len(got.ApplicantIDs))
		}
	})

	t.Run("resolves applicant profiles", func(t *testing.T) {
		profiles, err := svc.Applicants(ctx, j.ID)
		if err != nil {
			t.Fatalf("Applicants: %v", err)
		}
		if len(profiles) != 1 {
			t.Fatalf("got %d profiles, want 1", len(profiles))
		}
		if profiles[0].Email != "sparky@example.com" {
			t.Errorf("email = %q", profiles[0].Email)
		}
		if profiles[0].Role != "vendor" {
			t.Errorf("role = %q, want lower-case vendor", profiles[0].Role)
		}
	})

	t.Run("skips unresolvable applicants", func(t *testing.T) {
		if _, err := svc.Apply(ctx, j.ID, "deleted-user"); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		profiles, err := svc.Applicants(ctx, j.ID)
		if err != nil {
			t.Fatalf("Applicants: %v", err)
		}
		if len(profiles) != 1 {
			t.Errorf("got %d profiles, want 1", len(profiles))
		}
	})

	t.Run("missing job", func(t *testing.T) {
		if _, err := svc.Apply(ctx, "ghost", vendor.ID); !errors.Is(err, ErrJobNotFound) {
			t.Errorf("got %v, want ErrJobNotFound", err)
		}
	})
}

func TestJobUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(storage.NewMemoryStore())

	j, err := svc.Create(ctx, "c1", validJobInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validJobInput()
	in.Title = "Senior Electrician"
	got, err := svc.Update(ctx, j.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Senior Electrician" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Status != model.JobDraft {
		t.Errorf("update must not touch status, got %s", got.Status)
	}
}
