package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hourglass/internal/model"
	"hourglass/internal/storage"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewAuthService(store)

	t.Run("create and authenticate", func(t *testing.T) {
		u, err := svc.CreateUser(ctx, "Vendor@Hourglass.com ", "password123", "Vendor User", model.RoleVendor)
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if u.Email != "vendor@hourglass.com" {
			t.Errorf("email not normalized: %q", u.Email)
		}

		got, err := svc.Authenticate(ctx, "vendor@hourglass.com", "password123")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if got.ID != u.ID {
			t.Errorf("authenticated wrong user")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "vendor@hourglass.com", "nope")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@hourglass.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "vendor@hourglass.com", "other", "Dup", model.RoleVendor)
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("got %v, want ErrEmailTaken", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt: %v", err)
		}
		now := time.Now().UTC()
		if err := store.CreateUser(ctx, model.User{
			ID:           "inactive-1",
			Email:        "inactive@hourglass.com",
			PasswordHash: hash,
			Name:         "Inactive",
			Role:         model.RoleVendor,
			Active:       false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}

		_, err = svc.Authenticate(ctx, "inactive@hourglass.com", "password123")
		if !errors.Is(err, ErrInactiveAccount) {
			t.Errorf("got %v, want ErrInactiveAccount", err)
		}
	})
}

func TestEnsureSeedUsers(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(storage.NewMemoryStore())

	if err := svc.EnsureSeedUsers(ctx); err != nil {
		t.Fatalf("EnsureSeedUsers: %v", err)
	}

	vendor, err := svc.Authenticate(ctx, "vendor@hourglass.com", "password123")
	if err != nil {
		t.Fatalf("vendor seed missing: %v", err)
	}
	if vendor.Role != model.RoleVendor {
		t.Errorf("vendor role = %s", vendor.Role)
	}

	company, err := svc.Authenticate(ctx, "company@hourglass.com", "password123")
	if err != nil {
		t.Fatalf("company seed missing: %v", err)
	}
	if company.Role != model.RoleCompany {
		t.Errorf("company role = %s", company.Role)
	}

	// Running twice must not fail or duplicate.
	if err := svc.EnsureSeedUsers(ctx); err != nil {
		t.Fatalf("second EnsureSeedUsers: %v", err)
	}
}

func TestProfileOf(t *testing.T) {
	p := ProfileOf(model.User{ID: "u1", Email: "a@b.c", Name: "A", Role: model.RoleCompany})
	if p.Role != "company" {
		t.Errorf("role = %q, want company", p.Role)
	}
}
