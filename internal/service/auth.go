package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hourglass/internal/model"
	"hourglass/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	store storage.Store
}

func NewAuthService(store storage.Store) *AuthService {
	return &AuthService{store: store}
}

func (s *AuthService) CreateUser(ctx context.Context, email, password, name string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}

	if !user.Active {
		return model.User{}, ErrInactiveAccount
	}

	return user, nil
}

func (s *AuthService) UserByID(ctx context.Context, id string) (model.User, error) {
	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ActiveVendors returns the active vendor roster as profiles, newest first.
func (s *AuthService) ActiveVendors(ctx context.Context) ([]model.Profile, error) {
	users, err := s.store.ActiveUsersByRole(ctx, model.RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	profiles := make([]model.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, ProfileOf(u))
	}
	return profiles, nil
}

// ProfileOf shapes a user for API responses, lower-casing the role the way
// the login contract expects.
func ProfileOf(u model.User) model.Profile {
	return model.Profile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  strings.ToLower(string(u.Role)),
	}
}

// EnsureSeedUsers creates the default vendor and company accounts when they
// do not exist yet.
func (s *AuthService) EnsureSeedUsers(ctx context.Context) error {
	seeds := []struct {
		email string
		name  string
		role  model.Role
	}{
		{"vendor@hourglass.com", "Vendor User", model.RoleVendor},
		{"company@hourglass.com", "Company User", model.RoleCompany},
	}

	for _, seed := range seeds {
		_, err := s.store.UserByEmail(ctx, seed.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check seed user %s: %w", seed.email, err)
		}
		if _, err := s.CreateUser(ctx, seed.email, "password123", seed.name, seed.role); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.email, err)
		}
	}

	return nil
}
