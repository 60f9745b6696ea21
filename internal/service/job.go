package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hourglass/internal/model"
	"hourglass/internal/storage"
)

var ErrJobNotFound = errors.New("job not found")

type JobService struct {
	store storage.Store
}

func NewJobService(store storage.Store) *JobService {
	return &JobService{store: store}
}

type CreateJobInput struct {
	Title          string
	Description    string
	Location       string
	EmploymentType model.EmploymentType
	RequiredSkills []string
	SalaryMin      float64
	SalaryMax      float64
}

func (in *CreateJobInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if len(in.Title) < 3 || len(in.Title) > 100 {
		return fmt.Errorf("%w: title must be 3-100 characters", ErrValidation)
	}
	if len(in.Description) < 10 || len(in.Description) > 2000 {
		return fmt.Errorf("%w: description must be 10-2000 characters", ErrValidation)
	}
	if len(in.Location) < 2 || len(in.Location) > 100 {
		return fmt.Errorf("%w: location must be 2-100 characters", ErrValidation)
	}
	switch in.EmploymentType {
	case model.EmploymentFullTime, model.EmploymentPartTime, model.EmploymentContract:
	default:
		return fmt.Errorf("%w: unknown employment type %q", ErrValidation, in.EmploymentType)
	}
	if len(in.RequiredSkills) == 0 || len(in.RequiredSkills) > 20 {
		return fmt.Errorf("%w: between 1 and 20 skills required", ErrValidation)
	}
	if in.SalaryMin > 0 && in.SalaryMax > 0 && in.SalaryMax < in.SalaryMin {
		return fmt.Errorf("%w: maximum salary must not be below minimum salary", ErrValidation)
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, companyID string, in CreateJobInput) (model.Job, error) {
	if err := in.validate(); err != nil {
		return model.Job{}, err
	}

	now := time.Now().UTC()
	j := model.Job{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		CompanyID:      companyID,
		Status:         model.JobDraft,
		RequiredSkills: in.RequiredSkills,
		Location:       in.Location,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		EmploymentType: in.EmploymentType,
		ApplicantIDs:   []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateJob(ctx, j); err != nil {
		return model.Job{}, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

// ListForUser returns the company's own postings, or all open postings for
// vendors browsing work.
func (s *JobService) ListForUser(ctx context.Context, userID string, role model.Role) ([]model.Job, error) {
	if role == model.RoleCompany {
		return s.store.JobsByCompany(ctx, userID)
	}
	return s.store.JobsByStatus(ctx, model.JobOpen)
}

func (s *JobService) UpdateStatus(ctx context.Context, id string, status model.JobStatus) (model.Job, error) {
	if !status.Valid() {
		return model.Job{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	j, err := s.get(ctx, id)
	if err != nil {
		return model.Job{}, err
	}

	if !j.Status.CanTransitionTo(status) {
		return model.Job{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, status)
	}

	j.Status = status
	j.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateJob(ctx, j); err != nil {
		return model.Job{}, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

func (s *JobService) Update(ctx context.Context, id string, in CreateJobInput) (model.Job, error) {
	if err := in.validate(); err != nil {
		return model.Job{}, err
	}

	j, err := s.get(ctx, id)
	if err != nil {
		return model.Job{}, err
	}

	j.Title = in.Title
	j.Description = in.Description
	j.Location = in.Location
	j.RequiredSkills = in.RequiredSkills
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.EmploymentType = in.EmploymentType
	j.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateJob(ctx, j); err != nil {
		return model.Job{}, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

// Apply records a vendor's application. Applying twice is a no-op.
func (s *JobService) Apply(ctx context.Context, id, vendorID string) (model.Job, error) {
	j, err := s.get(ctx, id)
	if err != nil {
		return model.Job{}, err
	}

	for _, a := range j.ApplicantIDs {
		if a == vendorID {
			return j, nil
		}
	}

	j.ApplicantIDs = append(j.ApplicantIDs, vendorID)
	j.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateJob(ctx, j); err != nil {
		return model.Job{}, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

// Applicants resolves a job's applicant ids to user profiles, skipping ids
// that no longer resolve.
func (s *JobService) Applicants(ctx context.Context, id string) ([]model.Profile, error) {
	j, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(j.ApplicantIDs))
	for _, vendorID := range j.ApplicantIDs {
		u, err := s.store.UserByID(ctx, vendorID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get applicant: %w", err)
		}
		profiles = append(profiles, ProfileOf(u))
	}
	return profiles, nil
}

func (s *JobService) get(ctx context.Context, id string) (model.Job, error) {
	j, err := s.store.JobByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Job{}, ErrJobNotFound
		}
		return model.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}
