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

var ErrTimesheetNotFound = errors.New("timesheet not found")

type TimesheetService struct {
	store storage.Store
}

func NewTimesheetService(store storage.Store) *TimesheetService {
	return &TimesheetService{store: store}
}

type TimesheetEntryInput struct {
	Date        time.Time
	Hours       float64
	Description string
	WorkOrderID string
}

type CreateTimesheetInput struct {
	WorkOrderID   string
	WeekStartDate time.Time
	WeekEndDate   time.Time
	Entries       []TimesheetEntryInput
	Notes         string
}

func (s *TimesheetService) Create(ctx context.Context, vendorID, companyID string, in CreateTimesheetInput) (model.Timesheet, error) {
	if in.WorkOrderID == "" {
		return model.Timesheet{}, fmt.Errorf("%w: work order is required", ErrValidation)
	}
	if in.WeekEndDate.Before(in.WeekStartDate) {
		return model.Timesheet{}, fmt.Errorf("%w: week end date must not precede week start date", ErrValidation)
	}
	if len(in.Entries) == 0 {
		return model.Timesheet{}, fmt.Errorf("%w: at least one entry is required", ErrValidation)
	}
	if len(in.Notes) > 1000 {
		return model.Timesheet{}, fmt.Errorf("%w: notes must be at most 1000 characters", ErrValidation)
	}

	entries := make([]model.TimesheetEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		desc := strings.TrimSpace(e.Description)
		if e.Hours < 0.1 || e.Hours > 24 {
			return model.Timesheet{}, fmt.Errorf("%w: entry hours must be between 0.1 and 24", ErrValidation)
		}
		if len(desc) < 3 || len(desc) > 500 {
			return model.Timesheet{}, fmt.Errorf("%w: entry description must be 3-500 characters", ErrValidation)
		}
		entries = append(entries, model.TimesheetEntry{
			Date:        e.Date,
			Hours:       e.Hours,
			Description: desc,
			WorkOrderID: e.WorkOrderID,
		})
	}

	now := time.Now().UTC()
	t := model.Timesheet{
		ID:            uuid.NewString(),
		VendorID:      vendorID,
		CompanyID:     companyID,
		WorkOrderID:   in.WorkOrderID,
		Status:        model.TimesheetDraft,
		WeekStartDate: in.WeekStartDate,
		WeekEndDate:   in.WeekEndDate,
		Entries:       entries,
		TotalHours:    model.SumHours(entries),
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateTimesheet(ctx, t); err != nil {
		return model.Timesheet{}, fmt.Errorf("create timesheet: %w", err)
	}
	return t, nil
}

func (s *TimesheetService) ListForUser(ctx context.Context, userID string, role model.Role) ([]model.Timesheet, error) {
	if role == model.RoleCompany {
		return s.store.TimesheetsByCompany(ctx, userID)
	}
	return s.store.TimesheetsByVendor(ctx, userID)
}

func (s *TimesheetService) Submit(ctx context.Context, id string) (model.Timesheet, error) {
	return s.transition(ctx, id, model.TimesheetSubmitted)
}

func (s *TimesheetService) Approve(ctx context.Context, id string) (model.Timesheet, error) {
	return s.transition(ctx, id, model.TimesheetApproved)
}

func (s *TimesheetService) Reject(ctx context.Context, id string) (model.Timesheet, error) {
	return s.transition(ctx, id, model.TimesheetRejected)
}

func (s *TimesheetService) transition(ctx context.Context, id string, status model.TimesheetStatus) (model.Timesheet, error) {
	t, err := s.store.TimesheetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Timesheet{}, ErrTimesheetNotFound
		}
		return model.Timesheet{}, fmt.Errorf("get timesheet: %w", err)
	}

	if !t.Status.CanTransitionTo(status) {
		return model.Timesheet{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, status)
	}

	now := time.Now().UTC()
	t.Status = status
	t.UpdatedAt = now
	switch status {
	case model.TimesheetSubmitted:
		t.SubmittedDate = &now
	case model.TimesheetApproved:
		t.ApprovedDate = &now
	}

	if err := s.store.UpdateTimesheet(ctx, t); err != nil {
		return model.Timesheet{}, fmt.Errorf("update timesheet: %w", err)
	}
	return t, nil
}
