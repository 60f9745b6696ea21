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

var ErrWorkOrderNotFound = errors.New("work order not found")

type WorkOrderService struct {
	store storage.Store
}

func NewWorkOrderService(store storage.Store) *WorkOrderService {
	return &WorkOrderService{store: store}
}

type CreateWorkOrderInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	VendorID    string
}

func (s *WorkOrderService) Create(ctx context.Context, companyID string, in CreateWorkOrderInput) (model.WorkOrder, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if len(in.Title) < 3 || len(in.Title) > 200 {
		return model.WorkOrder{}, fmt.Errorf("%w: title must be 3-200 characters", ErrValidation)
	}
	if len(in.Description) < 10 || len(in.Description) > 2000 {
		return model.WorkOrder{}, fmt.Errorf("%w: description must be 10-2000 characters", ErrValidation)
	}
	if in.DueDate != nil && !in.DueDate.After(time.Now()) {
		return model.WorkOrder{}, fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return model.WorkOrder{}, err
	}

	now := time.Now().UTC()
	w := model.WorkOrder{
		ID:              uuid.NewString(),
		WorkOrderNumber: number,
		Title:           in.Title,
		Description:     in.Description,
		CompanyID:       companyID,
		VendorID:        in.VendorID,
		Status:          model.WorkOrderDraft,
		DueDate:         in.DueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateWorkOrder(ctx, w); err != nil {
		return model.WorkOrder{}, fmt.Errorf("create work order: %w", err)
	}
	return w, nil
}

func (s *WorkOrderService) ListForUser(ctx context.Context, userID string, role model.Role) ([]model.WorkOrder, error) {
	if role == model.RoleCompany {
		return s.store.WorkOrdersByCompany(ctx, userID)
	}
	return s.store.WorkOrdersByVendor(ctx, userID)
}

func (s *WorkOrderService) UpdateStatus(ctx context.Context, id string, status model.WorkOrderStatus) (model.WorkOrder, error) {
	if !status.Valid() {
		return model.WorkOrder{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	w, err := s.get(ctx, id)
	if err != nil {
		return model.WorkOrder{}, err
	}

	if !w.Status.CanTransitionTo(status) {
		return model.WorkOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.Status, status)
	}

	now := time.Now().UTC()
	w.Status = status
	w.UpdatedAt = now
	if status == model.WorkOrderAssigned && w.AssignedDate == nil {
		w.AssignedDate = &now
	}
	if status == model.WorkOrderCompleted {
		w.CompletedDate = &now
	}

	if err := s.store.UpdateWorkOrder(ctx, w); err != nil {
		return model.WorkOrder{}, fmt.Errorf("update work order: %w", err)
	}
	return w, nil
}

func (s *WorkOrderService) Assign(ctx context.Context, id, vendorID string) (model.WorkOrder, error) {
	if vendorID == "" {
		return model.WorkOrder{}, fmt.Errorf("%w: vendorId is required", ErrValidation)
	}

	w, err := s.get(ctx, id)
	if err != nil {
		return model.WorkOrder{}, err
	}

	if !w.Status.CanTransitionTo(model.WorkOrderAssigned) {
		return model.WorkOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.Status, model.WorkOrderAssigned)
	}

	now := time.Now().UTC()
	w.VendorID = vendorID
	w.Status = model.WorkOrderAssigned
	w.AssignedDate = &now
	w.UpdatedAt = now

	if err := s.store.UpdateWorkOrder(ctx, w); err != nil {
		return model.WorkOrder{}, fmt.Errorf("assign work order: %w", err)
	}
	return w, nil
}

// CompanyIDFor resolves the owning company of a work order; timesheet and
// invoice creation attribute the new entity through it.
func (s *WorkOrderService) CompanyIDFor(ctx context.Context, workOrderID string) (string, error) {
	w, err := s.get(ctx, workOrderID)
	if err != nil {
		return "", err
	}
	return w.CompanyID, nil
}

func (s *WorkOrderService) get(ctx context.Context, id string) (model.WorkOrder, error) {
	w, err := s.store.WorkOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.WorkOrder{}, ErrWorkOrderNotFound
		}
		return model.WorkOrder{}, fmt.Errorf("get work order: %w", err)
	}
	return w, nil
}

func (s *WorkOrderService) nextNumber(ctx context.Context) (string, error) {
	count, err := s.store.CountWorkOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("count work orders: %w", err)
	}
	return fmt.Sprintf("WO-%d-%03d", time.Now().Year(), count+1), nil
}
