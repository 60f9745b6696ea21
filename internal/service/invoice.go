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

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceService struct {
	store storage.Store
}

func NewInvoiceService(store storage.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

type InvoiceItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

type CreateInvoiceInput struct {
	WorkOrderID string
	Items       []InvoiceItemInput
	DueDate     *time.Time
}

func (s *InvoiceService) Create(ctx context.Context, vendorID, companyID string, in CreateInvoiceInput) (model.Invoice, error) {
	if in.WorkOrderID == "" {
		return model.Invoice{}, fmt.Errorf("%w: work order is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return model.Invoice{}, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	items := make([]model.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		desc := strings.TrimSpace(it.Description)
		if len(desc) < 3 || len(desc) > 500 {
			return model.Invoice{}, fmt.Errorf("%w: item description must be 3-500 characters", ErrValidation)
		}
		if it.Quantity < 0.1 {
			return model.Invoice{}, fmt.Errorf("%w: item quantity must be at least 0.1", ErrValidation)
		}
		if it.UnitPrice < 0.01 {
			return model.Invoice{}, fmt.Errorf("%w: item unit price must be at least 0.01", ErrValidation)
		}
		items = append(items, model.InvoiceItem{
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	subtotal, tax, total := model.ComputeTotals(items)

	number, err := s.nextNumber(ctx)
	if err != nil {
		return model.Invoice{}, err
	}

	now := time.Now().UTC()
	inv := model.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		VendorID:      vendorID,
		CompanyID:     companyID,
		WorkOrderID:   in.WorkOrderID,
		Status:        model.InvoiceDraft,
		Items:         items,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalAmount:   total,
		DueDate:       in.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return model.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) ListForUser(ctx context.Context, userID string, role model.Role) ([]model.Invoice, error) {
	if role == model.RoleCompany {
		return s.store.InvoicesByCompany(ctx, userID)
	}
	return s.store.InvoicesByVendor(ctx, userID)
}

func (s *InvoiceService) Submit(ctx context.Context, id string) (model.Invoice, error) {
	return s.transition(ctx, id, model.InvoicePending)
}

func (s *InvoiceService) Approve(ctx context.Context, id string) (model.Invoice, error) {
	return s.transition(ctx, id, model.InvoiceApproved)
}

func (s *InvoiceService) Reject(ctx context.Context, id string) (model.Invoice, error) {
	return s.transition(ctx, id, model.InvoiceRejected)
}

func (s *InvoiceService) MarkPaid(ctx context.Context, id string) (model.Invoice, error) {
	return s.transition(ctx, id, model.InvoicePaid)
}

func (s *InvoiceService) transition(ctx context.Context, id string, status model.InvoiceStatus) (model.Invoice, error) {
	inv, err := s.store.InvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Invoice{}, ErrInvoiceNotFound
		}
		return model.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	if !inv.Status.CanTransitionTo(status) {
		return model.Invoice{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, status)
	}

	now := time.Now().UTC()
	inv.Status = status
	inv.UpdatedAt = now
	if status == model.InvoicePaid {
		inv.PaidDate = &now
	}

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return model.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) nextNumber(ctx context.Context) (string, error) {
	count, err := s.store.CountInvoices(ctx)
	if err != nil {
		return "", fmt.Errorf("count invoices: %w", err)
	}
	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), count+1), nil
}
