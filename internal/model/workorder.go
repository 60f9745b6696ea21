package model

import "time"

// WorkOrderStatus follows a forward-only chain:
// DRAFT -> OPEN -> ASSIGNED -> IN_PROGRESS -> COMPLETED, with CANCELLED
// reachable from any non-terminal state.
type WorkOrderStatus string

const (
	WorkOrderDraft      WorkOrderStatus = "DRAFT"
	WorkOrderOpen       WorkOrderStatus = "OPEN"
	WorkOrderAssigned   WorkOrderStatus = "ASSIGNED"
	WorkOrderInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderCancelled  WorkOrderStatus = "CANCELLED"
)

type WorkOrder struct {
	ID              string          `json:"id"`
	WorkOrderNumber string          `json:"workOrderNumber"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	CompanyID       string          `json:"companyId"`
	VendorID        string          `json:"vendorId,omitempty"`
	Status          WorkOrderStatus `json:"status"`
	AssignedDate    *time.Time      `json:"assignedDate,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	CompletedDate   *time.Time      `json:"completedDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (w WorkOrder) EntityID() string { return w.ID }
