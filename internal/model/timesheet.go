package model

import "time"

// TimesheetStatus follows DRAFT -> SUBMITTED -> APPROVED | REJECTED.
type TimesheetStatus string

const (
	TimesheetDraft     TimesheetStatus = "DRAFT"
	TimesheetSubmitted TimesheetStatus = "SUBMITTED"
	TimesheetApproved  TimesheetStatus = "APPROVED"
	TimesheetRejected  TimesheetStatus = "REJECTED"
)

type TimesheetEntry struct {
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	WorkOrderID string    `json:"workOrderId"`
}

type Timesheet struct {
	ID            string           `json:"id"`
	VendorID      string           `json:"vendorId"`
	CompanyID     string           `json:"companyId"`
	WorkOrderID   string           `json:"workOrderId"`
	Status        TimesheetStatus  `json:"status"`
	WeekStartDate time.Time        `json:"weekStartDate"`
	WeekEndDate   time.Time        `json:"weekEndDate"`
	Entries       []TimesheetEntry `json:"entries"`
	TotalHours    float64          `json:"totalHours"`
	Notes         string           `json:"notes,omitempty"`
	SubmittedDate *time.Time       `json:"submittedDate,omitempty"`
	ApprovedDate  *time.Time       `json:"approvedDate,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (t Timesheet) EntityID() string { return t.ID }

// SumHours computes the timesheet total from its entries.
func SumHours(entries []TimesheetEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
