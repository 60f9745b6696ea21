package service

import (
	"context"
	"fmt"
	"time"

	"hourglass/internal/model"
	"hourglass/internal/storage"
)

type DashboardService struct {
	store storage.Store
}

func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) VendorStats(ctx context.Context, vendorID string) (model.VendorStats, error) {
	var stats model.VendorStats

	jobs, err := s.store.Jobs(ctx)
	if err != nil {
		return stats, fmt.Errorf("list jobs: %w", err)
	}
	for _, j := range jobs {
		for _, a := range j.ApplicantIDs {
			if a == vendorID {
				stats.ActiveJobs++
				break
			}
		}
	}

	workOrders, err := s.store.WorkOrdersByVendor(ctx, vendorID)
	if err != nil {
		return stats, fmt.Errorf("list work orders: %w", err)
	}
	for _, w := range workOrders {
		if w.Status == model.WorkOrderInProgress {
			stats.WorkOrdersInProgress++
		}
	}

	timesheets, err := s.store.TimesheetsByVendor(ctx, vendorID)
	if err != nil {
		return stats, fmt.Errorf("list timesheets: %w", err)
	}
	for _, t := range timesheets {
		if t.Status == model.TimesheetApproved {
			stats.TotalHours += t.TotalHours
		}
	}

	invoices, err := s.store.InvoicesByVendor(ctx, vendorID)
	if err != nil {
		return stats, fmt.Errorf("list invoices: %w", err)
	}
	for _, inv := range invoices {
		if inv.Status == model.InvoicePending {
			stats.PendingInvoicesAmount += inv.TotalAmount
		}
	}

	return stats, nil
}

func (s *DashboardService) CompanyStats(ctx context.Context, companyID string) (model.CompanyStats, error) {
	var stats model.CompanyStats

	workOrders, err := s.store.WorkOrdersByCompany(ctx, companyID)
	if err != nil {
		return stats, fmt.Errorf("list work orders: %w", err)
	}
	vendors := make(map[string]struct{})
	for _, w := range workOrders {
		if w.VendorID != "" {
			vendors[w.VendorID] = struct{}{}
		}
		if w.Status == model.WorkOrderInProgress {
			stats.WorkOrdersInProgress++
		}
	}
	stats.ActiveVendors = len(vendors)

	jobs, err := s.store.JobsByCompany(ctx, companyID)
	if err != nil {
		return stats, fmt.Errorf("list jobs: %w", err)
	}
	for _, j := range jobs {
		if j.Status == model.JobOpen {
			stats.OpenPositions++
		}
	}

	invoices, err := s.store.InvoicesByCompany(ctx, companyID)
	if err != nil {
		return stats, fmt.Errorf("list invoices: %w", err)
	}
	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)
	for _, inv := range invoices {
		if inv.Status != model.InvoicePaid || inv.PaidDate == nil {
			continue
		}
		// Half-open window: the first instant of the month counts, the
		// first instant of the next month does not.
		paid := inv.PaidDate.UTC()
		if !paid.Before(startOfMonth) && paid.Before(endOfMonth) {
			stats.MonthlySpend += inv.TotalAmount
		}
	}

	return stats, nil
}
