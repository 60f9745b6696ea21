package client

import (
	"strings"
	"time"

	"hourglass/internal/model"
)

// Derived views over cached lists. Everything here is pure: inputs are
// never mutated, output depends only on the arguments, so results are
// identical regardless of evaluation order.

// CountByStatus builds a status histogram from a list snapshot.
func CountByStatus[E any, S ~string](items []E, status func(E) S) map[S]int {
	counts := make(map[S]int, len(items))
	for _, it := range items {
		counts[status(it)]++
	}
	return counts
}

// FilterWorkOrders keeps orders matching the status (empty matches all) and
// the query, compared case-insensitively against title, description and
// work order number.
func FilterWorkOrders(items []model.WorkOrder, status model.WorkOrderStatus, query string) []model.WorkOrder {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.WorkOrder, 0, len(items))
	for _, w := range items {
		if status != "" && w.Status != status {
			continue
		}
		if q != "" && !matchesQuery(q, w.Title, w.Description, w.WorkOrderNumber) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func FilterTimesheets(items []model.Timesheet, status model.TimesheetStatus, query string) []model.Timesheet {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Timesheet, 0, len(items))
	for _, t := range items {
		if status != "" && t.Status != status {
			continue
		}
		if q != "" && !matchesQuery(q, t.Notes, t.WorkOrderID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func FilterInvoices(items []model.Invoice, status model.InvoiceStatus, query string) []model.Invoice {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Invoice, 0, len(items))
	for _, inv := range items {
		if status != "" && inv.Status != status {
			continue
		}
		if q != "" && !matchesQuery(q, inv.InvoiceNumber, inv.WorkOrderID) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func FilterJobs(items []model.Job, status model.JobStatus, query string) []model.Job {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Job, 0, len(items))
	for _, j := range items {
		if status != "" && j.Status != status {
			continue
		}
		if q != "" && !matchesQuery(q, j.Title, j.Description, j.Location) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func matchesQuery(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ApprovedHours sums the total hours of approved timesheets.
func ApprovedHours(items []model.Timesheet) float64 {
	var total float64
	for _, t := range items {
		if t.Status == model.TimesheetApproved {
			total += t.TotalHours
		}
	}
	return total
}

// PendingInvoiceAmount sums the totals of invoices awaiting approval.
func PendingInvoiceAmount(items []model.Invoice) float64 {
	var total float64
	for _, inv := range items {
		if inv.Status == model.InvoicePending {
			total += inv.TotalAmount
		}
	}
	return total
}

// MonthlySpend sums invoices paid within the month containing ref, in UTC.
func MonthlySpend(items []model.Invoice, ref time.Time) float64 {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var total float64
	for _, inv := range items {
		if inv.Status != model.InvoicePaid || inv.PaidDate == nil {
			continue
		}
		paid := inv.PaidDate.UTC()
		if !paid.Before(start) && paid.Before(end) {
			total += inv.TotalAmount
		}
	}
	return total
}

// LocalVendorStats computes the vendor dashboard from cached lists for the
// given vendor, matching what the authority reports for the same data.
func LocalVendorStats(vendorID string, jobs []model.Job, workOrders []model.WorkOrder, timesheets []model.Timesheet, invoices []model.Invoice) model.VendorStats {
	var stats model.VendorStats
	for _, j := range jobs {
		for _, id := range j.ApplicantIDs {
			if id == vendorID {
				stats.ActiveJobs++
				break
			}
		}
	}
	for _, w := range workOrders {
		if w.VendorID == vendorID && w.Status == model.WorkOrderInProgress {
			stats.WorkOrdersInProgress++
		}
	}
	for _, t := range timesheets {
		if t.VendorID == vendorID && t.Status == model.TimesheetApproved {
			stats.TotalHours += t.TotalHours
		}
	}
	for _, inv := range invoices {
		if inv.VendorID == vendorID && inv.Status == model.InvoicePending {
			stats.PendingInvoicesAmount += inv.TotalAmount
		}
	}
	return stats
}

// LocalCompanyStats computes the company dashboard from cached lists.
func LocalCompanyStats(companyID string, jobs []model.Job, workOrders []model.WorkOrder, invoices []model.Invoice, now time.Time) model.CompanyStats {
	var stats model.CompanyStats
	vendors := make(map[string]struct{})
	for _, w := range workOrders {
		if w.CompanyID != companyID {
			continue
		}
		if w.VendorID != "" {
			vendors[w.VendorID] = struct{}{}
		}
		if w.Status == model.WorkOrderInProgress {
			stats.WorkOrdersInProgress++
		}
	}
	stats.ActiveVendors = len(vendors)
	for _, j := range jobs {
		if j.CompanyID == companyID && j.Status == model.JobOpen {
			stats.OpenPositions++
		}
	}
	companyInvoices := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.CompanyID == companyID {
			companyInvoices = append(companyInvoices, inv)
		}
	}
	stats.MonthlySpend = MonthlySpend(companyInvoices, now)
	return stats
}
