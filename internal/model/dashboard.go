package model

// VendorStats is the vendor dashboard payload. TotalHours counts approved
// timesheets only; PendingInvoicesAmount sums invoices awaiting approval.
type VendorStats struct {
	ActiveJobs            int     `json:"activeJobs"`
	WorkOrdersInProgress  int     `json:"workOrdersInProgress"`
	TotalHours            float64 `json:"totalHours"`
	PendingInvoicesAmount float64 `json:"pendingInvoicesAmount"`
}

// CompanyStats is the company dashboard payload. MonthlySpend sums invoices
// paid within the current calendar month.
type CompanyStats struct {
	ActiveVendors        int     `json:"activeVendors"`
	OpenPositions        int     `json:"openPositions"`
	WorkOrdersInProgress int     `json:"workOrdersInProgressCompany"`
	MonthlySpend         float64 `json:"monthlySpend"`
}
