package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"hourglass/internal/model"
)

// MemoryStore implements Store backed by process memory. It serves as the
// default storage when no database URI is configured, and backs the test
// suite. All returned values are copies; mutations only land via Update*.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]model.User
	workOrders map[string]model.WorkOrder
	timesheets map[string]model.Timesheet
	invoices   map[string]model.Invoice
	jobs       map[string]model.Job
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]model.User),
		workOrders: make(map[string]model.WorkOrder),
		timesheets: make(map[string]model.Timesheet),
		invoices:   make(map[string]model.Invoice),
		jobs:       make(map[string]model.Job),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) ActiveUsersByRole(_ context.Context, role model.Role) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.User
	for _, u := range s.users {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	sortNewestFirst(out, func(u model.User) (string, int64) { return u.ID, u.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) CreateWorkOrder(_ context.Context, w model.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders[w.ID] = cloneWorkOrder(w)
	return nil
}

func (s *MemoryStore) WorkOrderByID(_ context.Context, id string) (model.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workOrders[id]
	if !ok {
		return model.WorkOrder{}, ErrNotFound
	}
	return cloneWorkOrder(w), nil
}

func (s *MemoryStore) UpdateWorkOrder(_ context.Context, w model.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workOrders[w.ID]; !ok {
		return ErrNotFound
	}
	s.workOrders[w.ID] = cloneWorkOrder(w)
	return nil
}

func (s *MemoryStore) WorkOrdersByCompany(_ context.Context, companyID string) ([]model.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.WorkOrder
	for _, w := range s.workOrders {
		if w.CompanyID == companyID {
			out = append(out, cloneWorkOrder(w))
		}
	}
	sortNewestFirst(out, func(w model.WorkOrder) (string, int64) { return w.ID, w.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) WorkOrdersByVendor(_ context.Context, vendorID string) ([]model.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.WorkOrder
	for _, w := range s.workOrders {
		if w.VendorID == vendorID {
			out = append(out, cloneWorkOrder(w))
		}
	}
	sortNewestFirst(out, func(w model.WorkOrder) (string, int64) { return w.ID, w.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) CountWorkOrders(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.workOrders)), nil
}

func (s *MemoryStore) CreateTimesheet(_ context.Context, t model.Timesheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timesheets[t.ID] = cloneTimesheet(t)
	return nil
}

func (s *MemoryStore) TimesheetByID(_ context.Context, id string) (model.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.timesheets[id]
	if !ok {
		return model.Timesheet{}, ErrNotFound
	}
	return cloneTimesheet(t), nil
}

func (s *MemoryStore) UpdateTimesheet(_ context.Context, t model.Timesheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timesheets[t.ID]; !ok {
		return ErrNotFound
	}
	s.timesheets[t.ID] = cloneTimesheet(t)
	return nil
}

func (s *MemoryStore) TimesheetsByVendor(_ context.Context, vendorID string) ([]model.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Timesheet
	for _, t := range s.timesheets {
		if t.VendorID == vendorID {
			out = append(out, cloneTimesheet(t))
		}
	}
	sortNewestFirst(out, func(t model.Timesheet) (string, int64) { return t.ID, t.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) TimesheetsByCompany(_ context.Context, companyID string) ([]model.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Timesheet
	for _, t := range s.timesheets {
		if t.CompanyID == companyID {
			out = append(out, cloneTimesheet(t))
		}
	}
	sortNewestFirst(out, func(t model.Timesheet) (string, int64) { return t.ID, t.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) CreateInvoice(_ context.Context, inv model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *MemoryStore) InvoiceByID(_ context.Context, id string) (model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return model.Invoice{}, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *MemoryStore) UpdateInvoice(_ context.Context, inv model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *MemoryStore) InvoicesByVendor(_ context.Context, vendorID string) ([]model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Invoice
	for _, inv := range s.invoices {
		if inv.VendorID == vendorID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sortNewestFirst(out, func(i model.Invoice) (string, int64) { return i.ID, i.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) InvoicesByCompany(_ context.Context, companyID string) ([]model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Invoice
	for _, inv := range s.invoices {
		if inv.CompanyID == companyID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sortNewestFirst(out, func(i model.Invoice) (string, int64) { return i.ID, i.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) CountInvoices(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.invoices)), nil
}

func (s *MemoryStore) CreateJob(_ context.Context, j model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (s *MemoryStore) JobByID(_ context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.Job{}, ErrNotFound
	}
	return cloneJob(j), nil
}

func (s *MemoryStore) UpdateJob(_ context.Context, j model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID]; !ok {
		return ErrNotFound
	}
	s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (s *MemoryStore) JobsByCompany(_ context.Context, companyID string) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Job
	for _, j := range s.jobs {
		if j.CompanyID == companyID {
			out = append(out, cloneJob(j))
		}
	}
	sortNewestFirst(out, func(j model.Job) (string, int64) { return j.ID, j.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) JobsByStatus(_ context.Context, status model.JobStatus) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Job
	for _, j := range s.jobs {
		if j.Status == status {
			out = append(out, cloneJob(j))
		}
	}
	sortNewestFirst(out, func(j model.Job) (string, int64) { return j.ID, j.CreatedAt.UnixNano() })
	return out, nil
}

func (s *MemoryStore) Jobs(_ context.Context) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, cloneJob(j))
	}
	sortNewestFirst(out, func(j model.Job) (string, int64) { return j.ID, j.CreatedAt.UnixNano() })
	return out, nil
}

// sortNewestFirst orders by creation time descending with id as a stable
// tie-break, so repeated reads yield identical list contents.
func sortNewestFirst[E any](items []E, key func(E) (id string, created int64)) {
	sort.SliceStable(items, func(a, b int) bool {
		idA, tA := key(items[a])
		idB, tB := key(items[b])
		if tA != tB {
			return tA > tB
		}
		return idA < idB
	})
}

func cloneWorkOrder(w model.WorkOrder) model.WorkOrder {
	w.AssignedDate = cloneTime(w.AssignedDate)
	w.DueDate = cloneTime(w.DueDate)
	w.CompletedDate = cloneTime(w.CompletedDate)
	return w
}

func cloneTimesheet(t model.Timesheet) model.Timesheet {
	entries := make([]model.TimesheetEntry, len(t.Entries))
	copy(entries, t.Entries)
	t.Entries = entries
	t.SubmittedDate = cloneTime(t.SubmittedDate)
	t.ApprovedDate = cloneTime(t.ApprovedDate)
	return t
}

func cloneInvoice(inv model.Invoice) model.Invoice {
	items := make([]model.InvoiceItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	inv.DueDate = cloneTime(inv.DueDate)
	inv.PaidDate = cloneTime(inv.PaidDate)
	return inv
}

func cloneJob(j model.Job) model.Job {
	skills := make([]string, len(j.RequiredSkills))
	copy(skills, j.RequiredSkills)
	j.RequiredSkills = skills
	applicants := make([]string, len(j.ApplicantIDs))
	copy(applicants, j.ApplicantIDs)
	j.ApplicantIDs = applicants
	return j
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
