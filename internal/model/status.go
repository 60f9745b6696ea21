package model

// Allowed forward transitions per entity. Terminal states have no entry, so
// any transition out of them is rejected. Lifecycles are monotonic: nothing
// reopens a COMPLETED, CANCELLED, PAID or REJECTED entity.

var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderDraft:      {WorkOrderOpen, WorkOrderCancelled},
	WorkOrderOpen:       {WorkOrderAssigned, WorkOrderCancelled},
	WorkOrderAssigned:   {WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderCompleted, WorkOrderCancelled},
}

var timesheetTransitions = map[TimesheetStatus][]TimesheetStatus{
	TimesheetDraft:     {TimesheetSubmitted},
	TimesheetSubmitted: {TimesheetApproved, TimesheetRejected},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:    {InvoicePending},
	InvoicePending:  {InvoiceApproved, InvoiceRejected},
	InvoiceApproved: {InvoicePaid},
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobDraft: {JobOpen},
	JobOpen:  {JobClosed, JobFilled},
}

func contains[S ~string](allowed []S, to S) bool {
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func (s WorkOrderStatus) CanTransitionTo(to WorkOrderStatus) bool {
	return contains(workOrderTransitions[s], to)
}

func (s TimesheetStatus) CanTransitionTo(to TimesheetStatus) bool {
	return contains(timesheetTransitions[s], to)
}

func (s InvoiceStatus) CanTransitionTo(to InvoiceStatus) bool {
	return contains(invoiceTransitions[s], to)
}

func (s JobStatus) CanTransitionTo(to JobStatus) bool {
	return contains(jobTransitions[s], to)
}

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderDraft, WorkOrderOpen, WorkOrderAssigned, WorkOrderInProgress, WorkOrderCompleted, WorkOrderCancelled:
		return true
	}
	return false
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobDraft, JobOpen, JobClosed, JobFilled:
		return true
	}
	return false
}
