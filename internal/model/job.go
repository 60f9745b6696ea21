package model

import "time"

// JobStatus follows DRAFT -> OPEN -> CLOSED | FILLED.
type JobStatus string

const (
	JobDraft  JobStatus = "DRAFT"
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
	JobFilled JobStatus = "FILLED"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
)

type Job struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	CompanyID      string         `json:"companyId"`
	Status         JobStatus      `json:"status"`
	RequiredSkills []string       `json:"requiredSkills"`
	Location       string         `json:"location"`
	SalaryMin      float64        `json:"salaryMin,omitempty"`
	SalaryMax      float64        `json:"salaryMax,omitempty"`
	EmploymentType EmploymentType `json:"employmentType"`
	ApplicantIDs   []string       `json:"applicantIds"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (j Job) EntityID() string { return j.ID }
