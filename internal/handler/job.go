package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

type jobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employmentType"`
	RequiredSkills []string `json:"requiredSkills,omitempty"`
	SalaryMin      float64  `json:"salaryMin,omitempty"`
	SalaryMax      float64  `json:"salaryMax,omitempty"`
}

func (req jobRequest) toInput() service.CreateJobInput {
	return service.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: model.EmploymentType(req.EmploymentType),
		RequiredSkills: req.RequiredSkills,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
	}
}

func ListJobsHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		role, _ := mw.Role(r.Context())

		jobs, err := svc.ListForUser(r.Context(), userID, role)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if jobs == nil {
			jobs = []model.Job{}
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func CreateJobHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can post jobs")
			return
		}
		userID, _ := mw.UserID(r.Context())

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		job, err := svc.Create(r.Context(), userID, req.toInput())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func UpdateJobHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can edit jobs")
			return
		}

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		job, err := svc.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func UpdateJobStatusHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can change job status")
			return
		}

		id := chi.URLParam(r, "id")
		status := model.JobStatus(r.URL.Query().Get("status"))

		job, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func ApplyForJobHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleVendor {
			writeError(w, http.StatusForbidden, "only vendors can apply for jobs")
			return
		}
		userID, _ := mw.UserID(r.Context())

		job, err := svc.Apply(r.Context(), chi.URLParam(r, "id"), userID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func JobApplicantsHandler(svc *service.JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can view applicants")
			return
		}

		applicants, err := svc.Applicants(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, applicants)
	}
}
