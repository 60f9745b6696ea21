package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

type timesheetEntryRequest struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	WorkOrderID string  `json:"workOrderId"`
}

type createTimesheetRequest struct {
	WorkOrderID   string                  `json:"workOrderId"`
	VendorID      string                  `json:"vendorId,omitempty"`
	WeekStartDate string                  `json:"weekStartDate"`
	WeekEndDate   string                  `json:"weekEndDate"`
	Entries       []timesheetEntryRequest `json:"entries"`
	Notes         string                  `json:"notes,omitempty"`
}

func ListTimesheetsHandler(svc *service.TimesheetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		role, _ := mw.Role(r.Context())

		timesheets, err := svc.ListForUser(r.Context(), userID, role)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if timesheets == nil {
			timesheets = []model.Timesheet{}
		}
		writeJSON(w, http.StatusOK, timesheets)
	}
}

func CreateTimesheetHandler(svc *service.TimesheetService, woSvc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		role, _ := mw.Role(r.Context())

		var req createTimesheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Companies can file a timesheet on a vendor's behalf; then the
		// payload must name the vendor.
		var vendorID, companyID string
		if role == model.RoleCompany {
			if req.VendorID == "" {
				writeError(w, http.StatusBadRequest, "vendorId is required")
				return
			}
			vendorID = req.VendorID
			companyID = userID
		} else {
			vendorID = userID
			var err error
			companyID, err = woSvc.CompanyIDFor(r.Context(), req.WorkOrderID)
			if err != nil {
				handleServiceError(w, err)
				return
			}
		}

		in, err := toTimesheetInput(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format")
			return
		}

		timesheet, err := svc.Create(r.Context(), vendorID, companyID, in)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, timesheet)
	}
}

func toTimesheetInput(req createTimesheetRequest) (service.CreateTimesheetInput, error) {
	weekStart, err := parseDate(req.WeekStartDate)
	if err != nil {
		return service.CreateTimesheetInput{}, err
	}
	weekEnd, err := parseDate(req.WeekEndDate)
	if err != nil {
		return service.CreateTimesheetInput{}, err
	}

	entries := make([]service.TimesheetEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		date, err := parseDate(e.Date)
		if err != nil {
			return service.CreateTimesheetInput{}, err
		}
		entries = append(entries, service.TimesheetEntryInput{
			Date:        date,
			Hours:       e.Hours,
			Description: e.Description,
			WorkOrderID: e.WorkOrderID,
		})
	}

	return service.CreateTimesheetInput{
		WorkOrderID:   req.WorkOrderID,
		WeekStartDate: weekStart,
		WeekEndDate:   weekEnd,
		Entries:       entries,
		Notes:         req.Notes,
	}, nil
}

func SubmitTimesheetHandler(svc *service.TimesheetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleVendor {
			writeError(w, http.StatusForbidden, "only vendors can submit timesheets")
			return
		}
		timesheet, err := svc.Submit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, timesheet)
	}
}

func ApproveTimesheetHandler(svc *service.TimesheetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can approve timesheets")
			return
		}
		timesheet, err := svc.Approve(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, timesheet)
	}
}

func RejectTimesheetHandler(svc *service.TimesheetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can reject timesheets")
			return
		}
		timesheet, err := svc.Reject(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, timesheet)
	}
}
