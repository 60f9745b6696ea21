package handler

import (
	"net/http"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

func VendorStatsHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleVendor {
			writeError(w, http.StatusForbidden, "vendor dashboard requires a vendor account")
			return
		}
		userID, _ := mw.UserID(r.Context())

		stats, err := svc.VendorStats(r.Context(), userID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func CompanyStatsHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "company dashboard requires a company account")
			return
		}
		userID, _ := mw.UserID(r.Context())

		stats, err := svc.CompanyStats(r.Context(), userID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
