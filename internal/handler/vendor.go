package handler

import (
	"net/http"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

// ListVendorsHandler returns the active vendor roster. Companies use it to
// pick a vendor when assigning work orders or filing timesheets on their
// behalf, so it is company-only.
func ListVendorsHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "vendor listing requires a company account")
			return
		}

		vendors, err := svc.ActiveVendors(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if vendors == nil {
			vendors = []model.Profile{}
		}
		writeJSON(w, http.StatusOK, vendors)
	}
}
