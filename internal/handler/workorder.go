package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

type createWorkOrderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	VendorID    string `json:"vendorId,omitempty"`
}

func ListWorkOrdersHandler(svc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		role, _ := mw.Role(r.Context())

		orders, err := svc.ListForUser(r.Context(), userID, role)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if orders == nil {
			orders = []model.WorkOrder{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func CreateWorkOrderHandler(svc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can create work orders")
			return
		}
		userID, _ := mw.UserID(r.Context())

		var req createWorkOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		dueDate, err := parseOptionalDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due date")
			return
		}

		order, err := svc.Create(r.Context(), userID, service.CreateWorkOrderInput{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     dueDate,
			VendorID:    req.VendorID,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func UpdateWorkOrderStatusHandler(svc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		status := model.WorkOrderStatus(r.URL.Query().Get("status"))

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func AssignWorkOrderHandler(svc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can assign work orders")
			return
		}

		id := chi.URLParam(r, "id")
		vendorID := r.URL.Query().Get("vendorId")

		order, err := svc.Assign(r.Context(), id, vendorID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}
