package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hourglass/internal/model"
	"hourglass/internal/mw"
	"hourglass/internal/service"
)

type invoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type createInvoiceRequest struct {
	WorkOrderID string               `json:"workOrderId"`
	Items       []invoiceItemRequest `json:"items"`
	DueDate     string               `json:"dueDate,omitempty"`
}

func ListInvoicesHandler(svc *service.InvoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())
		role, _ := mw.Role(r.Context())

		invoices, err := svc.ListForUser(r.Context(), userID, role)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if invoices == nil {
			invoices = []model.Invoice{}
		}
		writeJSON(w, http.StatusOK, invoices)
	}
}

func CreateInvoiceHandler(svc *service.InvoiceService, woSvc *service.WorkOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleVendor {
			writeError(w, http.StatusForbidden, "only vendors can create invoices")
			return
		}
		userID, _ := mw.UserID(r.Context())

		var req createInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		companyID, err := woSvc.CompanyIDFor(r.Context(), req.WorkOrderID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		dueDate, err := parseOptionalDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due date")
			return
		}

		items := make([]service.InvoiceItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.InvoiceItemInput{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}

		invoice, err := svc.Create(r.Context(), userID, companyID, service.CreateInvoiceInput{
			WorkOrderID: req.WorkOrderID,
			Items:       items,
			DueDate:     dueDate,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoice)
	}
}

func SubmitInvoiceHandler(svc *service.InvoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleVendor {
			writeError(w, http.StatusForbidden, "only vendors can submit invoices")
			return
		}
		invoice, err := svc.Submit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoice)
	}
}

func ApproveInvoiceHandler(svc *service.InvoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can approve invoices")
			return
		}
		invoice, err := svc.Approve(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoice)
	}
}

func RejectInvoiceHandler(svc *service.InvoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can reject invoices")
			return
		}
		invoice, err := svc.Reject(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoice)
	}
}

func PayInvoiceHandler(svc *service.InvoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, _ := mw.Role(r.Context()); role != model.RoleCompany {
			writeError(w, http.StatusForbidden, "only companies can pay invoices")
			return
		}
		invoice, err := svc.MarkPaid(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoice)
	}
}
