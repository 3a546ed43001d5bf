package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/httpx"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/pdf"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/services"
	"github.com/LuckyFuZsion/webfuzsion-admin/validation"
)

// InvoiceHandler exposes the invoice document API. Auth is enforced by the
// router middleware; handlers only deal in JSON.
type InvoiceHandler struct {
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{Svc: services.NewInvoiceService(db)}
}

// Get: GET /api/invoices – list without ?id, detail with ?id.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		list, err := h.Svc.List()
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "failed_to_list_invoices", err.Error())
			return
		}
		httpx.OK(w, http.StatusOK, map[string]any{"invoices": list})
		return
	}
	detail, err := h.Svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_load_invoice", err.Error())
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"invoice": detail})
}

// Save: POST /api/invoices – full document payload (customer + header + items).
func (h *InvoiceHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in services.SaveInvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateInvoiceSave(in); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	res, err := h.Svc.Save(in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVersionConflict):
			httpx.Error(w, http.StatusConflict, "version_conflict", err.Error())
		case errors.Is(err, services.ErrInvalidStatus):
			httpx.Error(w, http.StatusBadRequest, "invalid_status", err.Error())
		case errors.Is(err, services.ErrCustomerEmailRequired):
			httpx.Error(w, http.StatusBadRequest, "validation_failed", map[string]string{"customer.email": "required"})
		default:
			httpx.Error(w, http.StatusInternalServerError, "failed_to_save_invoice", err.Error())
		}
		return
	}
	msg := "Invoice updated"
	if res.Created {
		msg = "Invoice created"
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"invoice_id":  res.InvoiceID,
		"customer_id": res.CustomerID,
		"message":     msg,
	})
}

// Delete: DELETE /api/invoices – id via query or body.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		var body struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			id = body.ID
		}
	}
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_delete_invoice", err.Error())
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "Invoice deleted"})
}

// PDF: GET /api/invoices/pdf?id=...
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	detail, err := h.Svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_load_invoice", err.Error())
		return
	}
	data, err := pdf.Invoice(detail)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+detail.InvoiceNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}

func validateInvoiceSave(in services.SaveInvoiceInput) validation.Violations {
	v := validation.Violations{}
	validation.Required("customer.email", in.Customer.Email, v)
	if in.Customer.Email != "" {
		validation.Email("customer.email", in.Customer.Email, v)
	}
	validation.Required("invoice.invoice_number", in.Invoice.InvoiceNumber, v)
	validation.DateISO("invoice.issue_date", in.Invoice.IssueDate, v)
	validation.DateISO("invoice.due_date", in.Invoice.DueDate, v)
	validation.NonNegative("invoice.discount_amount", in.Invoice.DiscountAmount, v)
	if len(in.Items) == 0 {
		v["items"] = "required"
	}
	for _, it := range in.Items {
		validation.NonNegative("items.quantity", it.Quantity, v)
		validation.NonNegative("items.unit_price", it.UnitPrice, v)
		validation.RangeFloat("items.discount_percentage", it.DiscountPercentage, 0, 100, v)
	}
	return v
}
