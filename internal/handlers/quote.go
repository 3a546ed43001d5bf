package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/httpx"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/services"
	"github.com/LuckyFuZsion/webfuzsion-admin/validation"
)

// QuoteHandler exposes the quote document API, the invoice handler's sibling.
type QuoteHandler struct {
	Svc *services.QuoteService
}

func NewQuoteHandler(db *gorm.DB) *QuoteHandler {
	return &QuoteHandler{Svc: services.NewQuoteService(db)}
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		list, err := h.Svc.List()
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "failed_to_list_quotes", err.Error())
			return
		}
		httpx.OK(w, http.StatusOK, map[string]any{"quotes": list})
		return
	}
	detail, err := h.Svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_load_quote", err.Error())
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"quote": detail})
}

func (h *QuoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in services.SaveQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateQuoteSave(in); !v.Empty() {
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
			httpx.Error(w, http.StatusInternalServerError, "failed_to_save_quote", err.Error())
		}
		return
	}
	msg := "Quote updated"
	if res.Created {
		msg = "Quote created"
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"quote_id":    res.QuoteID,
		"customer_id": res.CustomerID,
		"message":     msg,
	})
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			httpx.Error(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_delete_quote", err.Error())
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "Quote deleted"})
}

func validateQuoteSave(in services.SaveQuoteInput) validation.Violations {
	v := validation.Violations{}
	validation.Required("customer.email", in.Customer.Email, v)
	if in.Customer.Email != "" {
		validation.Email("customer.email", in.Customer.Email, v)
	}
	validation.Required("quote.quote_number", in.Quote.QuoteNumber, v)
	validation.DateISO("quote.issue_date", in.Quote.IssueDate, v)
	validation.DateISO("quote.expiry_date", in.Quote.ExpiryDate, v)
	validation.NonNegative("quote.discount_amount", in.Quote.DiscountAmount, v)
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
