package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Quote{}, &models.QuoteItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const saveInvoiceBody = `{
	"customer": {"name": "Ada", "email": "ada@x.com"},
	"invoice": {
		"invoice_number": "INV-100",
		"project_name": "Site build",
		"issue_date": "2026-01-10",
		"due_date": "2026-02-10",
		"subtotal": 320, "discount_amount": 20, "total_amount": 300,
		"status": "draft"
	},
	"items": [
		{"description": "Design", "quantity": 3, "unit_price": 100, "discount_percentage": 10},
		{"description": "Hosting", "quantity": 1, "unit_price": 50}
	]
}`

func TestInvoiceSaveGetDeleteJSON(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	// Save
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(saveInvoiceBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var saved map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved["success"] != true || saved["invoice_id"] == nil || saved["customer_id"] == nil {
		t.Fatalf("unexpected save response: %#v", saved)
	}
	id := saved["invoice_id"].(string)

	// Detail
	getReq := httptest.NewRequest(http.MethodGet, "/api/invoices?id="+id, nil)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("get expected 200 got %d", getW.Code)
	}
	var detail struct {
		Success bool `json:"success"`
		Invoice struct {
			InvoiceNumber string               `json:"invoice_number"`
			TotalAmount   float64              `json:"total_amount"`
			Customer      *models.Customer     `json:"customer"`
			Items         []models.InvoiceItem `json:"items"`
		} `json:"invoice"`
	}
	if err := json.Unmarshal(getW.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Invoice.InvoiceNumber != "INV-100" || detail.Invoice.TotalAmount != 300 {
		t.Fatalf("detail mismatch: %+v", detail.Invoice)
	}
	if detail.Invoice.Customer == nil || detail.Invoice.Customer.Email != "ada@x.com" {
		t.Fatalf("customer missing in detail: %+v", detail.Invoice.Customer)
	}
	if len(detail.Invoice.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(detail.Invoice.Items))
	}

	// List
	listReq := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	listW := httptest.NewRecorder()
	h.Get(listW, listReq)
	var list struct {
		Success  bool `json:"success"`
		Invoices []struct {
			CustomerName string `json:"customer_name"`
		} `json:"invoices"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Invoices) != 1 || list.Invoices[0].CustomerName != "Ada" {
		t.Fatalf("unexpected list: %+v", list)
	}

	// Delete (id via query)
	delReq := httptest.NewRequest(http.MethodDelete, "/api/invoices?id="+id, nil)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("delete expected 200 got %d", delW.Code)
	}
	// Read back → 404
	goneW := httptest.NewRecorder()
	h.Get(goneW, httptest.NewRequest(http.MethodGet, "/api/invoices?id="+id, nil))
	if goneW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete got %d", goneW.Code)
	}
}

func TestInvoiceSaveValidation(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	cases := []struct {
		name string
		body string
	}{
		{"missing customer email", `{"invoice":{"invoice_number":"INV-1"},"items":[{"description":"x","quantity":1,"unit_price":1}]}`},
		{"missing items", `{"customer":{"email":"a@x.com"},"invoice":{"invoice_number":"INV-1"},"items":[]}`},
		{"missing number", `{"customer":{"email":"a@x.com"},"invoice":{},"items":[{"description":"x","quantity":1,"unit_price":1}]}`},
		{"discount out of range", `{"customer":{"email":"a@x.com"},"invoice":{"invoice_number":"INV-1"},"items":[{"description":"x","quantity":1,"unit_price":1,"discount_percentage":120}]}`},
		{"malformed issue date", `{"customer":{"email":"a@x.com"},"invoice":{"invoice_number":"INV-1","issue_date":"abcd-ef-gh"},"items":[{"description":"x","quantity":1,"unit_price":1}]}`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		h.Save(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d body=%s", c.name, w.Code, w.Body.String())
		}
	}

	badJSON := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.Save(w, badJSON)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid json: expected 400 got %d", w.Code)
	}
}

func TestInvoiceSaveVersionConflictMapsTo409(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(saveInvoiceBody))
	w := httptest.NewRecorder()
	h.Save(w, req)
	var saved map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &saved)
	id := saved["invoice_id"].(string)

	stale := strings.Replace(saveInvoiceBody, `"status": "draft"`, `"status": "sent", "version": 1`, 1)
	stale = strings.Replace(stale, `"customer": {`, `"id": "`+id+`", "customer": {`, 1)

	// first versioned save succeeds and bumps to 2
	w2 := httptest.NewRecorder()
	h.Save(w2, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(stale)))
	if w2.Code != http.StatusOK {
		t.Fatalf("versioned save expected 200 got %d body=%s", w2.Code, w2.Body.String())
	}
	// replay with the stale version → conflict
	w3 := httptest.NewRecorder()
	h.Save(w3, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(stale)))
	if w3.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w3.Code, w3.Body.String())
	}
}

func TestInvoiceDeleteMissing(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	w := httptest.NewRecorder()
	h.Delete(w, httptest.NewRequest(http.MethodDelete, "/api/invoices?id=nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	w2 := httptest.NewRecorder()
	h.Delete(w2, httptest.NewRequest(http.MethodDelete, "/api/invoices", strings.NewReader(`{}`)))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id got %d", w2.Code)
	}
}

func TestInvoiceDeleteIDViaBody(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	w := httptest.NewRecorder()
	h.Save(w, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(saveInvoiceBody)))
	var saved map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &saved)
	id := saved["invoice_id"].(string)

	delW := httptest.NewRecorder()
	h.Delete(delW, httptest.NewRequest(http.MethodDelete, "/api/invoices", strings.NewReader(`{"id":"`+id+`"}`)))
	if delW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", delW.Code, delW.Body.String())
	}
}

func TestInvoicePDF(t *testing.T) {
	h := NewInvoiceHandler(setupHandlerTestDB(t))

	w := httptest.NewRecorder()
	h.Save(w, httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(saveInvoiceBody)))
	var saved map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &saved)
	id := saved["invoice_id"].(string)

	pdfW := httptest.NewRecorder()
	h.PDF(pdfW, httptest.NewRequest(http.MethodGet, "/api/invoices/pdf?id="+id, nil))
	if pdfW.Code != http.StatusOK {
		t.Fatalf("pdf expected 200 got %d", pdfW.Code)
	}
	if ct := pdfW.Header().Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		t.Fatalf("expected pdf content-type got %s", ct)
	}
	if pdfW.Body.Len() == 0 {
		t.Fatal("expected non-empty pdf body")
	}

	missingW := httptest.NewRecorder()
	h.PDF(missingW, httptest.NewRequest(http.MethodGet, "/api/invoices/pdf?id=nope", nil))
	if missingW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", missingW.Code)
	}
}
