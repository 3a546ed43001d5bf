package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Quote{}, &models.QuoteItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestHealthz(t *testing.T) {
	h := setupRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestAPIRequiresSession(t *testing.T) {
	h := setupRouter(t)
	for _, path := range []string{"/api/invoices", "/api/quotes", "/api/customers", "/api/invoices/pdf"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, w.Code)
		}
	}
}

func TestLoginThenAccess(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	h := setupRouter(t)

	// wrong password rejected
	badW := httptest.NewRecorder()
	h.ServeHTTP(badW, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"nope"}`)))
	if badW.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", badW.Code)
	}

	loginW := httptest.NewRecorder()
	h.ServeHTTP(loginW, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"hunter2"}`)))
	if loginW.Code != http.StatusOK {
		t.Fatalf("login expected 200 got %d body=%s", loginW.Code, loginW.Body.String())
	}
	cookies := loginW.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.AddCookie(cookies[0])
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with session got %d body=%s", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/auth/login", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
}
