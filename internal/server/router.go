package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/auth"
	"github.com/LuckyFuZsion/webfuzsion-admin/httpx"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/handlers"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// lightweight DB check (SELECT 1); detail stays out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	// Auth endpoints sit outside the auth gate.
	ah := handlers.NewAuthHandler()
	mux.Handle("/api/auth/login", postOnly(http.HandlerFunc(ah.Login)))
	mux.Handle("/api/auth/logout", postOnly(http.HandlerFunc(ah.Logout)))

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(db)
	mux.Handle("/api/invoices", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.Get(w, r)
		case http.MethodPost:
			ih.Save(w, r)
		case http.MethodDelete:
			ih.Delete(w, r)
		default:
			w.Header().Set("Allow", "GET,POST,DELETE")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/api/invoices/pdf", auth.RequireAuth(http.HandlerFunc(ih.PDF)))

	// Quote endpoints
	qh := handlers.NewQuoteHandler(db)
	mux.Handle("/api/quotes", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			qh.Get(w, r)
		case http.MethodPost:
			qh.Save(w, r)
		case http.MethodDelete:
			qh.Delete(w, r)
		default:
			w.Header().Set("Allow", "GET,POST,DELETE")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))

	// Customer picker list
	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/api/customers", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		ch.List(w, r)
	})))

	return withRecover(withLogging(mux))
}

func postOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.Error(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
