package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/httpx"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/services"
)

// CustomerHandler serves the read-only customer list backing the admin
// pickers. Writes go through the resolver inside document saves only.
type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

// List: GET /api/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := services.ListCustomers(h.DB)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed_to_list_customers", err.Error())
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"customers": customers})
}
