package models

import "time"

// Invoice statuses. Transitions are unrestricted: any save may set any value
// in the set.
const (
	InvoiceStatusDraft    = "draft"
	InvoiceStatusSent     = "sent"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusRejected = "rejected"
)

// InvoiceStatuses lists the accepted status values.
var InvoiceStatuses = []string{InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusRejected}

// Invoice header. Dates are YYYY-MM-DD strings so lexicographic ordering
// matches chronological ordering. TotalAmount == Subtotal - DiscountAmount,
// where Subtotal is the sum of item post-discount amounts.
type Invoice struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	InvoiceNumber  string        `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CustomerID     string        `gorm:"size:36;index;not null" json:"customer_id"`
	ProjectName    string        `json:"project_name"`
	IssueDate      string        `gorm:"size:10;index" json:"issue_date"`
	DueDate        string        `gorm:"size:10" json:"due_date"`
	Subtotal       float64       `json:"subtotal"`
	DiscountAmount float64       `json:"discount_amount"`
	TotalAmount    float64       `json:"total_amount"`
	Status         string        `gorm:"not null;default:'draft'" json:"status"`
	Notes          string        `json:"notes,omitempty"`
	Terms          string        `json:"terms,omitempty"`
	Version        int           `gorm:"not null;default:1" json:"version"`
	Items          []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// InvoiceItem is one billable row. OriginalAmount, DiscountAmount and Amount
// are derived from quantity, unit price and discount percentage, re-derived on
// every save; rows are replaced wholesale with their parent document.
type InvoiceItem struct {
	ID                 string  `gorm:"primaryKey;size:36" json:"id"`
	InvoiceID          string  `gorm:"size:36;index;not null" json:"invoice_id"`
	Description        string  `gorm:"not null" json:"description"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	OriginalAmount     float64 `json:"original_amount"`
	Amount             float64 `json:"amount"`
}
