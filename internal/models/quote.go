package models

import "time"

const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

var QuoteStatuses = []string{QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected}

// Quote header, structurally a sibling of Invoice. ExpiryDate plays the role
// of the invoice due date.
type Quote struct {
	ID             string      `gorm:"primaryKey;size:36" json:"id"`
	QuoteNumber    string      `gorm:"uniqueIndex;not null" json:"quote_number"`
	CustomerID     string      `gorm:"size:36;index;not null" json:"customer_id"`
	ProjectName    string      `json:"project_name"`
	IssueDate      string      `gorm:"size:10;index" json:"issue_date"`
	ExpiryDate     string      `gorm:"size:10" json:"expiry_date"`
	Subtotal       float64     `json:"subtotal"`
	DiscountAmount float64     `json:"discount_amount"`
	TotalAmount    float64     `json:"total_amount"`
	Status         string      `gorm:"not null;default:'draft'" json:"status"`
	Notes          string      `json:"notes,omitempty"`
	Terms          string      `json:"terms,omitempty"`
	Version        int         `gorm:"not null;default:1" json:"version"`
	Items          []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type QuoteItem struct {
	ID                 string  `gorm:"primaryKey;size:36" json:"id"`
	QuoteID            string  `gorm:"size:36;index;not null" json:"quote_id"`
	Description        string  `gorm:"not null" json:"description"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	OriginalAmount     float64 `json:"original_amount"`
	Amount             float64 `json:"amount"`
}
