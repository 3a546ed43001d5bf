package models

import "time"

// Customer entity. Email is the natural key: the resolver guarantees at most
// one row per email regardless of how many saves reference the same address.
type Customer struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"not null;index" json:"name"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Country    string    `json:"country,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
