package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

const (
	// DefaultCountry is applied when a customer payload omits the country.
	DefaultCountry = "United Kingdom"
	// PlaceholderName is used when a customer payload omits the name.
	PlaceholderName = "Unknown Customer"
)

// ErrCustomerEmailRequired is returned when a customer payload has no email.
var ErrCustomerEmailRequired = errors.New("customer email is required")

// CustomerInput is the customer portion of a document save payload. The id is
// advisory only: resolution is keyed on email.
type CustomerInput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ResolveCustomer upserts a customer keyed on its email and returns the id of
// the single stored row for that address. The inbound id is discarded whenever
// it is empty, carries a client-side placeholder prefix, or is not a UUID. A
// row matching the email (exact, case-sensitive) is updated in place and its
// existing id wins over whatever the caller supplied; otherwise a fresh row is
// inserted. Any store error aborts the caller's save.
func ResolveCustomer(tx *gorm.DB, in CustomerInput) (string, error) {
	if strings.TrimSpace(in.Email) == "" {
		return "", ErrCustomerEmailRequired
	}
	if in.Name == "" {
		in.Name = PlaceholderName
	}
	if in.Country == "" {
		in.Country = DefaultCountry
	}
	if !validCustomerID(in.ID) {
		in.ID = uuid.NewString()
	}

	var existing models.Customer
	err := tx.Where("email = ?", in.Email).First(&existing).Error
	switch {
	case err == nil:
		// map form so cleared fields overwrite too (struct updates skip zero values)
		updates := map[string]any{
			"name":        in.Name,
			"phone":       in.Phone,
			"address":     in.Address,
			"city":        in.City,
			"postal_code": in.PostalCode,
			"country":     in.Country,
		}
		if err := tx.Model(&models.Customer{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return "", fmt.Errorf("update customer: %w", err)
		}
		return existing.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := models.Customer{
			ID:         in.ID,
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			Address:    in.Address,
			City:       in.City,
			PostalCode: in.PostalCode,
			Country:    in.Country,
		}
		if err := tx.Create(&created).Error; err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		return created.ID, nil
	default:
		return "", fmt.Errorf("lookup customer by email: %w", err)
	}
}

// validCustomerID rejects empty ids, client-generated placeholders and
// anything that does not parse as a UUID.
func validCustomerID(id string) bool {
	if id == "" || strings.HasPrefix(id, "local-") || strings.HasPrefix(id, "temp-") {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ListCustomers returns all customers ordered by name for the admin pickers.
func ListCustomers(db *gorm.DB) ([]models.Customer, error) {
	var customers []models.Customer
	if err := db.Order("name asc").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
