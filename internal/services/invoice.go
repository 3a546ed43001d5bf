package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

// itemBatchSize bounds the row count of a single item insert statement.
const itemBatchSize = 10

// InvoiceService owns invoice persistence: header upsert, wholesale item
// replacement and the read/assembly paths.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService { return &InvoiceService{DB: db} }

// ItemInput is one line item of a save payload. Derived fields are not
// accepted from the caller; they are recomputed before insert so stored rows
// always satisfy amount = quantity * unit_price * (1 - discount/100).
type ItemInput struct {
	ID                 string  `json:"id"`
	Description        string  `json:"description"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// InvoiceHeaderInput carries the header fields of a save payload. Subtotal,
// DiscountAmount and TotalAmount are persisted as supplied; Version enables
// the optimistic check-and-set when greater than zero.
type InvoiceHeaderInput struct {
	InvoiceNumber  string  `json:"invoice_number"`
	ProjectName    string  `json:"project_name"`
	IssueDate      string  `json:"issue_date"`
	DueDate        string  `json:"due_date"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes"`
	Terms          string  `json:"terms"`
	Version        int     `json:"version"`
}

// SaveInvoiceInput is the full document payload: customer, header and the
// complete item list.
type SaveInvoiceInput struct {
	ID       string             `json:"id"`
	Customer CustomerInput      `json:"customer"`
	Invoice  InvoiceHeaderInput `json:"invoice"`
	Items    []ItemInput        `json:"items"`
}

// SaveInvoiceResult reports the ids the save resolved to.
type SaveInvoiceResult struct {
	InvoiceID  string
	CustomerID string
	Created    bool
}

// Save persists one logical document atomically: customer resolution, header
// insert-or-update and full item replacement run inside a single transaction,
// so a failing step leaves no partial writes behind. Item rows for the
// document are deleted unconditionally and the payload's items inserted in
// batches; after a successful save the stored set exactly equals the input.
func (s *InvoiceService) Save(in SaveInvoiceInput) (*SaveInvoiceResult, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Invoice.Status == "" {
		in.Invoice.Status = models.InvoiceStatusDraft
	}
	if !slices.Contains(models.InvoiceStatuses, in.Invoice.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Invoice.Status)
	}

	res := &SaveInvoiceResult{InvoiceID: in.ID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		customerID, err := ResolveCustomer(tx, in.Customer)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		res.CustomerID = customerID

		var existing models.Invoice
		err = tx.Select("id", "version").First(&existing, "id = ?", in.ID).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"invoice_number":  in.Invoice.InvoiceNumber,
				"customer_id":     customerID,
				"project_name":    in.Invoice.ProjectName,
				"issue_date":      in.Invoice.IssueDate,
				"due_date":        in.Invoice.DueDate,
				"subtotal":        in.Invoice.Subtotal,
				"discount_amount": in.Invoice.DiscountAmount,
				"total_amount":    in.Invoice.TotalAmount,
				"status":          in.Invoice.Status,
				"notes":           in.Invoice.Notes,
				"terms":           in.Invoice.Terms,
				"version":         existing.Version + 1,
			}
			q := tx.Model(&models.Invoice{}).Where("id = ?", in.ID)
			if in.Invoice.Version > 0 {
				// check-and-set: reject if the header moved since load
				q = q.Where("version = ?", in.Invoice.Version)
			}
			upd := q.Updates(updates)
			if upd.Error != nil {
				return fmt.Errorf("update invoice header: %w", upd.Error)
			}
			if upd.RowsAffected == 0 {
				return ErrVersionConflict
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			header := models.Invoice{
				ID:             in.ID,
				InvoiceNumber:  in.Invoice.InvoiceNumber,
				CustomerID:     customerID,
				ProjectName:    in.Invoice.ProjectName,
				IssueDate:      in.Invoice.IssueDate,
				DueDate:        in.Invoice.DueDate,
				Subtotal:       in.Invoice.Subtotal,
				DiscountAmount: in.Invoice.DiscountAmount,
				TotalAmount:    in.Invoice.TotalAmount,
				Status:         in.Invoice.Status,
				Notes:          in.Invoice.Notes,
				Terms:          in.Invoice.Terms,
				Version:        1,
			}
			if err := tx.Create(&header).Error; err != nil {
				return fmt.Errorf("insert invoice header: %w", err)
			}
			res.Created = true
		default:
			return fmt.Errorf("lookup invoice header: %w", err)
		}

		if err := tx.Where("invoice_id = ?", in.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		if len(in.Items) > 0 {
			rows := make([]models.InvoiceItem, 0, len(in.Items))
			for _, it := range in.Items {
				line := ComputeLine(it.Quantity, it.UnitPrice, it.DiscountPercentage)
				id := it.ID
				if id == "" {
					id = uuid.NewString()
				}
				rows = append(rows, models.InvoiceItem{
					ID:                 id,
					InvoiceID:          in.ID,
					Description:        it.Description,
					Quantity:           it.Quantity,
					UnitPrice:          it.UnitPrice,
					DiscountPercentage: it.DiscountPercentage,
					DiscountAmount:     line.DiscountAmount,
					OriginalAmount:     line.OriginalAmount,
					Amount:             line.Amount,
				})
			}
			if err := tx.CreateInBatches(rows, itemBatchSize).Error; err != nil {
				return fmt.Errorf("insert invoice items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InvoiceDetail is the assembled read shape: header, customer and items.
type InvoiceDetail struct {
	models.Invoice
	Customer *models.Customer `json:"customer,omitempty"`
}

// Get assembles one invoice. A dangling customer reference degrades to a nil
// customer (rendered as "Unknown" upstream) rather than failing the read.
func (s *InvoiceService) Get(id string) (*InvoiceDetail, error) {
	var inv models.Invoice
	if err := s.DB.First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if err := s.DB.Where("invoice_id = ?", id).Find(&inv.Items).Error; err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}
	detail := &InvoiceDetail{Invoice: inv}
	var customer models.Customer
	if err := s.DB.First(&customer, "id = ?", inv.CustomerID).Error; err == nil {
		detail.Customer = &customer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load invoice customer: %w", err)
	}
	return detail, nil
}

// InvoiceSummary is one row of the list view, customer fields denormalized in.
type InvoiceSummary struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	ProjectName   string  `json:"project_name"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	IssueDate     string  `json:"issue_date"`
	DueDate       string  `json:"due_date"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
}

// List fetches all headers newest first and joins customers in memory from a
// single batched query, avoiding one lookup per row.
func (s *InvoiceService) List() ([]InvoiceSummary, error) {
	var invoices []models.Invoice
	if err := s.DB.Order("issue_date desc, created_at desc").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	customers, err := customersByID(s.DB, customerIDsOfInvoices(invoices))
	if err != nil {
		return nil, err
	}
	summaries := make([]InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		name, email := "Unknown", ""
		if c, ok := customers[inv.CustomerID]; ok {
			name, email = c.Name, c.Email
		}
		summaries = append(summaries, InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ProjectName:   inv.ProjectName,
			CustomerName:  name,
			CustomerEmail: email,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			TotalAmount:   inv.TotalAmount,
			Status:        inv.Status,
		})
	}
	return summaries, nil
}

// Delete removes the items then the header inside one transaction. Deleting a
// missing document reports ErrNotFound.
func (s *InvoiceService) Delete(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		res := tx.Delete(&models.Invoice{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete invoice header: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func customerIDsOfInvoices(invoices []models.Invoice) []string {
	ids := make([]string, 0, len(invoices))
	seen := make(map[string]struct{}, len(invoices))
	for _, inv := range invoices {
		if _, ok := seen[inv.CustomerID]; ok {
			continue
		}
		seen[inv.CustomerID] = struct{}{}
		ids = append(ids, inv.CustomerID)
	}
	return ids
}

func customersByID(db *gorm.DB, ids []string) (map[string]models.Customer, error) {
	byID := make(map[string]models.Customer, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var customers []models.Customer
	if err := db.Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	for _, c := range customers {
		byID[c.ID] = c
	}
	return byID, nil
}
