package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

// QuoteService mirrors InvoiceService for quotes; the two documents are
// structurally interchangeable apart from status sets and the expiry date.
type QuoteService struct {
	DB *gorm.DB
}

func NewQuoteService(db *gorm.DB) *QuoteService { return &QuoteService{DB: db} }

type QuoteHeaderInput struct {
	QuoteNumber    string  `json:"quote_number"`
	ProjectName    string  `json:"project_name"`
	IssueDate      string  `json:"issue_date"`
	ExpiryDate     string  `json:"expiry_date"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes"`
	Terms          string  `json:"terms"`
	Version        int     `json:"version"`
}

type SaveQuoteInput struct {
	ID       string           `json:"id"`
	Customer CustomerInput    `json:"customer"`
	Quote    QuoteHeaderInput `json:"quote"`
	Items    []ItemInput      `json:"items"`
}

type SaveQuoteResult struct {
	QuoteID    string
	CustomerID string
	Created    bool
}

// Save follows the same atomic sequence as InvoiceService.Save: resolve
// customer, upsert header (optimistic check-and-set when a version is
// supplied), replace the item set wholesale in batches.
func (s *QuoteService) Save(in SaveQuoteInput) (*SaveQuoteResult, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Quote.Status == "" {
		in.Quote.Status = models.QuoteStatusDraft
	}
	if !slices.Contains(models.QuoteStatuses, in.Quote.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Quote.Status)
	}

	res := &SaveQuoteResult{QuoteID: in.ID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		customerID, err := ResolveCustomer(tx, in.Customer)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		res.CustomerID = customerID

		var existing models.Quote
		err = tx.Select("id", "version").First(&existing, "id = ?", in.ID).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"quote_number":    in.Quote.QuoteNumber,
				"customer_id":     customerID,
				"project_name":    in.Quote.ProjectName,
				"issue_date":      in.Quote.IssueDate,
				"expiry_date":     in.Quote.ExpiryDate,
				"subtotal":        in.Quote.Subtotal,
				"discount_amount": in.Quote.DiscountAmount,
				"total_amount":    in.Quote.TotalAmount,
				"status":          in.Quote.Status,
				"notes":           in.Quote.Notes,
				"terms":           in.Quote.Terms,
				"version":         existing.Version + 1,
			}
			q := tx.Model(&models.Quote{}).Where("id = ?", in.ID)
			if in.Quote.Version > 0 {
				q = q.Where("version = ?", in.Quote.Version)
			}
			upd := q.Updates(updates)
			if upd.Error != nil {
				return fmt.Errorf("update quote header: %w", upd.Error)
			}
			if upd.RowsAffected == 0 {
				return ErrVersionConflict
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			header := models.Quote{
				ID:             in.ID,
				QuoteNumber:    in.Quote.QuoteNumber,
				CustomerID:     customerID,
				ProjectName:    in.Quote.ProjectName,
				IssueDate:      in.Quote.IssueDate,
				ExpiryDate:     in.Quote.ExpiryDate,
				Subtotal:       in.Quote.Subtotal,
				DiscountAmount: in.Quote.DiscountAmount,
				TotalAmount:    in.Quote.TotalAmount,
				Status:         in.Quote.Status,
				Notes:          in.Quote.Notes,
				Terms:          in.Quote.Terms,
				Version:        1,
			}
			if err := tx.Create(&header).Error; err != nil {
				return fmt.Errorf("insert quote header: %w", err)
			}
			res.Created = true
		default:
			return fmt.Errorf("lookup quote header: %w", err)
		}

		if err := tx.Where("quote_id = ?", in.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return fmt.Errorf("delete quote items: %w", err)
		}
		if len(in.Items) > 0 {
			rows := make([]models.QuoteItem, 0, len(in.Items))
			for _, it := range in.Items {
				line := ComputeLine(it.Quantity, it.UnitPrice, it.DiscountPercentage)
				id := it.ID
				if id == "" {
					id = uuid.NewString()
				}
				rows = append(rows, models.QuoteItem{
					ID:                 id,
					QuoteID:            in.ID,
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
				return fmt.Errorf("insert quote items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type QuoteDetail struct {
	models.Quote
	Customer *models.Customer `json:"customer,omitempty"`
}

func (s *QuoteService) Get(id string) (*QuoteDetail, error) {
	var q models.Quote
	if err := s.DB.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load quote: %w", err)
	}
	if err := s.DB.Where("quote_id = ?", id).Find(&q.Items).Error; err != nil {
		return nil, fmt.Errorf("load quote items: %w", err)
	}
	detail := &QuoteDetail{Quote: q}
	var customer models.Customer
	if err := s.DB.First(&customer, "id = ?", q.CustomerID).Error; err == nil {
		detail.Customer = &customer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load quote customer: %w", err)
	}
	return detail, nil
}

type QuoteSummary struct {
	ID            string  `json:"id"`
	QuoteNumber   string  `json:"quote_number"`
	ProjectName   string  `json:"project_name"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	IssueDate     string  `json:"issue_date"`
	ExpiryDate    string  `json:"expiry_date"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
}

func (s *QuoteService) List() ([]QuoteSummary, error) {
	var quotes []models.Quote
	if err := s.DB.Order("issue_date desc, created_at desc").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	ids := make([]string, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if _, ok := seen[q.CustomerID]; !ok {
			seen[q.CustomerID] = struct{}{}
			ids = append(ids, q.CustomerID)
		}
	}
	customers, err := customersByID(s.DB, ids)
	if err != nil {
		return nil, err
	}
	summaries := make([]QuoteSummary, 0, len(quotes))
	for _, q := range quotes {
		name, email := "Unknown", ""
		if c, ok := customers[q.CustomerID]; ok {
			name, email = c.Name, c.Email
		}
		summaries = append(summaries, QuoteSummary{
			ID:            q.ID,
			QuoteNumber:   q.QuoteNumber,
			ProjectName:   q.ProjectName,
			CustomerName:  name,
			CustomerEmail: email,
			IssueDate:     q.IssueDate,
			ExpiryDate:    q.ExpiryDate,
			TotalAmount:   q.TotalAmount,
			Status:        q.Status,
		})
	}
	return summaries, nil
}

func (s *QuoteService) Delete(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return fmt.Errorf("delete quote items: %w", err)
		}
		res := tx.Delete(&models.Quote{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete quote header: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
