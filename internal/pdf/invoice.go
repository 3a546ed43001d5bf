package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/services"
)

// Invoice renders an invoice document to PDF bytes.
func Invoice(detail *services.InvoiceDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "WebFuZsion", props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, "INVOICE "+detail.InvoiceNumber, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
	)

	customerName := "Unknown"
	customerEmail := ""
	if detail.Customer != nil {
		customerName = detail.Customer.Name
		customerEmail = detail.Customer.Email
	}
	m.AddRow(6, text.NewCol(6, "Billed to: "+customerName, props.Text{Size: 9}))
	if customerEmail != "" {
		m.AddRow(5, text.NewCol(6, customerEmail, props.Text{Size: 9}))
	}
	m.AddRow(5, text.NewCol(6, "Project: "+detail.ProjectName, props.Text{Size: 9}))
	m.AddRow(5,
		text.NewCol(6, "Issued: "+detail.IssueDate, props.Text{Size: 9}),
		text.NewCol(6, "Due: "+detail.DueDate, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(6, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, it := range detail.Items {
		desc := it.Description
		if it.DiscountPercentage > 0 {
			desc = fmt.Sprintf("%s (%.0f%% off)", desc, it.DiscountPercentage)
		}
		m.AddRow(6,
			text.NewCol(6, desc, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%g", it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))

	m.AddRows(
		row.New(6).Add(
			col.New(8),
			text.NewCol(2, "Subtotal", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", detail.Subtotal), props.Text{Size: 9, Align: align.Right}),
		),
		row.New(6).Add(
			col.New(8),
			text.NewCol(2, "Discount", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", detail.DiscountAmount), props.Text{Size: 9, Align: align.Right}),
		),
		row.New(8).Add(
			col.New(8),
			text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", detail.TotalAmount), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	if detail.Notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes: "+detail.Notes, props.Text{Size: 8}))
	}
	if detail.Terms != "" {
		m.AddRow(8, text.NewCol(12, "Terms: "+detail.Terms, props.Text{Size: 8}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
