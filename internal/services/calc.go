package services

// LineAmounts holds the derived money fields of one line item.
type LineAmounts struct {
	OriginalAmount float64
	DiscountAmount float64
	Amount         float64
}

// ComputeLine derives the amounts for one line item. Inputs are coerced into
// their valid ranges first (negative quantity or price becomes 0, discount
// percentage is clamped to [0,100]) so the function never fails: a half-typed
// form field computes as zero rather than erroring.
func ComputeLine(quantity, unitPrice, discountPct float64) LineAmounts {
	if quantity < 0 {
		quantity = 0
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	if discountPct < 0 {
		discountPct = 0
	} else if discountPct > 100 {
		discountPct = 100
	}
	original := quantity * unitPrice
	discount := original * discountPct / 100
	return LineAmounts{
		OriginalAmount: original,
		DiscountAmount: discount,
		Amount:         original - discount,
	}
}

// ItemsSubtotal sums post-discount line amounts into the document subtotal.
func ItemsSubtotal(amounts []LineAmounts) float64 {
	var sum float64
	for _, a := range amounts {
		sum += a.Amount
	}
	return sum
}

// DocumentTotal reconciles the item subtotal with the header-level discount.
// The header discount is an absolute amount, independent of item discounts.
func DocumentTotal(subtotal, headerDiscount float64) float64 {
	return subtotal - headerDiscount
}
