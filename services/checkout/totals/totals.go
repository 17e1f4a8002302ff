// Package totals computes the ordered monetary totals of a checkout session.
package totals

import (
	"context"
	"fmt"

	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

type Discount struct {
	Code        string
	Description string
	Type        DiscountType
	Value       int64
}

//go:generate mockgen -source=totals.go -package totals -destination discountfinder_mock.go DiscountFinder
type DiscountFinder interface {
	FindDiscount(c context.Context, code string) (Discount, bool, error)
}

type Result struct {
	Totals  []checkoutmodel.Total
	Applied []checkoutmodel.AppliedDiscount
}

// Calculate applies, in order: subtotal, every discount code as supplied, the
// fulfillment cost and finally the grand total. Discounts stack on the running total.
func Calculate(c context.Context, lineItems []checkoutmodel.LineItem, codes []string, discounts DiscountFinder, fulfillmentCost int64) (Result, error) {
	subtotal := int64(0)
	for _, li := range lineItems {
		subtotal += li.SubtotalAmount()
	}

	result := Result{
		Totals: []checkoutmodel.Total{{Type: checkoutmodel.TotalTypeSubtotal, Amount: subtotal}},
	}
	running := subtotal

	for _, code := range codes {
		discount, found, err := discounts.FindDiscount(c, code)
		if err != nil {
			return Result{}, fmt.Errorf("error looking up discount %s: %w", code, err)
		}
		if !found {
			continue
		}

		amount := discountAmount(discount, running)
		if amount <= 0 {
			continue
		}

		result.Totals = append(result.Totals, checkoutmodel.Total{Type: checkoutmodel.TotalTypeDiscount, Amount: amount})
		result.Applied = append(result.Applied, checkoutmodel.AppliedDiscount{
			Code:   code,
			Title:  discount.Description,
			Amount: amount,
		})
		running -= amount
	}

	if fulfillmentCost > 0 {
		result.Totals = append(result.Totals, checkoutmodel.Total{Type: checkoutmodel.TotalTypeFulfillment, Amount: fulfillmentCost})
		running += fulfillmentCost
	}

	result.Totals = append(result.Totals, checkoutmodel.Total{Type: checkoutmodel.TotalTypeTotal, Amount: running})

	return result, nil
}

func discountAmount(d Discount, running int64) int64 {
	switch d.Type {
	case DiscountTypePercentage:
		// integer division floors for the non-negative amounts used here
		return running * d.Value / 100
	case DiscountTypeFixedAmount:
		return d.Value
	default:
		return 0
	}
}

// SelectedFulfillmentCost sums the total of the selected option in every group of every method.
func SelectedFulfillmentCost(f *checkoutmodel.Fulfillment) int64 {
	if f == nil {
		return 0
	}

	cost := int64(0)
	for _, m := range f.Methods {
		for _, g := range m.Groups {
			option, found := g.SelectedOption()
			if found {
				cost += option.TotalAmount()
			}
		}
	}
	return cost
}
