package inventory

import (
	"context"
	"fmt"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	codeInventoryNotFound = "inventory_not_found"
	codeInsufficientStock = "insufficient_stock"
)

type StockLevel struct {
	ProductID string
	Quantity  int
}

type Manager struct {
	stock mystore.Store[StockLevel]
}

func New(stock mystore.Store[StockLevel]) *Manager {
	return &Manager{
		stock: stock,
	}
}

// Validate reports, per line item, a missing stock row or a shortfall as a
// recoverable message. Lines for the same product draw from the same stock, so
// their quantities are summed. Stock is not modified.
func (m *Manager) Validate(c context.Context, lineItems []checkoutmodel.LineItem) ([]checkoutmodel.Message, error) {
	requested := map[string]int{}
	for _, li := range lineItems {
		requested[li.Item.ID] += li.Quantity
	}

	messages := []checkoutmodel.Message{}
	for _, li := range lineItems {
		if li.Item.ID == "" {
			continue
		}
		level, found, err := m.stock.Get(c, li.Item.ID)
		if err != nil {
			return nil, fmt.Errorf("error fetching stock of %s: %w", li.Item.ID, err)
		}
		path := fmt.Sprintf("$.line_items[?(@.id=='%s')]", li.ID)
		if !found {
			messages = append(messages, checkoutmodel.NewError(checkoutmodel.SeverityRecoverable,
				codeInventoryNotFound, path, fmt.Sprintf("Inventory not found for product: %s", li.Item.Title)))
			continue
		}
		if level.Quantity < requested[li.Item.ID] {
			messages = append(messages, checkoutmodel.NewError(checkoutmodel.SeverityRecoverable,
				codeInsufficientStock, path, fmt.Sprintf("Insufficient stock for item %s", li.Item.Title)))
		}
	}
	return messages, nil
}

// Reserve decrements stock for every line item in one transaction. Products
// without a stock row are skipped.
func (m *Manager) Reserve(c context.Context, lineItems []checkoutmodel.LineItem) error {
	return m.stock.RunInTransaction(c, func(c context.Context) error {
		for _, li := range lineItems {
			level, found, err := m.stock.Get(c, li.Item.ID)
			if err != nil {
				return fmt.Errorf("error fetching stock of %s: %w", li.Item.ID, err)
			}
			if !found {
				continue
			}
			if level.Quantity < li.Quantity {
				// validation should have caught this
				return myerrors.NewInternalError(fmt.Errorf("Insufficient stock for item %s", li.Item.ID))
			}
			level.Quantity -= li.Quantity
			err = m.stock.Put(c, level.ProductID, level)
			if err != nil {
				return fmt.Errorf("error storing stock of %s: %w", li.Item.ID, err)
			}
		}
		return nil
	})
}

// Release gives back what Reserve took for the same line items.
func (m *Manager) Release(c context.Context, lineItems []checkoutmodel.LineItem) error {
	return m.stock.RunInTransaction(c, func(c context.Context) error {
		for _, li := range lineItems {
			level, found, err := m.stock.Get(c, li.Item.ID)
			if err != nil {
				return fmt.Errorf("error fetching stock of %s: %w", li.Item.ID, err)
			}
			if !found {
				continue
			}
			level.Quantity += li.Quantity
			err = m.stock.Put(c, level.ProductID, level)
			if err != nil {
				return fmt.Errorf("error storing stock of %s: %w", li.Item.ID, err)
			}
		}
		return nil
	})
}
