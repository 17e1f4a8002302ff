package lineitems

import (
	"context"
	"fmt"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const placeholderImageURL = "https://example.com/image.png"

type Product struct {
	ID    string
	Title string
	Price int64
}

//go:generate mockgen -source=converter.go -package lineitems -destination catalog_mock.go Catalog
type Catalog interface {
	FindProduct(c context.Context, productID string) (Product, bool, error)
}

// Converter replaces whatever the buyer sent about an item with the
// authoritative catalog data and prices each line.
type Converter struct {
	catalog Catalog
	uuider  myuuid.UUIDer
}

func NewConverter(catalog Catalog, uuider myuuid.UUIDer) *Converter {
	return &Converter{
		catalog: catalog,
		uuider:  uuider,
	}
}

// ConvertForCreate always mints fresh line item ids.
func (cv *Converter) ConvertForCreate(c context.Context, requested []checkoutmodel.LineItem) ([]checkoutmodel.LineItem, error) {
	return cv.convert(c, requested, false)
}

// ConvertForUpdate keeps a line item id supplied by the buyer.
func (cv *Converter) ConvertForUpdate(c context.Context, requested []checkoutmodel.LineItem) ([]checkoutmodel.LineItem, error) {
	return cv.convert(c, requested, true)
}

func (cv *Converter) convert(c context.Context, requested []checkoutmodel.LineItem, keepIDs bool) ([]checkoutmodel.LineItem, error) {
	converted := make([]checkoutmodel.LineItem, 0, len(requested))
	for idx, req := range requested {
		if req.Quantity < 1 {
			return nil, myerrors.NewInvalidInputErrorf("line_items[%d]: quantity must be at least 1", idx)
		}
		if req.Item.ID == "" {
			return nil, myerrors.NewInvalidInputErrorf("line_items[%d]: missing item id", idx)
		}

		product, found, err := cv.catalog.FindProduct(c, req.Item.ID)
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error looking up product %s: %w", req.Item.ID, err))
		}
		if !found {
			return nil, myerrors.NewInvalidInputErrorf("Product not found: %s", req.Item.ID)
		}

		id := req.ID
		if !keepIDs || id == "" {
			id = cv.uuider.Create()
		}

		amount := product.Price * int64(req.Quantity)
		converted = append(converted, checkoutmodel.LineItem{
			ID: id,
			Item: checkoutmodel.Item{
				ID:       product.ID,
				Title:    product.Title,
				Price:    product.Price,
				ImageURL: placeholderImageURL,
			},
			Quantity: req.Quantity,
			Totals: []checkoutmodel.Total{
				{Type: checkoutmodel.TotalTypeSubtotal, Amount: amount},
				{Type: checkoutmodel.TotalTypeTotal, Amount: amount},
			},
		})
	}
	return converted, nil
}
