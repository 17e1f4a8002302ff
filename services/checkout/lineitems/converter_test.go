package lineitems

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

var roses = Product{ID: "bouquet_roses", Title: "Bouquet of Red Roses", Price: 3500}

func TestConvert(t *testing.T) {
	c := context.TODO()

	t.Run("Create uses catalog data and mints ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, catalog := setup(t, ctrl)

		// given
		catalog.EXPECT().FindProduct(gomock.Any(), "bouquet_roses").Return(roses, true, nil)

		// when
		lineItems, err := converter.ConvertForCreate(c, []checkoutmodel.LineItem{
			{ID: "buyer-chosen", Item: checkoutmodel.Item{ID: "bouquet_roses", Title: "cheap", Price: 1}, Quantity: 2},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []checkoutmodel.LineItem{
			{
				ID:       "li-1",
				Item:     checkoutmodel.Item{ID: "bouquet_roses", Title: "Bouquet of Red Roses", Price: 3500, ImageURL: "https://example.com/image.png"},
				Quantity: 2,
				Totals: []checkoutmodel.Total{
					{Type: checkoutmodel.TotalTypeSubtotal, Amount: 7000},
					{Type: checkoutmodel.TotalTypeTotal, Amount: 7000},
				},
			},
		}, lineItems)
	})

	t.Run("Update keeps supplied ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, catalog := setup(t, ctrl)

		catalog.EXPECT().FindProduct(gomock.Any(), "bouquet_roses").Return(roses, true, nil).Times(2)

		lineItems, err := converter.ConvertForUpdate(c, []checkoutmodel.LineItem{
			{ID: "li_existing", Item: checkoutmodel.Item{ID: "bouquet_roses"}, Quantity: 1},
			{Item: checkoutmodel.Item{ID: "bouquet_roses"}, Quantity: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, "li_existing", lineItems[0].ID)
		assert.Equal(t, "li-1", lineItems[1].ID)
	})

	t.Run("Unknown product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, catalog := setup(t, ctrl)

		catalog.EXPECT().FindProduct(gomock.Any(), "daisies").Return(Product{}, false, nil)

		_, err := converter.ConvertForCreate(c, []checkoutmodel.LineItem{{Item: checkoutmodel.Item{ID: "daisies"}, Quantity: 1}})

		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Equal(t, "Product not found: daisies", myerrors.GetMessage(err))
	})

	t.Run("Quantity below one", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, _ := setup(t, ctrl)

		_, err := converter.ConvertForCreate(c, []checkoutmodel.LineItem{{Item: checkoutmodel.Item{ID: "bouquet_roses"}, Quantity: 0}})

		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})

	t.Run("Catalog failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, catalog := setup(t, ctrl)

		catalog.EXPECT().FindProduct(gomock.Any(), "bouquet_roses").Return(Product{}, false, fmt.Errorf("store down"))

		_, err := converter.ConvertForCreate(c, []checkoutmodel.LineItem{{Item: checkoutmodel.Item{ID: "bouquet_roses"}, Quantity: 1}})

		assert.Equal(t, http.StatusInternalServerError, myerrors.GetHTTPStatus(err))
	})

	t.Run("No line items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter, _ := setup(t, ctrl)

		lineItems, err := converter.ConvertForCreate(c, nil)

		assert.NoError(t, err)
		assert.Empty(t, lineItems)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*Converter, *MockCatalog) {
	catalog := NewMockCatalog(ctrl)
	return NewConverter(catalog, &myuuid.SequenceUUIDer{Prefix: "li-"}), catalog
}
