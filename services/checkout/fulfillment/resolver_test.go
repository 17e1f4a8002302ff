package fulfillment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

var (
	homeAddress = checkoutmodel.ShippingAddress{
		ID: "addr_1",
		PostalAddress: checkoutmodel.PostalAddress{
			StreetAddress:   "123 Main St",
			AddressLocality: "Springfield",
			AddressRegion:   "IL",
			PostalCode:      "62704",
			AddressCountry:  "US",
		},
	}
	defaultRates = []Rate{
		{ID: "std-ship", CountryCode: "default", ServiceLevel: "standard", Title: "Standard Shipping", Price: 500},
		{ID: "exp-ship", CountryCode: "default", ServiceLevel: "express", Title: "Express Shipping", Price: 1500},
	}
	usRates = []Rate{
		{ID: "std-ship-us", CountryCode: "US", ServiceLevel: "Standard", Title: "US Standard", Price: 700},
		{ID: "std-ship", CountryCode: "default", ServiceLevel: "standard", Title: "Standard Shipping", Price: 500},
	}
	tulips = []checkoutmodel.LineItem{
		{ID: "li_1", Item: checkoutmodel.Item{ID: "tulips_yellow", Price: 2800}, Quantity: 1},
	}
	freeShippingPromotion = Promotion{ID: "promo_1", Type: PromotionTypeFreeShipping, SubtotalThreshold: 10000}
)

func TestResolve(t *testing.T) {
	c := context.TODO()

	t.Run("Empty request gets a suggested shipping method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		// given
		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), "john.doe@example.com").Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil)
		rates.EXPECT().FindRates(gomock.Any(), DefaultCountryCode).Return(defaultRates, nil)

		// when
		plan, err := resolver.Resolve(c, nil, tulips, "john.doe@example.com", 2800)

		// then
		require.NoError(t, err)
		assert.Empty(t, plan.Messages)
		assert.Equal(t, []checkoutmodel.AvailableMethod{{Type: "shipping", LineItemIDs: []string{"li_1"}}}, plan.Fulfillment.AvailableMethods)

		require.Len(t, plan.Fulfillment.Methods, 1)
		method := plan.Fulfillment.Methods[0]
		assert.Equal(t, "id-1", method.ID)
		assert.Equal(t, checkoutmodel.MethodTypeShipping, method.Type)
		assert.Equal(t, []string{"li_1"}, method.LineItemIDs)
		require.Len(t, method.Destinations, 1)
		assert.Equal(t, "addr_1", method.Destinations[0].ID())

		require.Len(t, method.Groups, 1)
		assert.Equal(t, "id-2", method.Groups[0].ID)
		assert.Equal(t, []string{"li_1"}, method.Groups[0].LineItemIDs)
		assert.Equal(t, []checkoutmodel.Option{
			{ID: "std-ship", Title: "Standard Shipping", Totals: []checkoutmodel.Total{{Type: "subtotal", Amount: 500}, {Type: "total", Amount: 500}}},
			{ID: "exp-ship", Title: "Express Shipping", Totals: []checkoutmodel.Total{{Type: "subtotal", Amount: 1500}, {Type: "total", Amount: 1500}}},
		}, method.Groups[0].Options)
	})

	t.Run("Anonymous buyer without destinations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, _, rates, promotions := setup(t, ctrl)

		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil)
		rates.EXPECT().FindRates(gomock.Any(), DefaultCountryCode).Return(defaultRates, nil)

		plan, err := resolver.Resolve(c, nil, tulips, "", 2800)

		require.NoError(t, err)
		assert.Equal(t, []checkoutmodel.Message{
			checkoutmodel.NewError(checkoutmodel.SeverityRecoverable, "no_fulfillment_destinations",
				"$.fulfillment.methods[?(@.id=='id-1')].destinations", "No fulfillment destinations found for the buyer."),
		}, plan.Messages)
	})

	t.Run("Selected destination drives the country rates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		// given
		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), "john.doe@example.com").Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return([]Promotion{freeShippingPromotion}, nil)
		rates.EXPECT().FindRates(gomock.Any(), "US").Return(usRates, nil)

		requested := &checkoutmodel.Fulfillment{
			Methods: []checkoutmodel.Method{
				{ID: "m_1", Type: "shipping", LineItemIDs: []string{"li_1"}, SelectedDestinationID: "addr_1",
					Groups: []checkoutmodel.Group{{ID: "g_1", LineItemIDs: []string{"li_1"}, SelectedOptionID: "std-ship-us"}}},
			},
		}

		// when
		plan, err := resolver.Resolve(c, requested, tulips, "john.doe@example.com", 12000)

		// then
		require.NoError(t, err)
		group := plan.Fulfillment.Methods[0].Groups[0]
		assert.Equal(t, "g_1", group.ID)
		assert.Equal(t, "std-ship-us", group.SelectedOptionID)
		assert.Equal(t, "US Standard (Free)", group.Options[0].Title)
		assert.Equal(t, int64(0), group.Options[0].TotalAmount())
		assert.Equal(t, "Standard Shipping (Free)", group.Options[1].Title)

		// request is untouched
		assert.Empty(t, requested.Methods[0].Destinations)
		assert.Empty(t, requested.Methods[0].Groups[0].Options)
	})

	t.Run("Unknown selection falls back to default rates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil)
		rates.EXPECT().FindRates(gomock.Any(), DefaultCountryCode).Return(defaultRates, nil)

		requested := &checkoutmodel.Fulfillment{
			Methods: []checkoutmodel.Method{{Type: "shipping", SelectedDestinationID: "addr_404"}},
		}
		_, err := resolver.Resolve(c, requested, tulips, "john.doe@example.com", 2800)

		assert.NoError(t, err)
	})

	t.Run("Free shipping product skips promotions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, _, rates, _ := setup(t, ctrl)

		rates.EXPECT().FindRates(gomock.Any(), DefaultCountryCode).Return(defaultRates, nil)

		roses := []checkoutmodel.LineItem{{ID: "li_1", Item: checkoutmodel.Item{ID: "bouquet_roses"}, Quantity: 1}}
		plan, err := resolver.Resolve(c, nil, roses, "", 3500)

		require.NoError(t, err)
		options := plan.Fulfillment.Methods[0].Groups[0].Options
		assert.Equal(t, "Standard Shipping (Free)", options[0].Title)
		assert.Equal(t, int64(0), options[0].TotalAmount())
		assert.Equal(t, "Express Shipping", options[1].Title)
		assert.Equal(t, int64(1500), options[1].TotalAmount())
	})

	t.Run("Collaborator failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, _, _ := setup(t, ctrl)

		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("store down"))

		_, err := resolver.Resolve(c, nil, tulips, "john.doe@example.com", 2800)

		assert.Error(t, err)
	})
}

func TestFreeShippingThreshold(t *testing.T) {
	c := context.TODO()

	testCases := []struct {
		subtotal int64
		free     bool
	}{
		{subtotal: 0, free: false},
		{subtotal: 9999, free: false},
		{subtotal: 10000, free: true},
		{subtotal: 25000, free: true},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("subtotal %d", tc.subtotal), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver, _, rates, promotions := setup(t, ctrl)

			promotions.EXPECT().ListPromotions(gomock.Any()).Return([]Promotion{freeShippingPromotion}, nil)
			rates.EXPECT().FindRates(gomock.Any(), DefaultCountryCode).Return(defaultRates, nil)

			plan, err := resolver.Resolve(c, nil, tulips, "", tc.subtotal)

			require.NoError(t, err)
			standard := plan.Fulfillment.Methods[0].Groups[0].Options[0]
			assert.Equal(t, tc.free, standard.TotalAmount() == 0)
		})
	}
}

func TestDestinationMerge(t *testing.T) {
	c := context.TODO()

	t.Run("Flat address matching a known one reuses its id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil).AnyTimes()
		rates.EXPECT().FindRates(gomock.Any(), gomock.Any()).Return(defaultRates, nil).AnyTimes()

		requested := &checkoutmodel.Fulfillment{
			Methods: []checkoutmodel.Method{{
				Type: "shipping",
				Destinations: []checkoutmodel.Destination{
					checkoutmodel.NewShippingDestination(checkoutmodel.ShippingAddress{PostalAddress: homeAddress.PostalAddress}),
					checkoutmodel.NewShippingDestination(checkoutmodel.ShippingAddress{PostalAddress: checkoutmodel.PostalAddress{StreetAddress: "1 Elm St", AddressCountry: "CA"}}),
					checkoutmodel.NewRetailDestination(checkoutmodel.RetailLocation{Name: "Flower Market"}),
				},
			}},
		}

		plan, err := resolver.Resolve(c, requested, tulips, "john.doe@example.com", 2800)

		require.NoError(t, err)
		ids := []string{}
		for _, d := range plan.Fulfillment.Methods[0].Destinations {
			ids = append(ids, d.ID())
		}
		assert.Equal(t, []string{"addr_1", "id-1", "id-2"}, ids)
		assert.NotNil(t, plan.Fulfillment.Methods[0].Destinations[2].Retail)
	})

	t.Run("Requested destination with id replaces known one in place", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil)
		rates.EXPECT().FindRates(gomock.Any(), gomock.Any()).Return(defaultRates, nil)

		moved := checkoutmodel.ShippingAddress{ID: "addr_1", PostalAddress: checkoutmodel.PostalAddress{StreetAddress: "9 New Rd", AddressCountry: "US"}}
		requested := &checkoutmodel.Fulfillment{
			Methods: []checkoutmodel.Method{{Type: "shipping", Destinations: []checkoutmodel.Destination{checkoutmodel.NewShippingDestination(moved)}}},
		}

		plan, err := resolver.Resolve(c, requested, tulips, "john.doe@example.com", 2800)

		require.NoError(t, err)
		destinations := plan.Fulfillment.Methods[0].Destinations
		require.Len(t, destinations, 1)
		assert.Equal(t, "9 New Rd", destinations[0].PostalAddress().StreetAddress)
	})

	t.Run("Resolving a resolved plan keeps destination ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver, addresses, rates, promotions := setup(t, ctrl)

		addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return([]checkoutmodel.ShippingAddress{homeAddress}, nil).Times(2)
		promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil).Times(2)
		rates.EXPECT().FindRates(gomock.Any(), gomock.Any()).Return(defaultRates, nil).Times(2)

		requested := &checkoutmodel.Fulfillment{
			Methods: []checkoutmodel.Method{{
				Type:         "shipping",
				Destinations: []checkoutmodel.Destination{checkoutmodel.NewShippingDestination(checkoutmodel.ShippingAddress{PostalAddress: checkoutmodel.PostalAddress{StreetAddress: "1 Elm St"}})},
			}},
		}

		first, err := resolver.Resolve(c, requested, tulips, "john.doe@example.com", 2800)
		require.NoError(t, err)
		second, err := resolver.Resolve(c, first.Fulfillment, tulips, "john.doe@example.com", 2800)
		require.NoError(t, err)

		assert.Equal(t, first.Fulfillment.Methods, second.Fulfillment.Methods)
	})
}

func TestMethodValidation(t *testing.T) {
	c := context.TODO()

	testCases := []struct {
		name     string
		methods  []checkoutmodel.Method
		expected string
	}{
		{
			name:     "Multiple methods",
			methods:  []checkoutmodel.Method{{ID: "m_1", Type: "shipping"}, {ID: "m_2", Type: "shipping"}},
			expected: "multiple_fulfillment_methods_not_supported",
		},
		{
			name:     "Pickup is not supported",
			methods:  []checkoutmodel.Method{{ID: "m_1", Type: "pickup"}},
			expected: "unsupported_fulfillment_method_type",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver, addresses, rates, promotions := setup(t, ctrl)

			addresses.EXPECT().FindAddressesByEmail(gomock.Any(), gomock.Any()).Return([]checkoutmodel.ShippingAddress{homeAddress}, nil)
			promotions.EXPECT().ListPromotions(gomock.Any()).Return(nil, nil)
			rates.EXPECT().FindRates(gomock.Any(), gomock.Any()).Return(defaultRates, nil).AnyTimes()

			plan, err := resolver.Resolve(c, &checkoutmodel.Fulfillment{Methods: tc.methods}, tulips, "john.doe@example.com", 2800)

			require.NoError(t, err)
			require.Len(t, plan.Messages, 1)
			assert.Equal(t, tc.expected, plan.Messages[0].Code)
			assert.Equal(t, checkoutmodel.SeverityRecoverable, plan.Messages[0].Severity)
		})
	}
}

func setup(t *testing.T, ctrl *gomock.Controller) (*Resolver, *MockAddressBook, *MockRateTable, *MockPromotions) {
	addresses := NewMockAddressBook(ctrl)
	rates := NewMockRateTable(ctrl)
	promotions := NewMockPromotions(ctrl)

	return New(addresses, rates, promotions, &myuuid.SequenceUUIDer{Prefix: "id-"}, []string{"bouquet_roses"}), addresses, rates, promotions
}
