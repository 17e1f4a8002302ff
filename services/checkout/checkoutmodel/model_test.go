package checkoutmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationDiscrimination(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		isRetail bool
		id       string
		country  string
	}{
		{
			name:    "Shipping address",
			in:      `{"id":"addr_1","street_address":"123 Main St","address_locality":"Springfield","address_region":"IL","postal_code":"62704","address_country":"US"}`,
			id:      "addr_1",
			country: "US",
		},
		{
			name:     "Retail location",
			in:       `{"id":"store_1","name":"Flower Market","address":{"street_address":"1 Market Sq","address_country":"NL"}}`,
			isRetail: true,
			id:       "store_1",
			country:  "NL",
		},
		{
			name:     "Retail location without address",
			in:       `{"name":"Pop-up"}`,
			isRetail: true,
			id:       "",
			country:  "",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Destination{}
			err := json.Unmarshal([]byte(tc.in), &d)
			require.NoError(t, err)

			assert.Equal(t, tc.isRetail, d.Retail != nil)
			assert.Equal(t, !tc.isRetail, d.Shipping != nil)
			assert.Equal(t, tc.id, d.ID())
			assert.Equal(t, tc.country, d.CountryCode())

			out, err := json.Marshal(d)
			require.NoError(t, err)
			assert.JSONEq(t, tc.in, string(out))
		})
	}

	t.Run("Not an object", func(t *testing.T) {
		d := Destination{}
		assert.Error(t, json.Unmarshal([]byte(`"addr_1"`), &d))
	})
}

func TestDestinationWithID(t *testing.T) {
	original := NewShippingDestination(ShippingAddress{PostalAddress: PostalAddress{StreetAddress: "1 Elm St"}})

	withID := original.WithID("dest_1")

	assert.Equal(t, "dest_1", withID.ID())
	assert.Equal(t, "", original.ID())
	assert.Equal(t, "1 Elm St", withID.PostalAddress().StreetAddress)
}

func TestMessageConstructors(t *testing.T) {
	errMsg := NewError(SeverityRecoverable, "insufficient_stock", "$.line_items[0]", "Insufficient stock")
	severity, isError := errMsg.ErrorSeverity()
	assert.True(t, isError)
	assert.Equal(t, SeverityRecoverable, severity)

	_, isError = NewWarning("low_stock", "", "Almost sold out").ErrorSeverity()
	assert.False(t, isError)

	out, err := json.Marshal(NewInfo("gift", "", "Gift wrapping available"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"info","code":"gift","content":"Gift wrapping available"}`, string(out))
}

func TestSelections(t *testing.T) {
	m := Method{
		Destinations:          []Destination{NewShippingDestination(ShippingAddress{ID: "a"}), NewShippingDestination(ShippingAddress{ID: "b"})},
		SelectedDestinationID: "b",
	}
	d, found := m.SelectedDestination()
	assert.True(t, found)
	assert.Equal(t, "b", d.ID())

	m.SelectedDestinationID = "unknown"
	_, found = m.SelectedDestination()
	assert.False(t, found)

	g := Group{
		Options:          []Option{{ID: "std", Totals: []Total{{Type: TotalTypeSubtotal, Amount: 500}, {Type: TotalTypeTotal, Amount: 500}}}},
		SelectedOptionID: "std",
	}
	o, found := g.SelectedOption()
	assert.True(t, found)
	assert.Equal(t, int64(500), o.TotalAmount())
}
