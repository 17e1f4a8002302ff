package checkoutmodel

import (
	"encoding/json"
	"fmt"
)

const MethodTypeShipping = "shipping"

type Fulfillment struct {
	Methods          []Method          `json:"methods,omitempty"`
	AvailableMethods []AvailableMethod `json:"available_methods,omitempty"`
}

type AvailableMethod struct {
	Type        string   `json:"type"`
	LineItemIDs []string `json:"line_item_ids"`
}

type Method struct {
	ID                    string        `json:"id,omitempty"`
	Type                  string        `json:"type"`
	LineItemIDs           []string      `json:"line_item_ids,omitempty"`
	Destinations          []Destination `json:"destinations,omitempty"`
	SelectedDestinationID string        `json:"selected_destination_id,omitempty"`
	Groups                []Group       `json:"groups,omitempty"`
}

// SelectedDestination returns the destination whose id matches the selection.
func (m Method) SelectedDestination() (Destination, bool) {
	if m.SelectedDestinationID == "" {
		return Destination{}, false
	}
	for _, d := range m.Destinations {
		if d.ID() == m.SelectedDestinationID {
			return d, true
		}
	}
	return Destination{}, false
}

type Group struct {
	ID               string   `json:"id,omitempty"`
	LineItemIDs      []string `json:"line_item_ids,omitempty"`
	Options          []Option `json:"options,omitempty"`
	SelectedOptionID string   `json:"selected_option_id,omitempty"`
}

// SelectedOption returns the option whose id matches the selection.
func (g Group) SelectedOption() (Option, bool) {
	if g.SelectedOptionID == "" {
		return Option{}, false
	}
	for _, o := range g.Options {
		if o.ID == g.SelectedOptionID {
			return o, true
		}
	}
	return Option{}, false
}

type Option struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Totals []Total `json:"totals"`
}

func (o Option) TotalAmount() int64 {
	for _, t := range o.Totals {
		if t.Type == TotalTypeTotal {
			return t.Amount
		}
	}
	return 0
}

type PostalAddress struct {
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	StreetAddress   string `json:"street_address,omitempty"`
	ExtendedAddress string `json:"extended_address,omitempty"`
	AddressLocality string `json:"address_locality,omitempty"`
	AddressRegion   string `json:"address_region,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	AddressCountry  string `json:"address_country,omitempty"`
}

type ShippingAddress struct {
	ID string `json:"id,omitempty"`
	PostalAddress
}

type RetailLocation struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name"`
	Address *PostalAddress `json:"address,omitempty"`
}

// Destination holds exactly one of its variants. On the wire a retail location
// is recognised by its name field.
type Destination struct {
	Shipping *ShippingAddress
	Retail   *RetailLocation
}

func NewShippingDestination(a ShippingAddress) Destination {
	return Destination{Shipping: &a}
}

func NewRetailDestination(l RetailLocation) Destination {
	return Destination{Retail: &l}
}

func (d Destination) ID() string {
	switch {
	case d.Shipping != nil:
		return d.Shipping.ID
	case d.Retail != nil:
		return d.Retail.ID
	default:
		return ""
	}
}

// WithID returns a copy carrying the given id.
func (d Destination) WithID(id string) Destination {
	switch {
	case d.Shipping != nil:
		s := *d.Shipping
		s.ID = id
		return Destination{Shipping: &s}
	case d.Retail != nil:
		r := *d.Retail
		r.ID = id
		return Destination{Retail: &r}
	default:
		return d
	}
}

// PostalAddress is the normalized address projection of either variant.
func (d Destination) PostalAddress() PostalAddress {
	switch {
	case d.Shipping != nil:
		return d.Shipping.PostalAddress
	case d.Retail != nil && d.Retail.Address != nil:
		return *d.Retail.Address
	default:
		return PostalAddress{}
	}
}

func (d Destination) CountryCode() string {
	return d.PostalAddress().AddressCountry
}

func (d Destination) MarshalJSON() ([]byte, error) {
	switch {
	case d.Shipping != nil:
		return json.Marshal(d.Shipping)
	case d.Retail != nil:
		return json.Marshal(d.Retail)
	default:
		return nil, fmt.Errorf("empty destination")
	}
}

func (d *Destination) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("destination must be an object: %w", err)
	}

	if _, isRetail := fields["name"]; isRetail {
		r := RetailLocation{}
		err = json.Unmarshal(data, &r)
		if err != nil {
			return err
		}
		*d = Destination{Retail: &r}
		return nil
	}

	s := ShippingAddress{}
	err = json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	*d = Destination{Shipping: &s}
	return nil
}
