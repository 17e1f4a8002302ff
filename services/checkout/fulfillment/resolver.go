// Package fulfillment turns the fulfillment part of a checkout request into a
// fully populated plan: ids, destinations, groups and priced options.
package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	DefaultCountryCode         = "default"
	ServiceLevelStandard       = "standard"
	PromotionTypeFreeShipping  = "free_shipping"
	codeNoDestinations         = "no_fulfillment_destinations"
	codeMultipleMethods        = "multiple_fulfillment_methods_not_supported"
	codeUnsupportedMethodType  = "unsupported_fulfillment_method_type"
	freeShippingTitleDecorator = " (Free)"
)

type Rate struct {
	ID           string
	CountryCode  string
	ServiceLevel string
	Title        string
	Price        int64
}

type Promotion struct {
	ID                string
	Title             string
	Type              string
	SubtotalThreshold int64
}

//go:generate mockgen -source=resolver.go -package fulfillment -destination collaborators_mock.go AddressBook RateTable Promotions
type AddressBook interface {
	FindAddressesByEmail(c context.Context, email string) ([]checkoutmodel.ShippingAddress, error)
}

type RateTable interface {
	// FindRates returns the rates of the country together with the default rates.
	FindRates(c context.Context, countryCode string) ([]Rate, error)
}

type Promotions interface {
	ListPromotions(c context.Context) ([]Promotion, error)
}

type Plan struct {
	Fulfillment *checkoutmodel.Fulfillment
	Messages    []checkoutmodel.Message
}

type Resolver struct {
	addresses              AddressBook
	rates                  RateTable
	promotions             Promotions
	uuider                 myuuid.UUIDer
	freeShippingProductIDs map[string]bool
}

func New(addresses AddressBook, rates RateTable, promotions Promotions, uuider myuuid.UUIDer, freeShippingProductIDs []string) *Resolver {
	ids := map[string]bool{}
	for _, id := range freeShippingProductIDs {
		ids[id] = true
	}
	return &Resolver{
		addresses:              addresses,
		rates:                  rates,
		promotions:             promotions,
		uuider:                 uuider,
		freeShippingProductIDs: ids,
	}
}

// Resolve never modifies requested; the returned plan holds a fresh copy.
func (r *Resolver) Resolve(c context.Context, requested *checkoutmodel.Fulfillment, lineItems []checkoutmodel.LineItem, buyerEmail string, subtotal int64) (Plan, error) {
	allLineItemIDs := lineItemIDs(lineItems)

	known := []checkoutmodel.Destination{}
	if buyerEmail != "" {
		addresses, err := r.addresses.FindAddressesByEmail(c, buyerEmail)
		if err != nil {
			return Plan{}, fmt.Errorf("error fetching addresses of buyer: %w", err)
		}
		for _, a := range addresses {
			known = append(known, checkoutmodel.NewShippingDestination(a))
		}
	}

	plan := Plan{
		Fulfillment: &checkoutmodel.Fulfillment{
			AvailableMethods: []checkoutmodel.AvailableMethod{
				{Type: checkoutmodel.MethodTypeShipping, LineItemIDs: allLineItemIDs},
			},
		},
	}

	methods := []checkoutmodel.Method{}
	if requested != nil {
		methods = copyMethods(requested.Methods)
	}
	if len(methods) == 0 {
		methods = append(methods, checkoutmodel.Method{
			Type:        checkoutmodel.MethodTypeShipping,
			LineItemIDs: allLineItemIDs,
		})
	}

	for i := range methods {
		m := &methods[i]

		m.Destinations = r.mergeDestinations(known, m.Destinations)
		if m.ID == "" {
			m.ID = r.uuider.Create()
		}
		if len(m.Destinations) == 0 {
			plan.Messages = append(plan.Messages, checkoutmodel.NewError(checkoutmodel.SeverityRecoverable,
				codeNoDestinations,
				fmt.Sprintf("$.fulfillment.methods[?(@.id=='%s')].destinations", m.ID),
				"No fulfillment destinations found for the buyer."))
		}

		if len(m.Groups) == 0 {
			m.Groups = []checkoutmodel.Group{{LineItemIDs: m.LineItemIDs}}
		}
		for j := range m.Groups {
			if m.Groups[j].ID == "" {
				m.Groups[j].ID = r.uuider.Create()
			}
		}
	}

	if len(methods) > 1 {
		plan.Messages = append(plan.Messages, checkoutmodel.NewError(checkoutmodel.SeverityRecoverable,
			codeMultipleMethods, "$.fulfillment.methods", "Multiple fulfillment methods are not supported."))
	} else if methods[0].Type != checkoutmodel.MethodTypeShipping {
		plan.Messages = append(plan.Messages, checkoutmodel.NewError(checkoutmodel.SeverityRecoverable,
			codeUnsupportedMethodType, "$.fulfillment.methods[0]", "Unsupported fulfillment method type."))
	}

	freeShipping, err := r.qualifiesForFreeShipping(c, lineItems, subtotal)
	if err != nil {
		return Plan{}, err
	}

	for i := range methods {
		m := &methods[i]
		countryCode := DefaultCountryCode
		if d, found := m.SelectedDestination(); found && d.CountryCode() != "" {
			countryCode = d.CountryCode()
		}

		options, err := r.shippingOptions(c, countryCode, freeShipping)
		if err != nil {
			return Plan{}, err
		}
		for j := range m.Groups {
			m.Groups[j].Options = copyOptions(options)
		}
	}

	plan.Fulfillment.Methods = methods

	return plan, nil
}

// mergeDestinations keeps the known addresses first, in order. A requested
// destination with an id replaces the entry under that id; one without an id
// reuses the id of an identical known address or gets a fresh one.
func (r *Resolver) mergeDestinations(known []checkoutmodel.Destination, requested []checkoutmodel.Destination) []checkoutmodel.Destination {
	order := []string{}
	byID := map[string]checkoutmodel.Destination{}
	put := func(d checkoutmodel.Destination) {
		if _, exists := byID[d.ID()]; !exists {
			order = append(order, d.ID())
		}
		byID[d.ID()] = d
	}

	for _, k := range known {
		put(k)
	}

	for _, req := range requested {
		if req.ID() != "" {
			put(req)
			continue
		}

		id := ""
		if req.Shipping != nil {
			for _, k := range known {
				if k.Shipping != nil && sameAddress(req.Shipping.PostalAddress, k.Shipping.PostalAddress) {
					id = k.ID()
					break
				}
			}
		}
		if id == "" {
			id = r.uuider.Create()
		}
		put(req.WithID(id))
	}

	merged := make([]checkoutmodel.Destination, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}

func sameAddress(a, b checkoutmodel.PostalAddress) bool {
	return a.StreetAddress == b.StreetAddress &&
		a.AddressLocality == b.AddressLocality &&
		a.AddressRegion == b.AddressRegion &&
		a.PostalCode == b.PostalCode &&
		a.AddressCountry == b.AddressCountry
}

func (r *Resolver) qualifiesForFreeShipping(c context.Context, lineItems []checkoutmodel.LineItem, subtotal int64) (bool, error) {
	for _, li := range lineItems {
		if r.freeShippingProductIDs[li.Item.ID] {
			return true, nil
		}
	}

	promotions, err := r.promotions.ListPromotions(c)
	if err != nil {
		return false, fmt.Errorf("error fetching promotions: %w", err)
	}
	for _, p := range promotions {
		if p.Type == PromotionTypeFreeShipping && subtotal >= p.SubtotalThreshold {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) shippingOptions(c context.Context, countryCode string, freeShipping bool) ([]checkoutmodel.Option, error) {
	rates, err := r.rates.FindRates(c, countryCode)
	if err != nil {
		return nil, fmt.Errorf("error fetching shipping rates for %s: %w", countryCode, err)
	}

	options := make([]checkoutmodel.Option, 0, len(rates))
	for _, rate := range rates {
		price := rate.Price
		title := rate.Title
		if freeShipping && strings.EqualFold(rate.ServiceLevel, ServiceLevelStandard) {
			price = 0
			title += freeShippingTitleDecorator
		}
		options = append(options, checkoutmodel.Option{
			ID:    rate.ID,
			Title: title,
			Totals: []checkoutmodel.Total{
				{Type: checkoutmodel.TotalTypeSubtotal, Amount: price},
				{Type: checkoutmodel.TotalTypeTotal, Amount: price},
			},
		})
	}
	return options, nil
}

func lineItemIDs(lineItems []checkoutmodel.LineItem) []string {
	ids := make([]string, 0, len(lineItems))
	for _, li := range lineItems {
		ids = append(ids, li.ID)
	}
	return ids
}

func copyMethods(in []checkoutmodel.Method) []checkoutmodel.Method {
	out := make([]checkoutmodel.Method, 0, len(in))
	for _, m := range in {
		m.LineItemIDs = append([]string(nil), m.LineItemIDs...)
		m.Destinations = append([]checkoutmodel.Destination(nil), m.Destinations...)
		groups := make([]checkoutmodel.Group, 0, len(m.Groups))
		for _, g := range m.Groups {
			g.LineItemIDs = append([]string(nil), g.LineItemIDs...)
			g.Options = copyOptions(g.Options)
			groups = append(groups, g)
		}
		m.Groups = groups
		out = append(out, m)
	}
	return out
}

func copyOptions(in []checkoutmodel.Option) []checkoutmodel.Option {
	out := make([]checkoutmodel.Option, 0, len(in))
	for _, o := range in {
		o.Totals = append([]checkoutmodel.Total(nil), o.Totals...)
		out = append(out, o)
	}
	return out
}
