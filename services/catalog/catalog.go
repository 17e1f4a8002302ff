// Package catalog holds the reference data of the shop: products, stock,
// known buyer addresses, shipping rates, promotions and discount codes.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
	"github.com/MarcGrol/ucpcheckout/services/checkout/fulfillment"
	"github.com/MarcGrol/ucpcheckout/services/checkout/inventory"
	"github.com/MarcGrol/ucpcheckout/services/checkout/lineitems"
	"github.com/MarcGrol/ucpcheckout/services/checkout/totals"
)

type Product struct {
	ID    string
	Title string
	Price int64
}

type Address struct {
	ID            string
	CustomerEmail string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
}

type ShippingRate struct {
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

type Discount struct {
	Code        string
	Description string
	Type        string
	Value       int64
}

type Catalog struct {
	products   mystore.Store[Product]
	addresses  mystore.Store[Address]
	rates      mystore.Store[ShippingRate]
	promotions mystore.Store[Promotion]
	discounts  mystore.Store[Discount]
	stock      mystore.Store[inventory.StockLevel]
}

// Open creates the stores of every reference type on the configured backend.
func Open(c context.Context) (*Catalog, func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for _, f := range cleanups {
			f()
		}
	}

	cat := &Catalog{}
	err := openStore(c, &cat.products, &cleanups)
	if err == nil {
		err = openStore(c, &cat.addresses, &cleanups)
	}
	if err == nil {
		err = openStore(c, &cat.rates, &cleanups)
	}
	if err == nil {
		err = openStore(c, &cat.promotions, &cleanups)
	}
	if err == nil {
		err = openStore(c, &cat.discounts, &cleanups)
	}
	if err == nil {
		err = openStore(c, &cat.stock, &cleanups)
	}
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	return cat, cleanup, nil
}

func openStore[T any](c context.Context, target *mystore.Store[T], cleanups *[]func()) error {
	store, cleanup, err := mystore.New[T](c)
	if err != nil {
		return fmt.Errorf("error creating catalog store: %w", err)
	}
	*target = store
	*cleanups = append(*cleanups, cleanup)
	return nil
}

func (cat *Catalog) Stock() mystore.Store[inventory.StockLevel] {
	return cat.stock
}

func (cat *Catalog) FindProduct(c context.Context, productID string) (lineitems.Product, bool, error) {
	p, found, err := cat.products.Get(c, productID)
	if err != nil || !found {
		return lineitems.Product{}, found, err
	}
	return lineitems.Product{ID: p.ID, Title: p.Title, Price: p.Price}, true, nil
}

func (cat *Catalog) FindAddressesByEmail(c context.Context, email string) ([]checkoutmodel.ShippingAddress, error) {
	addresses, err := cat.addresses.Query(c, []mystore.Filter{{Field: "CustomerEmail", Compare: "=", Value: email}}, "ID")
	if err != nil {
		return nil, err
	}

	result := make([]checkoutmodel.ShippingAddress, 0, len(addresses))
	for _, a := range addresses {
		result = append(result, checkoutmodel.ShippingAddress{
			ID: a.ID,
			PostalAddress: checkoutmodel.PostalAddress{
				StreetAddress:   a.StreetAddress,
				AddressLocality: a.City,
				AddressRegion:   a.State,
				PostalCode:      a.PostalCode,
				AddressCountry:  a.Country,
			},
		})
	}
	return result, nil
}

// FindRates returns the default rates followed by those of the country.
func (cat *Catalog) FindRates(c context.Context, countryCode string) ([]fulfillment.Rate, error) {
	countries := []string{fulfillment.DefaultCountryCode}
	if countryCode != fulfillment.DefaultCountryCode {
		countries = append(countries, countryCode)
	}

	result := []fulfillment.Rate{}
	for _, country := range countries {
		rates, err := cat.rates.Query(c, []mystore.Filter{{Field: "CountryCode", Compare: "=", Value: country}}, "ID")
		if err != nil {
			return nil, err
		}
		for _, r := range rates {
			result = append(result, fulfillment.Rate{
				ID:           r.ID,
				CountryCode:  r.CountryCode,
				ServiceLevel: r.ServiceLevel,
				Title:        r.Title,
				Price:        r.Price,
			})
		}
	}
	return result, nil
}

func (cat *Catalog) ListPromotions(c context.Context) ([]fulfillment.Promotion, error) {
	promotions, err := cat.promotions.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]fulfillment.Promotion, 0, len(promotions))
	for _, p := range promotions {
		result = append(result, fulfillment.Promotion{
			ID:                p.ID,
			Title:             p.Title,
			Type:              p.Type,
			SubtotalThreshold: p.SubtotalThreshold,
		})
	}
	return result, nil
}

func (cat *Catalog) FindDiscount(c context.Context, code string) (totals.Discount, bool, error) {
	d, found, err := cat.discounts.Get(c, code)
	if err != nil || !found {
		return totals.Discount{}, found, err
	}
	return totals.Discount{
		Code:        d.Code,
		Description: d.Description,
		Type:        totals.DiscountType(d.Type),
		Value:       d.Value,
	}, true, nil
}

// Seed loads the demo flower shop. Existing rows are left alone so a restart
// does not refill reserved stock.
func (cat *Catalog) Seed(c context.Context) error {
	for _, p := range []Product{
		{ID: "bouquet_roses", Title: "Bouquet of Red Roses", Price: 3500},
		{ID: "tulips_yellow", Title: "Yellow Tulips", Price: 2800},
		{ID: "orchid_white", Title: "White Orchid", Price: 4200},
	} {
		err := seed(c, cat.products, p.ID, p)
		if err != nil {
			return err
		}
		err = seed(c, cat.stock, p.ID, inventory.StockLevel{ProductID: p.ID, Quantity: 100})
		if err != nil {
			return err
		}
	}

	err := seed(c, cat.addresses, "addr_1", Address{
		ID:            "addr_1",
		CustomerEmail: "john.doe@example.com",
		StreetAddress: "123 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62704",
		Country:       "US",
	})
	if err != nil {
		return err
	}

	for _, r := range []ShippingRate{
		{ID: "std-ship", CountryCode: "default", ServiceLevel: "standard", Title: "Standard Shipping", Price: 500},
		{ID: "exp-ship", CountryCode: "default", ServiceLevel: "express", Title: "Express Shipping", Price: 1500},
		{ID: "std-ship-us", CountryCode: "US", ServiceLevel: "standard", Title: "Standard Shipping (US)", Price: 600},
		{ID: "exp-ship-us", CountryCode: "US", ServiceLevel: "express", Title: "Express Shipping (US)", Price: 1800},
	} {
		err = seed(c, cat.rates, r.ID, r)
		if err != nil {
			return err
		}
	}

	err = seed(c, cat.promotions, "promo_free_shipping", Promotion{
		ID:                "promo_free_shipping",
		Title:             "Free shipping on orders over 100.00",
		Type:              fulfillment.PromotionTypeFreeShipping,
		SubtotalThreshold: 10000,
	})
	if err != nil {
		return err
	}

	for _, d := range []Discount{
		{Code: "10OFF", Description: "10% off your order", Type: string(totals.DiscountTypePercentage), Value: 10},
		{Code: "FIVEOFF", Description: "5.00 off your order", Type: string(totals.DiscountTypeFixedAmount), Value: 500},
	} {
		err = seed(c, cat.discounts, d.Code, d)
		if err != nil {
			return err
		}
	}

	return nil
}

func seed[T any](c context.Context, store mystore.Store[T], uid string, value T) error {
	err := mystore.Create(c, store, uid, value)
	if err != nil && !errors.Is(err, mystore.ErrAlreadyExists) {
		return fmt.Errorf("error seeding %s: %w", uid, err)
	}
	return nil
}
