package ordernotifier

import (
	"time"

	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	EventTypeOrderPlaced  = "order_placed"
	EventTypeOrderShipped = "order_shipped"

	LineItemStatusProcessing = "processing"
	LineItemStatusFulfilled  = "fulfilled"

	mockCarrier        = "MockCarrier"
	mockTrackingNumber = "MOCK123456789"
	mockTrackingURL    = "https://example.com/track/" + mockTrackingNumber
)

type OrderEvent struct {
	UCP          OrderUCP              `json:"ucp"`
	ID           string                `json:"id"`
	CheckoutID   string                `json:"checkout_id"`
	PermalinkURL string                `json:"permalink_url"`
	LineItems    []OrderLineItem       `json:"line_items"`
	Fulfillment  OrderFulfillment      `json:"fulfillment"`
	Totals       []checkoutmodel.Total `json:"totals"`
	EventID      string                `json:"event_id"`
	CreatedTime  time.Time             `json:"created_time"`
	EventType    string                `json:"event_type"`
}

type OrderUCP struct {
	Version string `json:"version"`
}

type OrderLineItem struct {
	ID       string                `json:"id"`
	Item     checkoutmodel.Item    `json:"item"`
	Quantity OrderQuantity         `json:"quantity"`
	Status   string                `json:"status"`
	Totals   []checkoutmodel.Total `json:"totals"`
}

type OrderQuantity struct {
	Total     int `json:"total"`
	Fulfilled int `json:"fulfilled"`
}

type LineItemRef struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type OrderFulfillment struct {
	Expectations []Expectation      `json:"expectations"`
	Events       []FulfillmentEvent `json:"events"`
}

type Expectation struct {
	ID          string                       `json:"id"`
	MethodType  string                       `json:"method_type"`
	Destination *checkoutmodel.PostalAddress `json:"destination,omitempty"`
	LineItems   []LineItemRef                `json:"line_items"`
}

type FulfillmentEvent struct {
	ID             string        `json:"id"`
	OccurredAt     time.Time     `json:"occurred_at"`
	Type           string        `json:"type"`
	Carrier        string        `json:"carrier"`
	TrackingNumber string        `json:"tracking_number"`
	TrackingURL    string        `json:"tracking_url"`
	LineItems      []LineItemRef `json:"line_items"`
}

func (s *Sequencer) placedEvent(session checkoutmodel.Session) OrderEvent {
	event := OrderEvent{
		UCP:          OrderUCP{Version: session.UCP.Version},
		ID:           session.Order.ID,
		CheckoutID:   session.ID,
		PermalinkURL: session.Order.PermalinkURL,
		LineItems:    []OrderLineItem{},
		Fulfillment: OrderFulfillment{
			Expectations: []Expectation{},
			Events:       []FulfillmentEvent{},
		},
		Totals:      session.Totals,
		EventID:     s.uuider.Create(),
		CreatedTime: s.nower.Now(),
		EventType:   EventTypeOrderPlaced,
	}

	refs := []LineItemRef{}
	for _, li := range session.LineItems {
		event.LineItems = append(event.LineItems, OrderLineItem{
			ID:       li.ID,
			Item:     li.Item,
			Quantity: OrderQuantity{Total: li.Quantity, Fulfilled: 0},
			Status:   LineItemStatusProcessing,
			Totals:   li.Totals,
		})
		refs = append(refs, LineItemRef{ID: li.ID, Quantity: li.Quantity})
	}

	if session.Fulfillment != nil {
		for _, m := range session.Fulfillment.Methods {
			expectation := Expectation{
				ID:         s.uuider.Create(),
				MethodType: m.Type,
				LineItems:  refs,
			}
			if d, found := m.SelectedDestination(); found {
				address := d.PostalAddress()
				expectation.Destination = &address
			}
			event.Fulfillment.Expectations = append(event.Fulfillment.Expectations, expectation)
		}
	}

	return event
}

// shippedEvent derives the follow-up of a placed event; placed is left untouched.
func (s *Sequencer) shippedEvent(placed OrderEvent) OrderEvent {
	shipped := placed
	shipped.EventID = s.uuider.Create()
	shipped.CreatedTime = s.nower.Now()
	shipped.EventType = EventTypeOrderShipped

	shipped.LineItems = make([]OrderLineItem, 0, len(placed.LineItems))
	refs := make([]LineItemRef, 0, len(placed.LineItems))
	for _, li := range placed.LineItems {
		li.Status = LineItemStatusFulfilled
		li.Quantity.Fulfilled = li.Quantity.Total
		shipped.LineItems = append(shipped.LineItems, li)
		refs = append(refs, LineItemRef{ID: li.ID, Quantity: li.Quantity.Total})
	}

	shipped.Fulfillment.Events = append(append([]FulfillmentEvent{}, placed.Fulfillment.Events...), FulfillmentEvent{
		ID:             s.uuider.Create(),
		OccurredAt:     s.nower.Now(),
		Type:           "shipped",
		Carrier:        mockCarrier,
		TrackingNumber: mockTrackingNumber,
		TrackingURL:    mockTrackingURL,
		LineItems:      refs,
	})

	return shipped
}
