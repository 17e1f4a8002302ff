// Package fakeplatform plays the buying platform during conformance runs: it
// publishes a UCP profile and records the order webhooks it receives.
package fakeplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/ucpcheckout/lib/mycontext"
	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myhttp"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/ordernotifier"
	"github.com/MarcGrol/ucpcheckout/services/platformprofile"
)

const (
	ProfilePath = "/testing/platform/profile"
	WebhookPath = "/testing/platform/webhooks/orders"
)

type ReceivedEvent struct {
	UID        string
	OrderID    string
	EventType  string
	ReceivedAt time.Time
	Payload    string `datastore:",noindex"`
}

type Platform struct {
	logger mylog.Logger
	store  mystore.Store[ReceivedEvent]
	nower  mytime.Nower
	uuider myuuid.UUIDer
}

func New(store mystore.Store[ReceivedEvent], nower mytime.Nower, uuider myuuid.UUIDer) *Platform {
	return &Platform{
		logger: mylog.New("fakeplatform"),
		store:  store,
		nower:  nower,
		uuider: uuider,
	}
}

func (p *Platform) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc(ProfilePath, p.profilePage()).Methods("GET")
	router.HandleFunc(WebhookPath, p.webhookPage()).Methods("POST")
	router.HandleFunc("/testing/platform/orders/{orderId}/events", p.eventsPage()).Methods("GET")

	return nil
}

// EventsOf returns the webhooks received for an order in arrival order.
func (p *Platform) EventsOf(c context.Context, orderID string) ([]ReceivedEvent, error) {
	events, err := p.store.Query(c, []mystore.Filter{{Field: "OrderID", Compare: "=", Value: orderID}}, "ReceivedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching events of order %s: %s", orderID, err))
	}
	return events, nil
}

func (p *Platform) profilePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(p.logger)

		responseWriter.Write(c, w, http.StatusOK, map[string]any{
			"ucp": map[string]any{
				"version": "2026-01-11",
				"capabilities": []map[string]any{
					{
						"name":    platformprofile.OrderCapabilityName,
						"version": "2026-01-11",
						"config": map[string]string{
							"webhook_url": myhttp.HostnameWithScheme(r) + WebhookPath,
						},
					},
				},
			},
		})
	}
}

func (p *Platform) webhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(p.logger)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewInvalidInputError(err))
			return
		}

		event := ordernotifier.OrderEvent{}
		err = json.Unmarshal(body, &event)
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewInvalidInputError(fmt.Errorf("error parsing order event: %s", err)))
			return
		}
		if event.ID == "" || event.EventType == "" {
			responseWriter.WriteError(c, w, myerrors.NewInvalidInputErrorf("order event lacks id or event_type"))
			return
		}

		received := ReceivedEvent{
			UID:        p.uuider.Create(),
			OrderID:    event.ID,
			EventType:  event.EventType,
			ReceivedAt: p.nower.Now(),
			Payload:    string(body),
		}
		err = p.store.Put(c, received.UID, received)
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewInternalError(err))
			return
		}

		p.logger.Log(c, event.ID, mylog.SeverityInfo, "Received %s for order %s", event.EventType, event.ID)

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Received %s", event.EventType),
		})
	}
}

func (p *Platform) eventsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(p.logger)

		events, err := p.EventsOf(c, mux.Vars(r)["orderId"])
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, events)
	}
}
