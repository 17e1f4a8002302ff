// Package ordernotifier tells the buying platform about the life of an order:
// order_placed right after completion, order_shipped once shipment is
// triggered or the wait for it times out.
package ordernotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MarcGrol/ucpcheckout/lib/myhttpclient"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mymetrics"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const DefaultShipmentTimeout = 60 * time.Second

type Sequencer struct {
	logger          mylog.Logger
	triggers        *ShipmentTriggers
	httpSender      myhttpclient.HTTPSender
	uuider          myuuid.UUIDer
	nower           mytime.Nower
	metrics         *mymetrics.Metrics
	shipmentTimeout time.Duration
	inFlight        sync.WaitGroup
}

func NewSequencer(httpSender myhttpclient.HTTPSender, uuider myuuid.UUIDer, nower mytime.Nower, metrics *mymetrics.Metrics, shipmentTimeout time.Duration) *Sequencer {
	if shipmentTimeout <= 0 {
		shipmentTimeout = DefaultShipmentTimeout
	}
	return &Sequencer{
		logger:          mylog.New("ordernotifier"),
		triggers:        NewShipmentTriggers(shipmentTimeout),
		httpSender:      httpSender,
		uuider:          uuider,
		nower:           nower,
		metrics:         metrics,
		shipmentTimeout: shipmentTimeout,
	}
}

// Notify runs the notification sequence in the background and returns
// immediately. An empty webhook url makes it a no-op.
func (s *Sequencer) Notify(c context.Context, webhookURL string, session checkoutmodel.Session) {
	if webhookURL == "" {
		s.logger.Log(c, session.ID, mylog.SeverityWarn, "No webhook URL provided, skipping notification")
		return
	}
	if session.Order == nil {
		s.logger.Log(c, session.ID, mylog.SeverityWarn, "Checkout has no order, skipping notification")
		return
	}

	c = context.WithoutCancel(c)

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		s.run(c, webhookURL, session)
	}()
}

func (s *Sequencer) run(c context.Context, webhookURL string, session checkoutmodel.Session) {
	orderID := session.Order.ID

	placed := s.placedEvent(session)
	s.send(c, webhookURL, placed)

	triggered := s.triggers.Register(orderID)
	s.logger.Log(c, orderID, mylog.SeverityInfo, "Waiting for shipping trigger for order %s", orderID)

	timer := time.NewTimer(s.shipmentTimeout)
	select {
	case <-triggered:
		timer.Stop()
	case <-timer.C:
		s.logger.Log(c, orderID, mylog.SeverityWarn, "Timed out waiting for shipping trigger for order %s", orderID)
	}
	s.triggers.Cleanup(orderID)

	s.send(c, webhookURL, s.shippedEvent(placed))
}

// TriggerShipping releases the wait of the order, or pre-signals it when
// nobody is waiting yet.
func (s *Sequencer) TriggerShipping(c context.Context, orderID string) {
	s.logger.Log(c, orderID, mylog.SeverityInfo, "Triggering shipping for order %s", orderID)
	s.triggers.Signal(orderID)
}

// Wait blocks until every running sequence has finished.
func (s *Sequencer) Wait() {
	s.inFlight.Wait()
}

func (s *Sequencer) send(c context.Context, webhookURL string, event OrderEvent) {
	err := s.deliver(c, webhookURL, event)
	if err != nil {
		s.logger.Log(c, event.ID, mylog.SeverityError, "Failed to deliver %s webhook to %s: %s", event.EventType, webhookURL, err)
		s.metrics.WebhookDelivered(event.EventType, "failure")
		return
	}
	s.logger.Log(c, event.ID, mylog.SeverityInfo, "Delivered %s webhook to %s", event.EventType, webhookURL)
	s.metrics.WebhookDelivered(event.EventType, "success")
}

func (s *Sequencer) deliver(c context.Context, webhookURL string, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error serializing event: %w", err)
	}

	status, _, err := s.httpSender.Send(c, http.MethodPost, webhookURL, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("unexpected http status %d", status)
	}
	return nil
}
