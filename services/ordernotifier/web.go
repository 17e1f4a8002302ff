package ordernotifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/ucpcheckout/lib/mycontext"
	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myhttp"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mypubsub"
	"github.com/MarcGrol/ucpcheckout/services/checkoutevents"
)

const DefaultSimulationSecret = "super-secret-sim-key"

type Config struct {
	SimulationSecret string
	BaseURL          string
}

type webService struct {
	logger    mylog.Logger
	cfg       Config
	sequencer *Sequencer
	pubsub    mypubsub.PubSub
}

func NewWebService(cfg Config, sequencer *Sequencer, pubsub mypubsub.PubSub) *webService {
	if cfg.SimulationSecret == "" {
		cfg.SimulationSecret = DefaultSimulationSecret
	}
	return &webService{
		logger:    mylog.New("ordernotifier"),
		cfg:       cfg,
		sequencer: sequencer,
		pubsub:    pubsub,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/testing/simulate-shipping/{orderId}", s.simulateShippingPage()).Methods("POST")
	router.HandleFunc("/ordernotifier/event", s.handleEventEnvelopePage()).Methods("POST")

	return nil
}

func (s *webService) simulateShippingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		if r.Header.Get("Simulation-Secret") != s.cfg.SimulationSecret {
			responseWriter.WriteError(c, w, myerrors.NewAuthenticationError(fmt.Errorf("Invalid Simulation-Secret")))
			return
		}

		orderID := mux.Vars(r)["orderId"]
		s.sequencer.TriggerShipping(c, orderID)

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Shipping triggered for order %s", orderID),
		})
	}
}

func (s *webService) handleEventEnvelopePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

func (s *webService) Subscribe(c context.Context) error {
	err := s.pubsub.Subscribe(c, checkoutevents.TopicName, s.cfg.BaseURL+"/ordernotifier/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *webService) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	if event.OrderUID == "" {
		return myerrors.NewInvalidInputErrorf("completed checkout %s carries no order", event.CheckoutUID)
	}
	s.logger.Log(c, event.CheckoutUID, mylog.SeverityInfo, "Order %s placed for checkout %s (%d %s)", event.OrderUID, event.CheckoutUID, event.TotalAmount, event.Currency)
	s.sequencer.metrics.OrderPlaced(event.Currency, event.TotalAmount)
	return nil
}

func (s *webService) OnCheckoutCanceled(c context.Context, topic string, event checkoutevents.CheckoutCanceled) error {
	s.logger.Log(c, event.CheckoutUID, mylog.SeverityInfo, "Checkout %s canceled", event.CheckoutUID)
	s.sequencer.metrics.CheckoutCanceled()
	return nil
}
