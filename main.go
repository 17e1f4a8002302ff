package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MarcGrol/ucpcheckout/lib/myevents"
	"github.com/MarcGrol/ucpcheckout/lib/myhttpclient"
	"github.com/MarcGrol/ucpcheckout/lib/myidempotency"
	"github.com/MarcGrol/ucpcheckout/lib/mymetrics"
	"github.com/MarcGrol/ucpcheckout/lib/mypublisher"
	"github.com/MarcGrol/ucpcheckout/lib/mypubsub"
	"github.com/MarcGrol/ucpcheckout/lib/myqueue"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/catalog"
	"github.com/MarcGrol/ucpcheckout/services/checkout"
	"github.com/MarcGrol/ucpcheckout/services/checkout/fulfillment"
	"github.com/MarcGrol/ucpcheckout/services/checkout/inventory"
	"github.com/MarcGrol/ucpcheckout/services/checkout/lineitems"
	"github.com/MarcGrol/ucpcheckout/services/checkoutevents"
	"github.com/MarcGrol/ucpcheckout/services/fakeplatform"
	"github.com/MarcGrol/ucpcheckout/services/ordernotifier"
	"github.com/MarcGrol/ucpcheckout/services/platformprofile"
	"github.com/MarcGrol/ucpcheckout/services/warmup"
)

type Config struct {
	Port                   string
	BaseURL                string
	UCPVersion             string
	FailOnNullVersion      bool
	SimulationSecret       string
	ShipmentTimeout        time.Duration
	FreeShippingProductIDs []string
	OrderPermalinkBase     string
	FakePlatform           bool
}

func main() {
	c := context.Background()

	cfg, err := configFromEnvironment()
	if err != nil {
		log.Fatalf("Error reading configuration: %s", err)
	}

	router := mux.NewRouter()

	registry := prometheus.NewRegistry()
	metrics := mymetrics.New(registry)
	router.Use(metrics.Middleware)
	router.Handle("/metrics", mymetrics.Handler(registry)).Methods("GET")

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	httpSender := myhttpclient.New()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	outboxStore, outboxCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		log.Fatalf("Error creating outbox store: %s", err)
	}
	defer outboxCleanup()

	publisher := mypublisher.New(c, outboxStore, pubsub, queue, nower)
	publisher.RegisterEndpoints(c, router)
	for _, topic := range []string{checkoutevents.TopicName, warmup.TopicName} {
		err = publisher.CreateTopic(c, topic)
		if err != nil {
			log.Fatalf("Error creating topic %s: %s", topic, err)
		}
	}

	cat, catalogCleanup, err := catalog.Open(c)
	if err != nil {
		log.Fatalf("Error opening catalog: %s", err)
	}
	defer catalogCleanup()

	err = cat.Seed(c)
	if err != nil {
		log.Fatalf("Error seeding catalog: %s", err)
	}

	warmup.NewService(cat, publisher, uuider).RegisterEndpoints(c, router)

	sessionStore, sessionCleanup, err := mystore.New[checkout.StoredCheckout](c)
	if err != nil {
		log.Fatalf("Error creating checkout store: %s", err)
	}
	defer sessionCleanup()

	orderStore, orderCleanup, err := mystore.New[checkout.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderCleanup()

	idempotencyStore, idempotencyCleanup, err := mystore.New[myidempotency.Record](c)
	if err != nil {
		log.Fatalf("Error creating idempotency store: %s", err)
	}
	defer idempotencyCleanup()

	sequencer := ordernotifier.NewSequencer(httpSender, uuider, nower, metrics, cfg.ShipmentTimeout)
	defer sequencer.Wait()

	notifierService := ordernotifier.NewWebService(ordernotifier.Config{
		SimulationSecret: cfg.SimulationSecret,
		BaseURL:          cfg.BaseURL,
	}, sequencer, pubsub)
	err = notifierService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order notifier endpoints: %s", err)
	}
	err = notifierService.Subscribe(c)
	if err != nil {
		log.Fatalf("Error subscribing order notifier: %s", err)
	}

	checkoutService, err := checkout.NewWebService(checkout.Config{
		BaseURL:            cfg.BaseURL,
		UCPVersion:         cfg.UCPVersion,
		FailOnNullVersion:  cfg.FailOnNullVersion,
		OrderPermalinkBase: cfg.OrderPermalinkBase,
	}, checkout.Collaborators{
		Sessions:    sessionStore,
		Orders:      orderStore,
		Guard:       myidempotency.New(idempotencyStore, nower, metrics),
		LineItems:   lineitems.NewConverter(cat, uuider),
		Inventory:   inventory.New(cat.Stock()),
		Fulfillment: fulfillment.New(cat, cat, cat, uuider, cfg.FreeShippingProductIDs),
		Discounts:   cat,
		Publisher:   publisher,
		Profiles:    platformprofile.New(httpSender),
		Notifier:    sequencer,
		Nower:       nower,
		UUIDer:      uuider,
	})
	if err != nil {
		log.Fatalf("Error creating checkout service: %s", err)
	}
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout endpoints: %s", err)
	}

	if cfg.FakePlatform {
		receivedStore, receivedCleanup, err := mystore.New[fakeplatform.ReceivedEvent](c)
		if err != nil {
			log.Fatalf("Error creating fake platform store: %s", err)
		}
		defer receivedCleanup()

		err = fakeplatform.New(receivedStore, nower, uuider).RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering fake platform endpoints: %s", err)
		}
	}

	startWebServerBlocking(cfg.Port, router)
}

func configFromEnvironment() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		UCPVersion:         getEnv("UCP_VERSION", checkout.DefaultUCPVersion),
		FailOnNullVersion:  true,
		SimulationSecret:   getEnv("SIMULATION_SECRET", ordernotifier.DefaultSimulationSecret),
		ShipmentTimeout:    ordernotifier.DefaultShipmentTimeout,
		OrderPermalinkBase: getEnv("ORDER_PERMALINK_BASE", checkout.DefaultOrderPermalinkBase),
	}
	cfg.BaseURL = getEnv("BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))

	if value := os.Getenv("UCP_FAIL_ON_NULL_VERSION"); value != "" {
		failOnNull, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid UCP_FAIL_ON_NULL_VERSION %q: %s", value, err)
		}
		cfg.FailOnNullVersion = failOnNull
	}

	if value := os.Getenv("FAKE_PLATFORM"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid FAKE_PLATFORM %q: %s", value, err)
		}
		cfg.FakePlatform = enabled
	}

	if value := os.Getenv("SHIPMENT_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid SHIPMENT_TIMEOUT %q: %s", value, err)
		}
		cfg.ShipmentTimeout = timeout
	}

	for _, id := range strings.Split(getEnv("FREE_SHIPPING_PRODUCT_IDS", "bouquet_roses"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			cfg.FreeShippingProductIDs = append(cfg.FreeShippingProductIDs, id)
		}
	}

	return cfg, nil
}

func getEnv(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/.well-known/ucp)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
