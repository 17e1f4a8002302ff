package checkout

import (
	"context"

	"github.com/MarcGrol/ucpcheckout/lib/myidempotency"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mypublisher"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
	"github.com/MarcGrol/ucpcheckout/services/checkout/extensions"
	"github.com/MarcGrol/ucpcheckout/services/checkout/fulfillment"
	"github.com/MarcGrol/ucpcheckout/services/checkout/inventory"
	"github.com/MarcGrol/ucpcheckout/services/checkout/lineitems"
	"github.com/MarcGrol/ucpcheckout/services/checkout/totals"
)

//go:generate mockgen -source=service.go -package checkout -destination collaborators_mock.go OrderNotifier,WebhookResolver
type OrderNotifier interface {
	Notify(c context.Context, webhookURL string, session checkoutmodel.Session)
}

type WebhookResolver interface {
	ResolveWebhookURL(c context.Context, profileURI string) string
}

// Collaborators are the parts a checkout is assembled from.
type Collaborators struct {
	Sessions    mystore.Store[StoredCheckout]
	Orders      mystore.Store[Order]
	Guard       *myidempotency.Guard
	LineItems   *lineitems.Converter
	Inventory   *inventory.Manager
	Fulfillment *fulfillment.Resolver
	Discounts   totals.DiscountFinder
	Publisher   mypublisher.Publisher
	Profiles    WebhookResolver
	Notifier    OrderNotifier
	Nower       mytime.Nower
	UUIDer      myuuid.UUIDer
}

type service struct {
	cfg         Config
	profile     DiscoveryProfile
	sessions    mystore.Store[StoredCheckout]
	orders      mystore.Store[Order]
	guard       *myidempotency.Guard
	lineItems   *lineitems.Converter
	inventory   *inventory.Manager
	fulfillment *fulfillment.Resolver
	discounts   totals.DiscountFinder
	publisher   mypublisher.Publisher
	profiles    WebhookResolver
	notifier    OrderNotifier
	nower       mytime.Nower
	uuider      myuuid.UUIDer
	extensions  *extensions.Validator
	logger      mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, deps Collaborators, validator *extensions.Validator, logger mylog.Logger) *service {
	if cfg.UCPVersion == "" {
		cfg.UCPVersion = DefaultUCPVersion
	}
	if cfg.OrderPermalinkBase == "" {
		cfg.OrderPermalinkBase = DefaultOrderPermalinkBase
	}
	return &service{
		cfg:         cfg,
		profile:     newDiscoveryProfile(cfg.UCPVersion, cfg.BaseURL),
		sessions:    deps.Sessions,
		orders:      deps.Orders,
		guard:       deps.Guard,
		lineItems:   deps.LineItems,
		inventory:   deps.Inventory,
		fulfillment: deps.Fulfillment,
		discounts:   deps.Discounts,
		publisher:   deps.Publisher,
		profiles:    deps.Profiles,
		notifier:    deps.Notifier,
		nower:       deps.Nower,
		uuider:      deps.UUIDer,
		extensions:  validator,
		logger:      logger,
	}
}
