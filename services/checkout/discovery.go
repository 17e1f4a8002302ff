package checkout

import (
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	capabilityCheckout    = "dev.ucp.shopping.checkout"
	capabilityOrder       = "dev.ucp.shopping.order"
	capabilityDiscount    = "dev.ucp.shopping.discount"
	capabilityFulfillment = "dev.ucp.shopping.fulfillment"
	shoppingService       = "dev.ucp.shopping"
)

// DiscoveryProfile is what a platform finds at /.well-known/ucp.
type DiscoveryProfile struct {
	UCP     DiscoveryUCP     `json:"ucp"`
	Payment DiscoveryPayment `json:"payment"`
}

type DiscoveryUCP struct {
	Version      string                      `json:"version"`
	Services     map[string]DiscoveryService `json:"services"`
	Capabilities []DiscoveryCapability       `json:"capabilities"`
}

type DiscoveryService struct {
	Version string       `json:"version"`
	Spec    string       `json:"spec"`
	Rest    RestEndpoint `json:"rest"`
}

type RestEndpoint struct {
	Schema   string `json:"schema"`
	Endpoint string `json:"endpoint"`
}

type DiscoveryCapability struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Spec    string `json:"spec,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Extends string `json:"extends,omitempty"`
}

type DiscoveryPayment struct {
	Handlers []checkoutmodel.PaymentHandler `json:"handlers"`
}

func newDiscoveryProfile(version string, baseURL string) DiscoveryProfile {
	capability := func(name string, doc string, extends string) DiscoveryCapability {
		return DiscoveryCapability{
			Name:    name,
			Version: version,
			Spec:    "https://ucp.dev/specification/" + doc,
			Schema:  "https://ucp.dev/schemas/shopping/" + doc + ".json",
			Extends: extends,
		}
	}

	return DiscoveryProfile{
		UCP: DiscoveryUCP{
			Version: version,
			Services: map[string]DiscoveryService{
				shoppingService: {
					Version: version,
					Spec:    "https://ucp.dev/services/shopping/rest.openapi.json",
					Rest: RestEndpoint{
						Schema:   "https://ucp.dev/services/shopping/openapi.json",
						Endpoint: baseURL,
					},
				},
			},
			Capabilities: []DiscoveryCapability{
				capability(capabilityCheckout, "checkout", ""),
				capability(capabilityOrder, "order", ""),
				capability(capabilityDiscount, "discount", capabilityCheckout),
				capability(capabilityFulfillment, "fulfillment", capabilityCheckout),
			},
		},
		Payment: DiscoveryPayment{
			Handlers: []checkoutmodel.PaymentHandler{
				{
					ID:      mockPaymentHandlerID,
					Name:    "dev.ucp.mock_payment",
					Version: version,
					Config: map[string]any{
						"supported_tokens": []string{"success_token", mockFailureToken},
					},
				},
			},
		},
	}
}

// metadata is the ucp block echoed in every checkout response.
func (p DiscoveryProfile) metadata() checkoutmodel.UCPMetadata {
	capabilities := make([]checkoutmodel.Capability, 0, len(p.UCP.Capabilities))
	for _, c := range p.UCP.Capabilities {
		capabilities = append(capabilities, checkoutmodel.Capability{Name: c.Name, Version: c.Version})
	}
	return checkoutmodel.UCPMetadata{
		Version:      p.UCP.Version,
		Capabilities: capabilities,
	}
}

func (p DiscoveryProfile) paymentHandlers() []checkoutmodel.PaymentHandler {
	handlers := make([]checkoutmodel.PaymentHandler, len(p.Payment.Handlers))
	copy(handlers, p.Payment.Handlers)
	return handlers
}
