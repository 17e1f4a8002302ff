// Package platformprofile looks up where a platform wants to receive order
// webhooks, as advertised in its UCP profile document.
package platformprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MarcGrol/ucpcheckout/lib/myhttpclient"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
)

const OrderCapabilityName = "dev.ucp.shopping.order"

type profile struct {
	UCP struct {
		Capabilities []capability `json:"capabilities"`
	} `json:"ucp"`
}

type capability struct {
	Name   string `json:"name"`
	Config struct {
		WebhookURL string `json:"webhook_url"`
	} `json:"config"`
}

type Resolver struct {
	logger     mylog.Logger
	httpSender myhttpclient.HTTPSender
}

func New(httpSender myhttpclient.HTTPSender) *Resolver {
	return &Resolver{
		logger:     mylog.New("platformprofile"),
		httpSender: httpSender,
	}
}

// ResolveWebhookURL returns "" when the profile cannot be fetched or does not
// advertise an order webhook.
func (r *Resolver) ResolveWebhookURL(c context.Context, profileURI string) string {
	if profileURI == "" {
		return ""
	}

	url, err := r.resolve(c, profileURI)
	if err != nil {
		r.logger.Log(c, "", mylog.SeverityWarn, "Failed to resolve platform profile from %s: %s", profileURI, err)
		return ""
	}
	if url != "" {
		r.logger.Log(c, "", mylog.SeverityInfo, "Resolved webhook URL: %s", url)
	}
	return url
}

func (r *Resolver) resolve(c context.Context, profileURI string) (string, error) {
	status, body, err := r.httpSender.Send(c, http.MethodGet, profileURI, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("unexpected http status %d", status)
	}

	p := profile{}
	err = json.Unmarshal(body, &p)
	if err != nil {
		return "", fmt.Errorf("error parsing profile: %w", err)
	}

	for _, offered := range p.UCP.Capabilities {
		if offered.Name == OrderCapabilityName && offered.Config.WebhookURL != "" {
			return offered.Config.WebhookURL, nil
		}
	}
	return "", nil
}
