package checkout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	DefaultUCPVersion         = "2026-01-11"
	DefaultOrderPermalinkBase = "https://example.com/orders/"
)

type Config struct {
	BaseURL            string
	UCPVersion         string
	FailOnNullVersion  bool
	OrderPermalinkBase string
}

// StoredCheckout keeps the session as an opaque JSON document. Only the fields
// needed to find sessions back are kept as properties of their own.
type StoredCheckout struct {
	UID          string
	Status       string
	CreatedAt    time.Time
	LastModified time.Time
	Payload      string `datastore:",noindex"`
}

func newStoredCheckout(session checkoutmodel.Session, createdAt time.Time, lastModified time.Time) (StoredCheckout, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return StoredCheckout{}, fmt.Errorf("error serializing checkout %s: %w", session.ID, err)
	}
	return StoredCheckout{
		UID:          session.ID,
		Status:       string(session.Status),
		CreatedAt:    createdAt,
		LastModified: lastModified,
		Payload:      string(payload),
	}, nil
}

func (sc StoredCheckout) Session() (checkoutmodel.Session, error) {
	session := checkoutmodel.Session{}
	err := json.Unmarshal([]byte(sc.Payload), &session)
	if err != nil {
		return session, fmt.Errorf("error deserializing checkout %s: %w", sc.UID, err)
	}
	return session, nil
}

// Order is written once, when a checkout completes.
type Order struct {
	ID         string
	CheckoutID string
	Checkout   string `datastore:",noindex"`
	CreatedAt  time.Time
}

type ListFilter struct {
	Status string `form:"status"`
}
