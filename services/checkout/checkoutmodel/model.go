package checkoutmodel

type Status string

const (
	StatusIncomplete         Status = "incomplete"
	StatusReadyForComplete   Status = "ready_for_complete"
	StatusRequiresEscalation Status = "requires_escalation"
	StatusCompleted          Status = "completed"
	StatusCanceled           Status = "canceled"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

type TotalType string

const (
	TotalTypeSubtotal    TotalType = "subtotal"
	TotalTypeDiscount    TotalType = "discount"
	TotalTypeFulfillment TotalType = "fulfillment"
	TotalTypeTotal       TotalType = "total"
)

// Total is an amount in minor units of the session currency
type Total struct {
	Type   TotalType `json:"type"`
	Amount int64     `json:"amount"`
}

type UCPMetadata struct {
	Version      string       `json:"version"`
	Capabilities []Capability `json:"capabilities,omitempty"`
}

type Capability struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Buyer struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Price    int64  `json:"price,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type LineItem struct {
	ID       string  `json:"id,omitempty"`
	Item     Item    `json:"item"`
	Quantity int     `json:"quantity"`
	Totals   []Total `json:"totals,omitempty"`
}

// SubtotalAmount returns the amount of the subtotal line or 0.
func (li LineItem) SubtotalAmount() int64 {
	for _, t := range li.Totals {
		if t.Type == TotalTypeSubtotal {
			return t.Amount
		}
	}
	return 0
}

type Payment struct {
	Handlers             []PaymentHandler    `json:"handlers,omitempty"`
	SelectedInstrumentID string              `json:"selected_instrument_id,omitempty"`
	Instruments          []PaymentInstrument `json:"instruments,omitempty"`
}

type PaymentHandler struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Version string         `json:"version,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

type PaymentInstrument struct {
	ID         string             `json:"id"`
	HandlerID  string             `json:"handler_id"`
	Type       string             `json:"type,omitempty"`
	Brand      string             `json:"brand,omitempty"`
	LastDigits string             `json:"last_digits,omitempty"`
	Credential *PaymentCredential `json:"credential,omitempty"`
}

type PaymentCredential struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type Discounts struct {
	Codes   []string          `json:"codes,omitempty"`
	Applied []AppliedDiscount `json:"applied,omitempty"`
}

type AppliedDiscount struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

func (d *Discounts) CodeList() []string {
	if d == nil {
		return nil
	}
	return d.Codes
}

type OrderConfirmation struct {
	ID           string `json:"id"`
	PermalinkURL string `json:"permalink_url"`
}

// Session is the aggregate negotiated between buyer and merchant
type Session struct {
	UCP         UCPMetadata        `json:"ucp"`
	ID          string             `json:"id"`
	Status      Status             `json:"status"`
	Currency    string             `json:"currency"`
	Buyer       *Buyer             `json:"buyer,omitempty"`
	LineItems   []LineItem         `json:"line_items"`
	Totals      []Total            `json:"totals"`
	Messages    []Message          `json:"messages,omitempty"`
	Payment     Payment            `json:"payment"`
	Fulfillment *Fulfillment       `json:"fulfillment,omitempty"`
	Discounts   *Discounts         `json:"discounts,omitempty"`
	Order       *OrderConfirmation `json:"order,omitempty"`
}

func (s Session) BuyerEmail() string {
	if s.Buyer == nil {
		return ""
	}
	return s.Buyer.Email
}

func (s Session) TotalAmount() int64 {
	for _, t := range s.Totals {
		if t.Type == TotalTypeTotal {
			return t.Amount
		}
	}
	return 0
}

// CreateRequest is the body of a create call; item prices in it are ignored.
type CreateRequest struct {
	Currency    string       `json:"currency"`
	Buyer       *Buyer       `json:"buyer,omitempty"`
	LineItems   []LineItem   `json:"line_items"`
	Payment     Payment      `json:"payment"`
	Fulfillment *Fulfillment `json:"fulfillment,omitempty"`
	Discounts   *Discounts   `json:"discounts,omitempty"`
}

type UpdateRequest struct {
	ID          string       `json:"id,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	Buyer       *Buyer       `json:"buyer,omitempty"`
	LineItems   []LineItem   `json:"line_items"`
	Payment     Payment      `json:"payment"`
	Fulfillment *Fulfillment `json:"fulfillment,omitempty"`
	Discounts   *Discounts   `json:"discounts,omitempty"`
}

type CompleteRequest struct {
	PaymentData *PaymentInstrument `json:"payment_data,omitempty"`
	RiskSignals map[string]any     `json:"risk_signals,omitempty"`
}
