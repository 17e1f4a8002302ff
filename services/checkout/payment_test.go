package checkout

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

func TestAuthorizePayment(t *testing.T) {
	testCases := []struct {
		name       string
		instrument *checkoutmodel.PaymentInstrument
		status     int
		message    string
	}{
		{
			name:    "Missing payment data",
			status:  http.StatusBadRequest,
			message: "Missing payment data",
		},
		{
			name:       "Mock handler declines the failure token",
			instrument: &checkoutmodel.PaymentInstrument{ID: "instr_1", HandlerID: "mock_payment_handler", Credential: &checkoutmodel.PaymentCredential{Type: "token", Token: "fail_token"}},
			status:     http.StatusPaymentRequired,
			message:    "Payment Failed: Insufficient Funds (Mock)",
		},
		{
			name:       "Mock handler accepts other tokens",
			instrument: &checkoutmodel.PaymentInstrument{ID: "instr_1", HandlerID: "mock_payment_handler", Credential: &checkoutmodel.PaymentCredential{Type: "token", Token: "success_token"}},
		},
		{
			name:       "Mock handler without credential",
			instrument: &checkoutmodel.PaymentInstrument{ID: "instr_1", HandlerID: "mock_payment_handler"},
		},
		{
			name:       "Other handlers are never declined",
			instrument: &checkoutmodel.PaymentInstrument{ID: "instr_1", HandlerID: "google_pay", Credential: &checkoutmodel.PaymentCredential{Type: "token", Token: "fail_token"}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := authorizePayment(tc.instrument)
			if tc.status == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.status, myerrors.GetHTTPStatus(err))
			assert.Equal(t, tc.message, myerrors.GetMessage(err))
		})
	}
}
