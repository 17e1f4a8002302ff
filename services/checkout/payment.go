package checkout

import (
	"fmt"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

const (
	mockPaymentHandlerID = "mock_payment_handler"
	mockFailureToken     = "fail_token"
)

// authorizePayment simulates the payment processor. Only the mock handler
// can decline; every other instrument is accepted as is.
func authorizePayment(instrument *checkoutmodel.PaymentInstrument) error {
	if instrument == nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("Missing payment data"))
	}

	if instrument.HandlerID != mockPaymentHandlerID || instrument.Credential == nil {
		return nil
	}
	if instrument.Credential.Token == mockFailureToken {
		return myerrors.NewPaymentFailedError(fmt.Errorf("Payment Failed: Insufficient Funds (Mock)"))
	}
	return nil
}
