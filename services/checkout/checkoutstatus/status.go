// Package checkoutstatus derives the lifecycle status of a session from its messages.
package checkoutstatus

import (
	"fmt"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
)

// Derive yields requires_escalation when any error needs the buyer, incomplete when any
// other error exists and ready_for_complete otherwise. Warnings and infos never count.
func Derive(messages []checkoutmodel.Message) checkoutmodel.Status {
	status := checkoutmodel.StatusReadyForComplete

	for _, m := range messages {
		severity, isError := m.ErrorSeverity()
		if !isError {
			continue
		}

		switch severity {
		case checkoutmodel.SeverityRequiresBuyerInput, checkoutmodel.SeverityRequiresBuyerReview:
			return checkoutmodel.StatusRequiresEscalation
		default:
			status = checkoutmodel.StatusIncomplete
		}
	}

	return status
}

// EnsureModifiable rejects any mutation of a completed or canceled session.
func EnsureModifiable(status checkoutmodel.Status) error {
	if status.IsTerminal() {
		return myerrors.NewCheckoutNotModifiableError(fmt.Errorf("Cannot modify checkout in state '%s'", status))
	}
	return nil
}

// EnsureCompletable trusts the last derived status instead of recomputing it.
func EnsureCompletable(status checkoutmodel.Status) error {
	err := EnsureModifiable(status)
	if err != nil {
		return err
	}
	if status != checkoutmodel.StatusReadyForComplete {
		return myerrors.NewInvalidInputError(fmt.Errorf("Checkout is not ready to complete (status: %s)", status))
	}
	return nil
}
