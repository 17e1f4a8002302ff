package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myidempotency"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutstatus"
	"github.com/MarcGrol/ucpcheckout/services/checkout/totals"
	"github.com/MarcGrol/ucpcheckout/services/checkoutevents"
)

// The commands below are what an idempotency key is bound to.

// requestedExtensions holds the extension objects as sent. They are validated
// and bound only once the target session is known to accept changes.
type requestedExtensions struct {
	Fulfillment json.RawMessage `json:"fulfillment,omitempty"`
	Discounts   json.RawMessage `json:"discounts,omitempty"`
}

type createCommand struct {
	Request    checkoutmodel.CreateRequest
	Extensions requestedExtensions
}

type updateCommand struct {
	ID         string
	Request    checkoutmodel.UpdateRequest
	Extensions requestedExtensions
}

type cancelCommand struct {
	ID string
}

type completeCommand struct {
	ID      string
	Request checkoutmodel.CompleteRequest
}

func (s *service) createCheckout(c context.Context, idempotencyKey string, cmd createCommand) (checkoutmodel.Session, error) {
	return myidempotency.Execute(c, s.guard, idempotencyKey, cmd, http.StatusCreated, s.create)
}

func (s *service) create(c context.Context, cmd createCommand) (checkoutmodel.Session, error) {
	req := cmd.Request
	requestedFulfillment, requestedDiscounts, err := s.bindExtensions(cmd.Extensions)
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	now := s.nower.Now()

	session := checkoutmodel.Session{
		UCP:      s.profile.metadata(),
		ID:       s.uuider.Create(),
		Currency: req.Currency,
		Buyer:    req.Buyer,
		Payment:  s.payment(req.Payment),
	}
	s.logger.Log(c, session.ID, mylog.SeverityInfo, "Creating checkout %s", session.ID)

	lineItems, err := s.lineItems.ConvertForCreate(c, req.LineItems)
	if err != nil {
		return checkoutmodel.Session{}, err
	}
	session.LineItems = lineItems

	err = s.evaluate(c, &session, requestedFulfillment, requestedDiscounts)
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	err = s.save(c, now, session)
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	return session, nil
}

func (s *service) getCheckout(c context.Context, id string) (checkoutmodel.Session, error) {
	s.logger.Log(c, id, mylog.SeverityInfo, "Fetch checkout %s", id)

	_, session, err := s.load(c, id)
	if err != nil {
		return checkoutmodel.Session{}, err
	}
	return session, nil
}

func (s *service) listCheckouts(c context.Context, filter ListFilter) ([]checkoutmodel.Session, error) {
	filters := []mystore.Filter{}
	if filter.Status != "" {
		if !knownStatus(checkoutmodel.Status(filter.Status)) {
			return nil, myerrors.NewInvalidInputErrorf("Unknown checkout status '%s'", filter.Status)
		}
		filters = append(filters, mystore.Filter{Field: "Status", Compare: "=", Value: filter.Status})
	}

	stored, err := s.sessions.Query(c, filters, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing checkouts: %s", err))
	}
	slices.Reverse(stored)

	sessions := make([]checkoutmodel.Session, 0, len(stored))
	for _, sc := range stored {
		session, err := sc.Session()
		if err != nil {
			return nil, myerrors.NewInternalError(err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *service) updateCheckout(c context.Context, idempotencyKey string, cmd updateCommand) (checkoutmodel.Session, error) {
	cmd.Request.ID = cmd.ID
	return myidempotency.Execute(c, s.guard, idempotencyKey, cmd, http.StatusOK, s.update)
}

func (s *service) update(c context.Context, cmd updateCommand) (checkoutmodel.Session, error) {
	s.logger.Log(c, cmd.ID, mylog.SeverityInfo, "Updating checkout %s", cmd.ID)

	var session checkoutmodel.Session
	err := s.sessions.RunInTransaction(c, func(c context.Context) error {
		stored, current, err := s.load(c, cmd.ID)
		if err != nil {
			return err
		}

		err = checkoutstatus.EnsureModifiable(current.Status)
		if err != nil {
			return err
		}

		requestedFulfillment, requestedDiscounts, err := s.bindExtensions(cmd.Extensions)
		if err != nil {
			return err
		}

		req := cmd.Request
		current.Messages = nil
		current.Buyer = req.Buyer
		if req.Currency != "" {
			current.Currency = req.Currency
		}
		current.Payment = s.payment(req.Payment)

		current.LineItems, err = s.lineItems.ConvertForUpdate(c, req.LineItems)
		if err != nil {
			return err
		}

		err = s.evaluate(c, &current, requestedFulfillment, requestedDiscounts)
		if err != nil {
			return err
		}

		err = s.save(c, stored.CreatedAt, current)
		if err != nil {
			return err
		}

		session = current
		return nil
	})
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	return session, nil
}

func (s *service) cancelCheckout(c context.Context, idempotencyKey string, id string) (checkoutmodel.Session, error) {
	return myidempotency.Execute(c, s.guard, idempotencyKey, cancelCommand{ID: id}, http.StatusOK, s.cancel)
}

func (s *service) cancel(c context.Context, cmd cancelCommand) (checkoutmodel.Session, error) {
	s.logger.Log(c, cmd.ID, mylog.SeverityInfo, "Canceling checkout %s", cmd.ID)

	var session checkoutmodel.Session
	err := s.sessions.RunInTransaction(c, func(c context.Context) error {
		stored, current, err := s.load(c, cmd.ID)
		if err != nil {
			return err
		}

		err = checkoutstatus.EnsureModifiable(current.Status)
		if err != nil {
			return err
		}

		current.Status = checkoutmodel.StatusCanceled

		err = s.save(c, stored.CreatedAt, current)
		if err != nil {
			return err
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCanceled{
			CheckoutUID: current.ID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		session = current
		return nil
	})
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	return session, nil
}

// completeCheckout notifies the platform also when the outcome is replayed: the
// notifier is the only party that knows the order exists.
func (s *service) completeCheckout(c context.Context, idempotencyKey string, id string, agent Agent, req checkoutmodel.CompleteRequest) (checkoutmodel.Session, error) {
	session, err := myidempotency.Execute(c, s.guard, idempotencyKey, completeCommand{ID: id, Request: req}, http.StatusOK, s.complete)
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	if session.Order != nil {
		webhookURL := s.profiles.ResolveWebhookURL(c, agent.Profile)
		s.notifier.Notify(c, webhookURL, session)
	}

	return session, nil
}

func (s *service) complete(c context.Context, cmd completeCommand) (checkoutmodel.Session, error) {
	s.logger.Log(c, cmd.ID, mylog.SeverityInfo, "Completing checkout %s", cmd.ID)

	var session checkoutmodel.Session
	err := s.sessions.RunInTransaction(c, func(c context.Context) error {
		stored, current, err := s.load(c, cmd.ID)
		if err != nil {
			return err
		}

		err = checkoutstatus.EnsureCompletable(current.Status)
		if err != nil {
			return err
		}

		err = authorizePayment(cmd.Request.PaymentData)
		if err != nil {
			return err
		}

		current.Status = checkoutstatus.Derive(current.Messages)
		if current.Status != checkoutmodel.StatusReadyForComplete {
			session = current
			return s.save(c, stored.CreatedAt, current)
		}

		orderID := s.uuider.Create()
		current.Status = checkoutmodel.StatusCompleted
		current.Order = &checkoutmodel.OrderConfirmation{
			ID:           orderID,
			PermalinkURL: s.cfg.OrderPermalinkBase + orderID,
		}

		err = s.save(c, stored.CreatedAt, current)
		if err != nil {
			return err
		}

		err = s.saveOrder(c, current)
		if err != nil {
			return err
		}

		// stock commits on its own; everything after it must undo it on failure
		err = s.inventory.Reserve(c, current.LineItems)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error reserving inventory: %w", err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID: current.ID,
			OrderUID:    orderID,
			TotalAmount: current.TotalAmount(),
			Currency:    current.Currency,
		})
		if err != nil {
			releaseErr := s.inventory.Release(c, current.LineItems)
			if releaseErr != nil {
				s.logger.Log(c, current.ID, mylog.SeverityError, "Error releasing inventory of checkout %s: %s", current.ID, releaseErr)
			}
			return myerrors.NewInternalError(err)
		}

		s.logger.Log(c, current.ID, mylog.SeverityInfo, "Checkout %s completed with order %s", current.ID, orderID)

		session = current
		return nil
	})
	if err != nil {
		return checkoutmodel.Session{}, err
	}

	return session, nil
}

// evaluate derives everything the server owns from the line items and the
// requested extensions: stock messages, fulfillment, totals and status.
func (s *service) evaluate(c context.Context, session *checkoutmodel.Session, requestedFulfillment *checkoutmodel.Fulfillment, requestedDiscounts *checkoutmodel.Discounts) error {
	messages, err := s.inventory.Validate(c, session.LineItems)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	subtotal := int64(0)
	for _, li := range session.LineItems {
		subtotal += li.SubtotalAmount()
	}

	plan, err := s.fulfillment.Resolve(c, requestedFulfillment, session.LineItems, session.BuyerEmail(), subtotal)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	session.Fulfillment = plan.Fulfillment
	messages = append(messages, plan.Messages...)

	result, err := totals.Calculate(c, session.LineItems, requestedDiscounts.CodeList(), s.discounts, totals.SelectedFulfillmentCost(plan.Fulfillment))
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	session.Totals = result.Totals

	session.Discounts = nil
	if requestedDiscounts != nil {
		session.Discounts = &checkoutmodel.Discounts{
			Codes:   requestedDiscounts.Codes,
			Applied: result.Applied,
		}
	}

	session.Messages = messages
	session.Status = checkoutstatus.Derive(messages)

	return nil
}

func (s *service) bindExtensions(ext requestedExtensions) (*checkoutmodel.Fulfillment, *checkoutmodel.Discounts, error) {
	err := s.extensions.ValidateEach(map[string]json.RawMessage{
		"fulfillment": ext.Fulfillment,
		"discounts":   ext.Discounts,
	})
	if err != nil {
		return nil, nil, err
	}

	var requestedFulfillment *checkoutmodel.Fulfillment
	if len(ext.Fulfillment) > 0 {
		err = json.Unmarshal(ext.Fulfillment, &requestedFulfillment)
		if err != nil {
			return nil, nil, myerrors.NewInvalidInputError(fmt.Errorf("error parsing fulfillment: %s", err))
		}
	}

	var requestedDiscounts *checkoutmodel.Discounts
	if len(ext.Discounts) > 0 {
		err = json.Unmarshal(ext.Discounts, &requestedDiscounts)
		if err != nil {
			return nil, nil, myerrors.NewInvalidInputError(fmt.Errorf("error parsing discounts: %s", err))
		}
	}

	return requestedFulfillment, requestedDiscounts, nil
}

func (s *service) payment(requested checkoutmodel.Payment) checkoutmodel.Payment {
	return checkoutmodel.Payment{
		Handlers:             s.profile.paymentHandlers(),
		SelectedInstrumentID: requested.SelectedInstrumentID,
		Instruments:          requested.Instruments,
	}
}

func (s *service) load(c context.Context, id string) (StoredCheckout, checkoutmodel.Session, error) {
	stored, found, err := s.sessions.Get(c, id)
	if err != nil {
		return StoredCheckout{}, checkoutmodel.Session{}, myerrors.NewInternalError(fmt.Errorf("error fetching checkout %s: %s", id, err))
	}
	if !found {
		return StoredCheckout{}, checkoutmodel.Session{}, myerrors.NewNotFoundError(fmt.Errorf("Checkout session with id %s not found", id))
	}

	session, err := stored.Session()
	if err != nil {
		return StoredCheckout{}, checkoutmodel.Session{}, myerrors.NewInternalError(err)
	}
	return stored, session, nil
}

func (s *service) save(c context.Context, createdAt time.Time, session checkoutmodel.Session) error {
	stored, err := newStoredCheckout(session, createdAt, s.nower.Now())
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	err = s.sessions.Put(c, session.ID, stored)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing checkout %s: %s", session.ID, err))
	}
	return nil
}

func (s *service) saveOrder(c context.Context, session checkoutmodel.Session) error {
	snapshot, err := json.Marshal(session)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error serializing order %s: %s", session.Order.ID, err))
	}

	err = s.orders.Put(c, session.Order.ID, Order{
		ID:         session.Order.ID,
		CheckoutID: session.ID,
		Checkout:   string(snapshot),
		CreatedAt:  s.nower.Now(),
	})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", session.Order.ID, err))
	}
	return nil
}

func knownStatus(status checkoutmodel.Status) bool {
	switch status {
	case checkoutmodel.StatusIncomplete, checkoutmodel.StatusReadyForComplete, checkoutmodel.StatusRequiresEscalation,
		checkoutmodel.StatusCompleted, checkoutmodel.StatusCanceled:
		return true
	default:
		return false
	}
}
