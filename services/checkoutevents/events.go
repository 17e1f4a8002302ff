package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myevents"
)

const (
	TopicName             = "checkout"
	checkoutCompletedName = TopicName + ".completed"
	checkoutCanceledName  = TopicName + ".canceled"
)

//go:generate mockgen -source=events.go -package checkoutevents -destination eventservice_mock.go CheckoutEventService
type CheckoutEventService interface {
	Subscribe(c context.Context) error
	OnCheckoutCompleted(c context.Context, topic string, event CheckoutCompleted) error
	OnCheckoutCanceled(c context.Context, topic string, event CheckoutCanceled) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CheckoutEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutCompletedName:
		{
			event := CheckoutCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutCompleted(c, envelope.Topic, event)
		}
	case checkoutCanceledName:
		{
			event := CheckoutCanceled{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutCanceled(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unsupported event type %s", envelope.EventTypeName))
	}
}

type CheckoutCompleted struct {
	CheckoutUID string
	OrderUID    string
	TotalAmount int64
	Currency    string
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return e.CheckoutUID
}

type CheckoutCanceled struct {
	CheckoutUID string
}

func (e CheckoutCanceled) GetEventTypeName() string {
	return checkoutCanceledName
}

func (e CheckoutCanceled) GetAggregateName() string {
	return e.CheckoutUID
}
