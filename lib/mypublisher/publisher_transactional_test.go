package mypublisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/ucpcheckout/lib/myevents"
	"github.com/MarcGrol/ucpcheckout/lib/mypubsub"
	"github.com/MarcGrol/ucpcheckout/lib/myqueue"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
)

type parcelShipped struct {
	ParcelUID string
}

func (e parcelShipped) GetEventTypeName() string {
	return "parcel.shipped"
}

func (e parcelShipped) GetAggregateName() string {
	return e.ParcelUID
}

func TestTransactionalPublisher(t *testing.T) {
	c := context.TODO()

	t.Run("Publish via in-process queue", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, pubsub, outbox, publisher := setup(t, ctrl)

		// when
		err := publisher.Publish(c, "parcel", parcelShipped{ParcelUID: "p1"})

		// then
		require.NoError(t, err)
		messages := pubsub.MessagesOn("parcel")
		require.Len(t, messages, 1)

		envelope := myevents.EventEnvelope{}
		err = json.Unmarshal([]byte(messages[0]), &envelope)
		assert.NoError(t, err)
		assert.Equal(t, "parcel.shipped", envelope.EventTypeName)
		assert.Equal(t, "p1", envelope.AggregateUID)
		assert.Equal(t, `{"ParcelUID":"p1"}`, envelope.EventPayload)
		assert.Equal(t, mytime.ExampleTime, envelope.CreatedAt)

		stored, found, err := outbox.Get(c, envelope.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.True(t, stored.Published)
	})

	t.Run("Trigger endpoint does not republish", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, pubsub, _, publisher := setup(t, ctrl)

		// given
		err := publisher.Publish(c, "parcel", parcelShipped{ParcelUID: "p1"})
		require.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodPut, "/pubsub/parcel/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Len(t, pubsub.MessagesOn("parcel"), 1)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *mypubsub.FakePubSub, mystore.Store[myevents.EventEnvelope], *transactionalPublisher) {
	c := context.TODO()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	outbox, _, err := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
	require.NoError(t, err)
	pubsub, _, err := mypubsub.NewFakePubSub(c)
	require.NoError(t, err)

	publisher := New(c, outbox, pubsub, myqueue.NewInProcessQueue(), nower)

	router := mux.NewRouter()
	publisher.RegisterEndpoints(c, router)

	return router, pubsub, outbox, publisher
}
