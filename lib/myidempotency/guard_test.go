package myidempotency

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mymetrics"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
)

type order struct {
	ProductID string
	Quantity  int
}

type confirmation struct {
	OrderID string
	Count   int64
}

func TestExecute(t *testing.T) {
	c := context.TODO()

	t.Run("Without key every call executes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, _, _ := setup(t, ctrl)
		action, counter := countingAction()

		_, err := Execute(c, guard, "", order{ProductID: "roses", Quantity: 1}, http.StatusOK, action)
		assert.NoError(t, err)
		_, err = Execute(c, guard, "", order{ProductID: "roses", Quantity: 1}, http.StatusOK, action)
		assert.NoError(t, err)

		assert.Equal(t, int64(2), counter.Load())
	})

	t.Run("Identical retry is replayed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, store, metrics := setup(t, ctrl)
		action, counter := countingAction()

		// when
		first, err := Execute(c, guard, "key-1", order{ProductID: "roses", Quantity: 1}, http.StatusCreated, action)
		require.NoError(t, err)
		second, err := Execute(c, guard, "key-1", order{ProductID: "roses", Quantity: 1}, http.StatusCreated, action)
		require.NoError(t, err)

		// then
		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), counter.Load())

		record, found, err := store.Get(c, "key-1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.False(t, record.Pending)
		assert.Equal(t, http.StatusCreated, record.ResponseStatus)
		assert.Equal(t, `{"OrderID":"order-1","Count":1}`, record.ResponseBody)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IdempotencyOutcomes.WithLabelValues("replayed")))
	})

	t.Run("Different payload with same key conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, store, _ := setup(t, ctrl)
		action, counter := countingAction()

		_, err := Execute(c, guard, "key-1", order{ProductID: "roses", Quantity: 1}, http.StatusOK, action)
		require.NoError(t, err)
		before, _, _ := store.Get(c, "key-1")

		// when
		_, err = Execute(c, guard, "key-1", order{ProductID: "roses", Quantity: 2}, http.StatusOK, action)

		// then
		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
		assert.Equal(t, "idempotency_conflict", myerrors.GetErrorCode(err))
		assert.Equal(t, int64(1), counter.Load())

		after, _, _ := store.Get(c, "key-1")
		assert.Equal(t, before, after)
	})

	t.Run("Failed action leaves key available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, store, _ := setup(t, ctrl)

		_, err := Execute(c, guard, "key-1", order{ProductID: "roses"}, http.StatusOK, func(c context.Context, req order) (confirmation, error) {
			return confirmation{}, myerrors.NewPaymentFailedError(fmt.Errorf("declined"))
		})
		assert.Equal(t, http.StatusPaymentRequired, myerrors.GetHTTPStatus(err))

		_, found, err := store.Get(c, "key-1")
		assert.NoError(t, err)
		assert.False(t, found)

		action, counter := countingAction()
		resp, err := Execute(c, guard, "key-1", order{ProductID: "roses"}, http.StatusOK, action)
		assert.NoError(t, err)
		assert.Equal(t, "order-1", resp.OrderID)
		assert.Equal(t, int64(1), counter.Load())
	})

	t.Run("Pending request is reported as conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, store, _ := setup(t, ctrl)

		hash, err := Hash(order{ProductID: "roses"})
		require.NoError(t, err)
		_ = store.Put(c, "key-1", Record{Key: "key-1", RequestHash: hash, Pending: true})

		action, counter := countingAction()
		_, err = Execute(c, guard, "key-1", order{ProductID: "roses"}, http.StatusOK, action)

		assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
		assert.Contains(t, err.Error(), "still in progress")
		assert.Equal(t, int64(0), counter.Load())
	})

	t.Run("Concurrent requests with fresh key execute once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard, _, _ := setup(t, ctrl)

		var executions atomic.Int64
		action := func(c context.Context, req order) (confirmation, error) {
			executions.Add(1)
			time.Sleep(20 * time.Millisecond)
			return confirmation{OrderID: "order-1"}, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := Execute(c, guard, "key-1", order{ProductID: "roses"}, http.StatusOK, action)
				if err == nil {
					assert.Equal(t, "order-1", resp.OrderID)
				} else {
					assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), executions.Load())
	})
}

func TestHash(t *testing.T) {
	h1, err := Hash(map[string]any{"b": 2, "a": 1})
	assert.NoError(t, err)
	h2, err := Hash(map[string]any{"a": 1, "b": 2})
	assert.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func countingAction() (func(c context.Context, req order) (confirmation, error), *atomic.Int64) {
	counter := &atomic.Int64{}
	return func(c context.Context, req order) (confirmation, error) {
		n := counter.Add(1)
		return confirmation{OrderID: fmt.Sprintf("order-%d", n), Count: n}, nil
	}, counter
}

func setup(t *testing.T, ctrl *gomock.Controller) (*Guard, mystore.Store[Record], *mymetrics.Metrics) {
	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	store, _, err := mystore.NewInMemoryStore[Record](context.TODO())
	require.NoError(t, err)

	metrics := mymetrics.New(prometheus.NewRegistry())

	return New(store, nower, metrics), store, metrics
}
