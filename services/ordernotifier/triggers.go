package ordernotifier

import (
	"sync"
	"time"
)

type trigger struct {
	ch       chan struct{}
	signaled bool
	expiry   *time.Timer
}

// ShipmentTriggers is the registry of one-shot shipment signals, keyed by
// order id. A signal may arrive before anyone waits for it; such a pre-signal
// is dropped when nobody picks it up within ttl. Orders whose wait finished are
// remembered for ttl so that late signals leave nothing behind.
type ShipmentTriggers struct {
	sync.Mutex
	ttl      time.Duration
	triggers map[string]*trigger
	finished map[string]*time.Timer
}

func NewShipmentTriggers(ttl time.Duration) *ShipmentTriggers {
	return &ShipmentTriggers{
		ttl:      ttl,
		triggers: map[string]*trigger{},
		finished: map[string]*time.Timer{},
	}
}

// Register returns the channel that is closed once the order is signaled.
func (t *ShipmentTriggers) Register(orderID string) <-chan struct{} {
	t.Lock()
	defer t.Unlock()

	if done, found := t.finished[orderID]; found {
		done.Stop()
		delete(t.finished, orderID)
	}

	tr, exists := t.triggers[orderID]
	if !exists {
		tr = &trigger{ch: make(chan struct{})}
		t.triggers[orderID] = tr
	}
	if tr.expiry != nil {
		tr.expiry.Stop()
		tr.expiry = nil
	}
	return tr.ch
}

// Signal releases the waiter of the order. Repeated signals and signals for
// orders that were just shipped are no-ops.
func (t *ShipmentTriggers) Signal(orderID string) {
	t.Lock()
	defer t.Unlock()

	if _, done := t.finished[orderID]; done {
		return
	}

	tr, exists := t.triggers[orderID]
	if !exists {
		tr = &trigger{ch: make(chan struct{})}
		tr.expiry = time.AfterFunc(t.ttl, func() {
			t.Lock()
			defer t.Unlock()

			if t.triggers[orderID] == tr {
				delete(t.triggers, orderID)
			}
		})
		t.triggers[orderID] = tr
	}
	if !tr.signaled {
		tr.signaled = true
		close(tr.ch)
	}
}

// Cleanup ends the wait of the order.
func (t *ShipmentTriggers) Cleanup(orderID string) {
	t.Lock()
	defer t.Unlock()

	if tr, exists := t.triggers[orderID]; exists && tr.expiry != nil {
		tr.expiry.Stop()
	}
	delete(t.triggers, orderID)

	if previous, found := t.finished[orderID]; found {
		previous.Stop()
	}
	var done *time.Timer
	done = time.AfterFunc(t.ttl, func() {
		t.Lock()
		defer t.Unlock()

		if t.finished[orderID] == done {
			delete(t.finished, orderID)
		}
	})
	t.finished[orderID] = done
}

// Len is the number of orders waiting or pre-signaled.
func (t *ShipmentTriggers) Len() int {
	t.Lock()
	defer t.Unlock()

	return len(t.triggers)
}
