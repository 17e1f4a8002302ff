// Package myidempotency replays the outcome of a keyed request instead of executing it twice.
package myidempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mymetrics"
	"github.com/MarcGrol/ucpcheckout/lib/mystore"
	"github.com/MarcGrol/ucpcheckout/lib/mytime"
)

const (
	outcomeExecuted = "executed"
	outcomeReplayed = "replayed"
	outcomeConflict = "conflict"
)

// Record is written exclusively: a pending record claims the key while the action runs
// and is replaced by the completed record once the action succeeded.
type Record struct {
	Key            string
	RequestHash    string
	ResponseStatus int
	ResponseBody   string `datastore:",noindex"`
	Pending        bool
	CreatedAt      time.Time
}

type Guard struct {
	logger  mylog.Logger
	store   mystore.Store[Record]
	nower   mytime.Nower
	metrics *mymetrics.Metrics
}

func New(store mystore.Store[Record], nower mytime.Nower, metrics *mymetrics.Metrics) *Guard {
	return &Guard{
		logger:  mylog.New("idempotency"),
		store:   store,
		nower:   nower,
		metrics: metrics,
	}
}

// Execute runs action at most once per key. A repeated request with the same key and an
// identical payload gets the stored response; a different payload is a conflict.
func Execute[Req any, Resp any](c context.Context, g *Guard, key string, req Req, responseStatus int, action func(c context.Context, req Req) (Resp, error)) (Resp, error) {
	var noResp Resp

	if key == "" {
		return action(c, req)
	}

	requestHash, err := Hash(req)
	if err != nil {
		return noResp, myerrors.NewInternalError(fmt.Errorf("error hashing request: %s", err))
	}

	existing, found, err := g.store.Get(c, key)
	if err != nil {
		return noResp, myerrors.NewInternalError(fmt.Errorf("error fetching idempotency record %s: %s", key, err))
	}
	if found {
		return replay[Resp](c, g, existing, requestHash)
	}

	err = mystore.Create(c, g.store, key, Record{
		Key:         key,
		RequestHash: requestHash,
		Pending:     true,
		CreatedAt:   g.nower.Now(),
	})
	if err != nil {
		if !errors.Is(err, mystore.ErrAlreadyExists) {
			return noResp, myerrors.NewInternalError(fmt.Errorf("error claiming idempotency key %s: %s", key, err))
		}

		// lost the race for the key
		existing, found, err := g.store.Get(c, key)
		if err != nil {
			return noResp, myerrors.NewInternalError(fmt.Errorf("error fetching idempotency record %s: %s", key, err))
		}
		if !found {
			g.metrics.IdempotencyOutcome(outcomeConflict)
			return noResp, myerrors.NewIdempotencyConflictError(fmt.Errorf("Request with idempotency key %s was aborted concurrently, retry", key))
		}
		return replay[Resp](c, g, existing, requestHash)
	}

	resp, err := action(c, req)
	if err != nil {
		// release the claim so that the request can be retried
		releaseErr := g.store.Delete(c, key)
		if releaseErr != nil {
			g.logger.Log(c, key, mylog.SeverityError, "Error releasing idempotency key %s: %s", key, releaseErr)
		}
		return noResp, err
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		return noResp, myerrors.NewInternalError(fmt.Errorf("error serializing response for idempotency key %s: %s", key, err))
	}

	err = g.store.Put(c, key, Record{
		Key:            key,
		RequestHash:    requestHash,
		ResponseStatus: responseStatus,
		ResponseBody:   string(respBytes),
		Pending:        false,
		CreatedAt:      g.nower.Now(),
	})
	if err != nil {
		return noResp, myerrors.NewInternalError(fmt.Errorf("error storing idempotency record %s: %s", key, err))
	}

	g.metrics.IdempotencyOutcome(outcomeExecuted)

	return resp, nil
}

func replay[Resp any](c context.Context, g *Guard, existing Record, requestHash string) (Resp, error) {
	var resp Resp

	if existing.RequestHash != requestHash {
		g.metrics.IdempotencyOutcome(outcomeConflict)
		return resp, myerrors.NewIdempotencyConflictError(fmt.Errorf("Idempotency key reused with different parameters"))
	}

	if existing.Pending {
		g.metrics.IdempotencyOutcome(outcomeConflict)
		return resp, myerrors.NewIdempotencyConflictError(fmt.Errorf("Request with this idempotency key is still in progress"))
	}

	err := json.Unmarshal([]byte(existing.ResponseBody), &resp)
	if err != nil {
		return resp, myerrors.NewInternalError(fmt.Errorf("error deserializing stored response for idempotency key %s: %s", existing.Key, err))
	}

	g.logger.Log(c, existing.Key, mylog.SeverityInfo, "Replaying stored response for idempotency key %s", existing.Key)
	g.metrics.IdempotencyOutcome(outcomeReplayed)

	return resp, nil
}

// Hash is the hex encoded SHA-256 of the canonical JSON form of the request.
// Struct fields keep their declaration order and map keys are sorted.
func Hash(req any) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
