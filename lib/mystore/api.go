package mystore

import (
	"context"
	"errors"
	"fmt"
	"os"
)

type ctxTransactionKey struct{}

var ErrAlreadyExists = errors.New("already exists")

type Filter struct {
	Field   string
	Compare string
	Value   any
}

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

// inserter is implemented by stores that can natively insert-if-absent.
type inserter[T any] interface {
	Insert(c context.Context, uid string, value T) error
}

// Create stores value under uid only when nothing is stored there yet,
// otherwise ErrAlreadyExists is returned. Exactly one of concurrent callers wins.
func Create[T any](c context.Context, store Store[T], uid string, value T) error {
	ins, ok := store.(inserter[T])
	if ok {
		return ins.Insert(c, uid, value)
	}

	return store.RunInTransaction(c, func(c context.Context) error {
		_, exists, err := store.Get(c, uid)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("entity with uid %s: %w", uid, ErrAlreadyExists)
		}
		return store.Put(c, uid, value)
	})
}

func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	if os.Getenv("DATABASE_URL") != "" {
		return newPostgresStore[T](c, os.Getenv("DATABASE_URL"))
	}

	return NewInMemoryStore[T](c)
}
