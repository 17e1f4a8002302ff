package mystore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// inMemoryTxKey is scoped per store: each store guards its own items
type inMemoryTxKey struct {
	store any
}

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if c.Value(inMemoryTxKey{store: s}) != nil {
		// nested: already holding the lock
		return f(c)
	}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	snapshot := make(map[string]T, len(s.Items))
	for k, v := range s.Items {
		snapshot[k] = v
	}

	ctx := context.WithValue(c, inMemoryTxKey{store: s}, true)

	// Within this block everything is transactional
	err := f(ctx)
	if err != nil {
		// Rollback
		s.Items = snapshot
		return err
	}

	// Commit
	return nil
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := c.Value(inMemoryTxKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := c.Value(inMemoryTxKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.Items[uid]

	return result, exists, nil
}

func (s *InMemoryStore[T]) Delete(c context.Context, uid string) error {
	nonTransactional := c.Value(inMemoryTxKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	delete(s.Items, uid)

	return nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := c.Value(inMemoryTxKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	uids := make([]string, 0, len(s.Items))
	for uid := range s.Items {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	result := make([]T, 0, len(s.Items))
	for _, uid := range uids {
		result = append(result, s.Items[uid])
	}

	return result, nil
}

// Query supports equality filters only and orders ascending on a string, integer or time field.
func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := []T{}
	for _, item := range all {
		match := true
		for _, f := range filters {
			if f.Compare != "=" {
				return nil, fmt.Errorf("unsupported in-memory comparison %q", f.Compare)
			}
			value, found := fieldValue(item, f.Field)
			if !found || !reflect.DeepEqual(value, f.Value) {
				match = false
				break
			}
		}
		if match {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		sort.SliceStable(result, func(i, j int) bool {
			return less(result[i], result[j], orderByField)
		})
	}

	return result, nil
}

func fieldValue(item any, field string) (any, bool) {
	v := reflect.Indirect(reflect.ValueOf(item))
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := v.FieldByName(field)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func less(a, b any, field string) bool {
	va, _ := fieldValue(a, field)
	vb, _ := fieldValue(b, field)

	switch x := va.(type) {
	case time.Time:
		y, _ := vb.(time.Time)
		return x.Before(y)
	case string:
		y, _ := vb.(string)
		return x < y
	case int:
		y, _ := vb.(int)
		return x < y
	case int64:
		y, _ := vb.(int64)
		return x < y
	default:
		return false
	}
}
