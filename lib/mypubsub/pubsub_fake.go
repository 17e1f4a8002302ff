package mypubsub

import (
	"context"
	"sync"
)

// FakePubSub keeps published messages in memory
type FakePubSub struct {
	sync.Mutex
	Published map[string][]string
}

func NewFakePubSub(c context.Context) (*FakePubSub, func(), error) {
	return &FakePubSub{
			Published: map[string][]string{},
		}, func() {
		}, nil
}

func (q *FakePubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	return nil
}

func (q *FakePubSub) CreateTopic(c context.Context, topic string) error {
	return nil
}

func (q *FakePubSub) Publish(c context.Context, topic string, data string) error {
	q.Lock()
	defer q.Unlock()

	q.Published[topic] = append(q.Published[topic], data)
	return nil
}

func (q *FakePubSub) MessagesOn(topic string) []string {
	q.Lock()
	defer q.Unlock()

	return append([]string{}, q.Published[topic]...)
}
