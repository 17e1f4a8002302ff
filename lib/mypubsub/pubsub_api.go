package mypubsub

import (
	"context"
	"os"
)

//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	Publish(c context.Context, topic string, data string) error
	CreateTopic(c context.Context, topic string) error
	Subscribe(c context.Context, topic string, urlToPostTo string) error
}

func New(c context.Context) (PubSub, func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudPubSub(c)
	}

	if os.Getenv("KAFKA_BROKERS") != "" {
		return newKafkaPubSub(c, os.Getenv("KAFKA_BROKERS"))
	}

	return NewFakePubSub(c)
}
