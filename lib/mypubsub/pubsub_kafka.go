package mypubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/MarcGrol/ucpcheckout/lib/myevents"
	"github.com/MarcGrol/ucpcheckout/lib/myhttpclient"
)

const kafkaConsumerGroup = "ucpcheckout"

type kafkaPubSub struct {
	sync.Mutex
	brokers    []string
	writers    map[string]*kafka.Writer
	readers    []*kafka.Reader
	httpClient myhttpclient.HTTPSender
}

func newKafkaPubSub(c context.Context, brokersCSV string) (PubSub, func(), error) {
	brokers := parseBrokers(brokersCSV)
	if len(brokers) == 0 {
		return nil, func() {}, fmt.Errorf("no kafka brokers in %q", brokersCSV)
	}

	ps := &kafkaPubSub{
		brokers:    brokers,
		writers:    map[string]*kafka.Writer{},
		httpClient: myhttpclient.New(),
	}
	return ps, ps.close, nil
}

func parseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (ps *kafkaPubSub) close() {
	ps.Lock()
	defer ps.Unlock()

	for _, w := range ps.writers {
		_ = w.Close()
	}
	for _, r := range ps.readers {
		_ = r.Close()
	}
}

func (ps *kafkaPubSub) writer(topic string) *kafka.Writer {
	ps.Lock()
	defer ps.Unlock()

	w, found := ps.writers[topic]
	if !found {
		w = &kafka.Writer{
			Addr:                   kafka.TCP(ps.brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		ps.writers[topic] = w
	}
	return w
}

// CreateTopic relies on auto topic creation of the writer
func (ps *kafkaPubSub) CreateTopic(c context.Context, topic string) error {
	return nil
}

func (ps *kafkaPubSub) Publish(c context.Context, topic string, data string) error {
	err := ps.writer(topic).WriteMessages(c, kafka.Message{
		Key:   []byte(topic),
		Value: []byte(data),
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("error publishing event on topic %s: %s", topic, err)
	}
	return nil
}

// Subscribe emulates a push-subscription: every consumed message is posted to urlToPostTo.
func (ps *kafkaPubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  ps.brokers,
		Topic:    topic,
		GroupID:  kafkaConsumerGroup + "-" + topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	ps.Lock()
	ps.readers = append(ps.readers, reader)
	ps.Unlock()

	go ps.consume(context.WithoutCancel(c), reader, topic, urlToPostTo)

	log.Printf("Subscribed %s to kafka topic %s", urlToPostTo, topic)

	return nil
}

func (ps *kafkaPubSub) consume(c context.Context, reader *kafka.Reader, topic string, urlToPostTo string) {
	for {
		msg, err := reader.FetchMessage(c)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				log.Printf("Error fetching from kafka topic %s: %s", topic, err)
			}
			return
		}

		body, err := json.Marshal(myevents.PushRequest{
			Message: myevents.PushMessage{
				Data: msg.Value,
				ID:   fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset),
			},
			Subscription: topic,
		})
		if err != nil {
			log.Printf("Error marshalling push-request for topic %s: %s", topic, err)
			continue
		}

		status, _, err := ps.httpClient.Send(c, http.MethodPost, urlToPostTo, body)
		if err != nil || status >= http.StatusMultipleChoices {
			// not committed: redelivered after rebalance
			log.Printf("Error pushing message %d of topic %s to %s: status %d, err: %v", msg.Offset, topic, urlToPostTo, status, err)
			continue
		}

		err = reader.CommitMessages(c, msg)
		if err != nil {
			log.Printf("Error committing message %d of topic %s: %s", msg.Offset, topic, err)
		}
	}
}
