package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const flushTimeoutMs = 5000

type KafkaStream struct {
	kafkaServers string
	logger       *slog.Logger

	mu       sync.Mutex
	producer *kafka.Producer
}

func New(kafkaServers string, logger *slog.Logger) *KafkaStream {
	return &KafkaStream{
		kafkaServers: kafkaServers,
		logger:       logger,
	}
}

// the producer is shared by every publish and created on first use
func (st *KafkaStream) getProducer() (*kafka.Producer, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.producer != nil {
		return st.producer, nil
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  st.kafkaServers,
		"acks":               "all",
		"enable.idempotence": true,
	})
	if err != nil {
		return nil, err
	}

	st.producer = producer
	return producer, nil
}

// ProduceMessage publishes value under key and waits for the broker to acknowledge it.
func (st *KafkaStream) ProduceMessage(ctx context.Context, topic, key string, value []byte) error {
	producer, err := st.getProducer()
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)

	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
	}, deliveryChan)
	if err != nil {
		st.logger.Error("failed to produce message", "topic", topic, "error", err.Error())
		return err
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %v", e)
		}
		if m.TopicPartition.Error != nil {
			st.logger.Error("message delivery failed", "topic", topic, "error", m.TopicPartition.Error.Error())
			return m.TopicPartition.Error
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	st.logger.Info("message sent", "topic", topic, "key", key)
	return nil
}

type StreamConsumer struct {
	GroupId string
	Topic   string
}

func (st *KafkaStream) CreateConsumer(consumerStruct *StreamConsumer) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  st.kafkaServers,
		"group.id":           consumerStruct.GroupId,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(consumerStruct.Topic, nil); err != nil {
		consumer.Close()
		return nil, err
	}

	return consumer, nil
}

// Close flushes pending deliveries and releases the producer.
func (st *KafkaStream) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.producer == nil {
		return
	}

	if remaining := st.producer.Flush(flushTimeoutMs); remaining > 0 {
		st.logger.Warn("kafka producer closed with undelivered messages", "count", remaining)
	}
	st.producer.Close()
	st.producer = nil
}
