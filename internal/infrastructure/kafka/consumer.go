package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/imgvault/image-vault/pkg/kafka/consumer"
)

// NotificationConsumer reads object-store bucket notifications from the
// completion topic. Fetch and commit are split so a batch is only
// acknowledged after it has been handed to the coordinator.
type NotificationConsumer struct {
	*consumer.Consumer
}

func NewNotificationConsumer(consumer *consumer.Consumer) *NotificationConsumer {
	return &NotificationConsumer{consumer}
}

func (nc *NotificationConsumer) ReadNotification(ctx context.Context) (kafka.Message, error) {
	msg, err := nc.Reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("NotificationConsumer - ReadNotification - nc.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (nc *NotificationConsumer) CommitNotification(ctx context.Context, msg kafka.Message) error {
	err := nc.Reader.CommitMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotificationConsumer - CommitNotification - nc.Reader.CommitMessages: %w", err)
	}

	return nil
}

func (nc *NotificationConsumer) Close() error {
	err := nc.Consumer.Close()
	if err != nil {
		return fmt.Errorf("NotificationConsumer - Close: %w", err)
	}

	return nil
}
