package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront/internal/models"
)

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is the payload written to the orders topic after a commit.
type OrderPlacedEvent struct {
	OrderID        int64                 `json:"orderId"`
	UserID         *int64                `json:"userId"`
	Total          string                `json:"total"`
	Status         models.OrderStatus    `json:"status"`
	DeliveryMethod models.DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  models.PaymentMethod  `json:"paymentMethod"`
	Items          []models.OrderItem    `json:"items"`
	CreatedAt      time.Time             `json:"createdAt"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *models.Order) error {
	msg, err := orderPlacedMessage(o)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %d: %w", o.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// orderPlacedMessage keys by order id so events of one order stay on one partition.
func orderPlacedMessage(o *models.Order) (kafka.Message, error) {
	payload, err := json.Marshal(OrderPlacedEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Total:          o.Total.StringFixed(2),
		Status:         o.Status,
		DeliveryMethod: o.DeliveryMethod,
		PaymentMethod:  o.PaymentMethod,
		Items:          o.Items,
		CreatedAt:      o.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(o.ID, 10)),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}, nil
}
