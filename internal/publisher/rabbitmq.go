// Package publisher announces published editions on a RabbitMQ exchange.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"edition_collector/internal/domain"
)

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex
	exchange   string
	routingKey string
	logger     *slog.Logger
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger.With("component", "publisher"),
	}, nil
}

// declareTopology sets up a durable direct exchange and a durable queue bound
// to it with the routing key.
func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

type EditionPublishedMessage struct {
	EditionID    int64                 `json:"editionId"`
	Type         domain.EditionType    `json:"type"`
	Date         string                `json:"date"`
	ArticleCount int                   `json:"articleCount"`
	Sources      map[domain.Source]int `json:"sources"`
	PublishedAt  time.Time             `json:"publishedAt"`
}

func newMessage(edition *domain.Edition, counts map[domain.Source]int) EditionPublishedMessage {
	msg := EditionPublishedMessage{
		EditionID: edition.ID,
		Type:      edition.Type,
		Date:      edition.Date,
		Sources:   counts,
	}
	for _, n := range counts {
		msg.ArticleCount += n
	}
	if edition.PublishedAt != nil {
		msg.PublishedAt = edition.PublishedAt.UTC()
	}
	return msg
}

// PublishEdition sends one persistent EditionPublishedMessage. Calls are
// serialized because an amqp channel is not safe for concurrent publishing.
func (r *RabbitMQ) PublishEdition(ctx context.Context, edition *domain.Edition, counts map[domain.Source]int) error {
	msg := newMessage(edition, counts)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			Type:         "edition.published",
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published edition",
		"edition_id", msg.EditionID,
		"edition", edition.Slot().String(),
		"articles", msg.ArticleCount,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
