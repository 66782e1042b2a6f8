package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"carpool-route-service/internal/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RoutingExchange    = "routing"
	RouteCommittedKey  = "route.committed"
	maxConnectAttempts = 5
)

// AMQPPublisher publishes route events to a topic exchange.
// A channel is not safe for concurrent use, so publishes are serialised.
type AMQPPublisher struct {
	conn *amqp.Connection
	log  *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// DialAMQP connects with quadratic backoff so the service can start before
// the broker is ready.
func DialAMQP(url string, log *zap.Logger) (*amqp.Connection, error) {
	var lastErr error

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			log.Info("connected to rabbitmq")
			return conn, nil
		}
		lastErr = err

		if attempt == maxConnectAttempts {
			break
		}
		backOff := time.Duration(math.Pow(float64(attempt), 2)) * time.Second
		log.Info("rabbitmq not yet ready, backing off", zap.Duration("backoff", backOff), zap.Error(err))
		time.Sleep(backOff)
	}

	return nil, fmt.Errorf("dial rabbitmq: %w", lastErr)
}

func NewAMQPPublisher(conn *amqp.Connection, log *zap.Logger) (*AMQPPublisher, error) {
	if conn == nil {
		return nil, errors.New("amqp publisher: connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp publisher: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		RoutingExchange, // name
		"topic",         // type
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp publisher: declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, log: log, ch: ch}, nil
}

func (p *AMQPPublisher) PublishRouteCommitted(ctx context.Context, evt ports.RouteCommittedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish route committed: encode: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		RoutingExchange,
		RouteCommittedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.CommittedAt,
			MessageId:    fmt.Sprintf("%s-%d", evt.SessionID, evt.Seq),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish route committed session=%s seq=%d: %w", evt.SessionID, evt.Seq, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return errors.Join(p.ch.Close(), p.conn.Close())
}
