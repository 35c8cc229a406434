package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/retry"
)

const (
	// ExchangeRides is the topic exchange ride messages go to.
	ExchangeRides = "ride_topic"
	// RoutingKeyRequested is the routing key of newly requested rides.
	RoutingKeyRequested = "ride.requested"

	exchangeKindTopic     = "topic"
	contentTypeJSON       = "application/json"
	defaultPublishTimeout = 5 * time.Second
	dialAttempts          = 5
	operationDial         = "rabbitmq_dial"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RidePublisher sends ride.requested messages.
type RidePublisher struct {
	channel        Channel
	closeConn      func() error
	publishTimeout time.Duration
	logger         marketplace.Logger
}

// NewRidePublisher declares the ride exchange on channel and returns a publisher using it.
func NewRidePublisher(channel Channel, options ...Option) (*RidePublisher, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	p, err := newRidePublisher(options...)
	if err != nil {
		return nil, err
	}

	if err := p.attach(channel); err != nil {
		return nil, err
	}

	return p, nil
}

// Dial connects to RabbitMQ at url, retrying with backoff, and returns a ready publisher.
func Dial(ctx context.Context, url string, options ...Option) (*RidePublisher, error) {
	p, err := newRidePublisher(options...)
	if err != nil {
		return nil, err
	}

	retryOptions := []retry.Option{retry.WithMaxAttempts(dialAttempts)}
	if p.logger != nil {
		retryOptions = append(retryOptions, retry.WithLogger(p.logger))
	}

	var conn *amqp.Connection
	var ch *amqp.Channel

	err = retry.WithExponentialBackoff(ctx, operationDial, func(context.Context) error {
		var dialErr error

		conn, dialErr = amqp.Dial(url)
		if dialErr != nil {
			return fmt.Errorf("dial rabbitmq: %w", dialErr)
		}

		ch, dialErr = conn.Channel()
		if dialErr != nil {
			_ = conn.Close()
			return fmt.Errorf("open channel: %w", dialErr)
		}

		return nil
	}, retryOptions...)
	if err != nil {
		return nil, err
	}

	if err := p.attach(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, err
	}

	p.closeConn = conn.Close

	if p.logger != nil {
		p.logger.Info("rabbitmq connected", "exchange", ExchangeRides)
	}

	return p, nil
}

func newRidePublisher(options ...Option) (*RidePublisher, error) {
	p := &RidePublisher{publishTimeout: defaultPublishTimeout}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *RidePublisher) attach(channel Channel) error {
	if err := channel.ExchangeDeclare(
		ExchangeRides,
		exchangeKindTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangeRides, err)
	}

	p.channel = channel

	return nil
}

// PublishRequested publishes one message per ride. It stops at the first failure.
func (p *RidePublisher) PublishRequested(ctx context.Context, rides marketplace.Rides) error {
	for _, ride := range rides {
		body, err := json.Marshal(NewRequestedMessage(ride))
		if err != nil {
			return fmt.Errorf("encode ride %d: %w", ride.ID, err)
		}

		if err := p.publish(ctx, body, ride.RequestedAt); err != nil {
			return fmt.Errorf("publish ride %d: %w", ride.ID, err)
		}
	}

	if p.logger != nil {
		p.logger.Debug("published ride requests", "count", len(rides), "routing_key", RoutingKeyRequested)
	}

	return nil
}

func (p *RidePublisher) publish(ctx context.Context, body []byte, requestedAt time.Time) error {
	publishCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		publishCtx,
		ExchangeRides,
		RoutingKeyRequested,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    requestedAt.UTC(),
			Body:         body,
		},
	)
}

// Close closes the channel and, for dialed publishers, the connection.
func (p *RidePublisher) Close() error {
	err := p.channel.Close()

	if p.closeConn != nil {
		err = errors.Join(err, p.closeConn())
	}

	return err
}
