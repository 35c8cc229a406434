package notify

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

var (
	// ErrNilChannel is returned when a nil channel is passed to NewRidePublisher.
	ErrNilChannel = errors.New("amqp channel must not be nil")

	// ErrInvalidPublishTimeout is returned when the publish timeout is not positive.
	ErrInvalidPublishTimeout = errors.New("publish timeout must be positive")
)

// Option defines a functional option for configuring a RidePublisher.
type Option func(*RidePublisher) error

// WithPublishTimeout bounds each single publish call.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(p *RidePublisher) error {
		if timeout <= 0 {
			return ErrInvalidPublishTimeout
		}

		p.publishTimeout = timeout

		return nil
	}
}

// WithLogger sets the logger for the publisher.
func WithLogger(logger marketplace.Logger) Option {
	return func(p *RidePublisher) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		p.logger = logger

		return nil
	}
}
