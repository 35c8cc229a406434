// Package notify publishes committed live ride requests to RabbitMQ.
//
// Every ride becomes one persistent json message on the durable topic exchange
// "ride_topic" with routing key "ride.requested". Publishing is best effort: the
// caller decides what a failed publish means.
package notify
