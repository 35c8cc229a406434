// Package fakes provides in-memory stand-ins for the store, the dataset fetcher,
// the live connector, the clock and the ride publisher.
package fakes
