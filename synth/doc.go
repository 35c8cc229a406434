// Package synth generates the synthetic parts of the marketplace: driver and customer
// populations, and rides derived from cleaned trips or drawn from scratch for live traffic.
//
// All randomness flows through a Source, so tests can pin results with a fixed seed
// or a scripted Source.
package synth
