// Package livetraffic keeps the marketplace store fresh by inserting a batch of newly
// requested rides on a fixed interval, forever.
//
// A Producer loads the driver and customer id pools once, then runs cycles. A failed
// cycle drops its batch, closes the store handle and opens a fresh one through the
// Connector before the next cycle. Only cancelling the context stops the loop.
//
//	producer, _ := livetraffic.NewProducer(connector, synth.NewSource(0),
//		livetraffic.WithBatchSize(10),
//		livetraffic.WithInterval(30*time.Second),
//	)
//	err := producer.Run(ctx)
package livetraffic
