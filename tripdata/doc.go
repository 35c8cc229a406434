// Package tripdata acquires public NYC TLC trip records and reduces them to the clean subset
// the marketplace seeder can turn into completed rides.
//
// A Fetcher downloads one Source (parquet, csv or json) and decodes it into RawTrip values.
// Clean is a pure function that filters and normalizes those values into CleanTrip values.
//
//	fetcher, _ := tripdata.NewFetcher(tripdata.WithLogger(logger))
//	dataset, err := fetcher.Fetch(ctx, tripdata.Source{URL: url})
//	if err != nil {
//		// errors.Is(err, marketplace.ErrTransferFailed)
//	}
//	trips, stats := tripdata.Clean(dataset.Trips)
package tripdata
