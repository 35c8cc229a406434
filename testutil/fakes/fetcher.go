package fakes

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

// Fetcher serves prepared datasets by URL.
type Fetcher struct {
	mu       sync.Mutex
	datasets map[string][]tripdata.RawTrip
	errs     map[string]error
	calls    []string
}

// NewFetcher returns a fetcher without datasets. Unknown URLs yield an empty dataset.
func NewFetcher() *Fetcher {
	return &Fetcher{
		datasets: make(map[string][]tripdata.RawTrip),
		errs:     make(map[string]error),
	}
}

// WithDataset registers trips for url.
func (f *Fetcher) WithDataset(url string, trips ...tripdata.RawTrip) *Fetcher {
	f.datasets[url] = trips
	return f
}

// WithError makes fetching url fail with err.
func (f *Fetcher) WithError(url string, err error) *Fetcher {
	f.errs[url] = err
	return f
}

// Fetch implements seeding.Fetcher.
func (f *Fetcher) Fetch(_ context.Context, source tripdata.Source) (tripdata.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, source.URL)

	if err := f.errs[source.URL]; err != nil {
		return tripdata.Dataset{}, err
	}

	return tripdata.Dataset{Source: source, Trips: f.datasets[source.URL]}, nil
}

// Calls returns the fetched URLs in order.
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}
