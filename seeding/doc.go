// Package seeding runs the one-time historical load of the marketplace store.
//
// A Loader seeds drivers and customers, downloads every configured trip dataset,
// cleans it and writes the derived completed rides in batches. A store that already
// holds any ride is left untouched, so running the loader twice is safe.
package seeding
