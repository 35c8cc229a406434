package tripdata_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/fixtures"      //nolint:revive
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/observability" //nolint:revive
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

const tlcCSV = `VendorID,tpep_pickup_datetime,tpep_dropoff_datetime,passenger_count,trip_distance,PULocationID,DOLocationID,payment_type,fare_amount,tip_amount
2,2024-01-15 08:30:00,2024-01-15 08:45:00,1,1.72,100,200,1,12.5,2
1,2024-01-15 09:00:00,,,0.5,300,12,2,7,
`

const openDataJSON = `[
  {"pulocationid":"100","dolocationid":"200","passenger_count":"1","fare_amount":"12.5","tip_amount":"2",
   "payment_type":"1","tpep_pickup_datetime":"2024-01-15T08:30:00.000","tpep_dropoff_datetime":"2024-01-15T08:45:00.000"},
  {"PULocationID":43,"DOLocationID":44,"fare_amount":9.25,"payment_type":2,"tpep_pickup_datetime":"2024-01-15T10:00:00.000"}
]`

type tlcParquetRow struct {
	VendorID       int32     `parquet:"VendorID"`
	PickupAt       time.Time `parquet:"tpep_pickup_datetime"`
	DropoffAt      time.Time `parquet:"tpep_dropoff_datetime"`
	PassengerCount int64     `parquet:"passenger_count,optional"`
	PULocationID   int32     `parquet:"PULocationID"`
	DOLocationID   int32     `parquet:"DOLocationID"`
	PaymentType    int64     `parquet:"payment_type"`
	FareAmount     float64   `parquet:"fare_amount"`
	TipAmount      float64   `parquet:"tip_amount"`
}

func givenParquetFile(t *testing.T) []byte {
	t.Helper()

	rows := []tlcParquetRow{
		{
			VendorID:       2,
			PickupAt:       FixedTime,
			DropoffAt:      FixedTime.Add(15 * time.Minute),
			PassengerCount: 2,
			PULocationID:   100,
			DOLocationID:   200,
			PaymentType:    1,
			FareAmount:     12.5,
			TipAmount:      2,
		},
		{
			VendorID:     1,
			PickupAt:     FixedTime.Add(time.Hour),
			DropoffAt:    FixedTime.Add(time.Hour + 5*time.Minute),
			PULocationID: 7,
			DOLocationID: 8,
			PaymentType:  2,
			FareAmount:   6,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, rows), "error in arranging test data")

	return buf.Bytes()
}

func givenServer(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server
}

func Test_Fetcher_Fetch_CSV(t *testing.T) {
	// setup
	server := givenServer(t, []byte(tlcCSV), http.StatusOK)
	fetcher, err := tripdata.NewFetcher()
	require.NoError(t, err)

	// act
	dataset, err := fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/yellow.csv"})

	// assert
	require.NoError(t, err)
	require.Len(t, dataset.Trips, 2)

	first := dataset.Trips[0]
	require.NotNil(t, first.PickupZoneID)
	assert.Equal(t, 100.0, *first.PickupZoneID)
	assert.Equal(t, 200.0, *first.DropoffZoneID)
	assert.Equal(t, 12.5, *first.FareAmount)
	assert.Equal(t, 2.0, *first.TipAmount)
	assert.Equal(t, 1.0, *first.PaymentType)
	require.NotNil(t, first.PickupAt)
	assert.True(t, FixedTime.Equal(*first.PickupAt))
	require.NotNil(t, first.DropoffAt)
	assert.True(t, FixedTime.Add(15*time.Minute).Equal(*first.DropoffAt))

	second := dataset.Trips[1]
	assert.Nil(t, second.PassengerCount, "empty cell is missing")
	assert.Nil(t, second.TipAmount)
	assert.Nil(t, second.DropoffAt)
	assert.Equal(t, 300.0, *second.PickupZoneID)
}

func Test_Fetcher_Fetch_JSON(t *testing.T) {
	// setup
	server := givenServer(t, []byte(openDataJSON), http.StatusOK)
	fetcher, err := tripdata.NewFetcher()
	require.NoError(t, err)

	// act
	dataset, err := fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/resource/abc", Format: tripdata.FormatJSON})

	// assert
	require.NoError(t, err)
	require.Len(t, dataset.Trips, 2)

	trips, stats := tripdata.Clean(dataset.Trips)
	require.Len(t, trips, 2)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, GivenCleanTrip(), trips[0])
	assert.Equal(t, 43, trips[1].PickupZoneID)
	assert.Equal(t, 9.25, trips[1].Fare)
	assert.Equal(t, marketplace.PaymentCash, trips[1].PaymentType)
	assert.Equal(t, 1, trips[1].PassengerCount)
}

func Test_Fetcher_Fetch_Parquet(t *testing.T) {
	// setup
	server := givenServer(t, givenParquetFile(t), http.StatusOK)
	fetcher, err := tripdata.NewFetcher()
	require.NoError(t, err)

	// act
	dataset, err := fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/yellow_tripdata_2024-01.parquet"})

	// assert
	require.NoError(t, err)
	require.Len(t, dataset.Trips, 2)

	trips, _ := tripdata.Clean(dataset.Trips)
	require.Len(t, trips, 2)

	assert.Equal(t, 100, trips[0].PickupZoneID)
	assert.Equal(t, 200, trips[0].DropoffZoneID)
	assert.Equal(t, 2, trips[0].PassengerCount)
	assert.Equal(t, 12.5, trips[0].Fare)
	assert.Equal(t, 2.0, trips[0].Tip)
	assert.Equal(t, marketplace.PaymentCreditCard, trips[0].PaymentType)
	assert.True(t, FixedTime.Equal(trips[0].PickupAt))
	require.NotNil(t, trips[0].DropoffAt)
	assert.True(t, FixedTime.Add(15*time.Minute).Equal(*trips[0].DropoffAt))

	assert.Equal(t, 1, trips[1].PassengerCount, "null passenger count defaults to one")
	assert.Equal(t, marketplace.PaymentCash, trips[1].PaymentType)
}

type millisTripRow struct {
	PickupAt  time.Time `parquet:"tpep_pickup_datetime,timestamp(millisecond)"`
	DropoffAt time.Time `parquet:"tpep_dropoff_datetime,timestamp(millisecond)"`
}

type microsTripRow struct {
	PickupAt  time.Time `parquet:"tpep_pickup_datetime,timestamp(microsecond)"`
	DropoffAt time.Time `parquet:"tpep_dropoff_datetime,timestamp(microsecond)"`
}

type nanosTripRow struct {
	PickupAt  time.Time `parquet:"tpep_pickup_datetime,timestamp(nanosecond)"`
	DropoffAt time.Time `parquet:"tpep_dropoff_datetime,timestamp(nanosecond)"`
}

func givenParquetRows[T any](t *testing.T, rows ...T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, rows), "error in arranging test data")

	return buf.Bytes()
}

func Test_Fetcher_Fetch_ParquetTimestampUnits(t *testing.T) {
	pickupAt := FixedTime.Add(250 * time.Millisecond)
	dropoffAt := FixedTime.Add(15*time.Minute + 750*time.Millisecond)

	tests := []struct {
		unit string
		body func(t *testing.T) []byte
	}{
		{unit: "millisecond", body: func(t *testing.T) []byte {
			return givenParquetRows(t, millisTripRow{PickupAt: pickupAt, DropoffAt: dropoffAt})
		}},
		{unit: "microsecond", body: func(t *testing.T) []byte {
			return givenParquetRows(t, microsTripRow{PickupAt: pickupAt, DropoffAt: dropoffAt})
		}},
		{unit: "nanosecond", body: func(t *testing.T) []byte {
			return givenParquetRows(t, nanosTripRow{PickupAt: pickupAt, DropoffAt: dropoffAt})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.unit, func(t *testing.T) {
			// arrange
			server := givenServer(t, tc.body(t), http.StatusOK)
			fetcher, err := tripdata.NewFetcher()
			require.NoError(t, err)

			// act
			dataset, err := fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/trips.parquet"})

			// assert
			require.NoError(t, err)
			require.Len(t, dataset.Trips, 1)
			require.NotNil(t, dataset.Trips[0].PickupAt)
			require.NotNil(t, dataset.Trips[0].DropoffAt)
			assert.True(t, pickupAt.Equal(*dataset.Trips[0].PickupAt), "pickup %s", dataset.Trips[0].PickupAt)
			assert.True(t, dropoffAt.Equal(*dataset.Trips[0].DropoffAt), "dropoff %s", dataset.Trips[0].DropoffAt)
		})
	}
}

func Test_Fetcher_Fetch_FromFile(t *testing.T) {
	// setup
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(tlcCSV), 0o600))
	fetcher, err := tripdata.NewFetcher()
	require.NoError(t, err)

	// act
	dataset, err := fetcher.Fetch(context.Background(), tripdata.Source{URL: "file://" + path})
	withLocalhost, localhostErr := fetcher.Fetch(context.Background(), tripdata.Source{URL: "file://localhost" + path})

	// assert
	require.NoError(t, err)
	assert.Len(t, dataset.Trips, 2)
	require.NoError(t, localhostErr)
	assert.Len(t, withLocalhost.Trips, 2)
}

func Test_Fetcher_Fetch_Failures(t *testing.T) {
	// setup
	notFound := givenServer(t, []byte("not found"), http.StatusNotFound)
	garbage := givenServer(t, []byte("definitely not parquet"), http.StatusOK)

	tests := []struct {
		name        string
		source      tripdata.Source
		expectedErr error
	}{
		{name: "non 2xx status", source: tripdata.Source{URL: notFound.URL + "/a.csv"}, expectedErr: tripdata.ErrUnexpectedStatus},
		{name: "undecodable body", source: tripdata.Source{URL: garbage.URL + "/a.parquet"}},
		{name: "unknown format", source: tripdata.Source{URL: garbage.URL + "/a.txt"}, expectedErr: tripdata.ErrUnknownFormat},
		{name: "missing file", source: tripdata.Source{URL: "file:///does/not/exist.csv"}, expectedErr: os.ErrNotExist},
		{name: "relative file url", source: tripdata.Source{URL: "file://relative.csv", Format: tripdata.FormatCSV}, expectedErr: tripdata.ErrFileURLHost},
		{name: "empty csv", source: tripdata.Source{URL: givenServer(t, nil, http.StatusOK).URL + "/a.csv"}, expectedErr: tripdata.ErrMissingHeader},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			logger, logSpy := NewLogger()
			fetcher, err := tripdata.NewFetcher(tripdata.WithLogger(logger))
			require.NoError(t, err)

			// act
			_, err = fetcher.Fetch(context.Background(), tc.source)

			// assert
			require.Error(t, err)
			assert.ErrorIs(t, err, marketplace.ErrTransferFailed)
			assert.Contains(t, err.Error(), tc.source.URL)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			}
			assert.True(t, logSpy.HasErrorLogWithMessage("trip dataset transfer failed").WithAttr("url", tc.source.URL).Assert())
		})
	}
}

func Test_Fetcher_Fetch_Timeout(t *testing.T) {
	// setup
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	fetcher, err := tripdata.NewFetcher(tripdata.WithTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	// act
	_, err = fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/slow.csv"})

	// assert
	assert.ErrorIs(t, err, marketplace.ErrTransferFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Fetcher_Fetch_ObservesDownload(t *testing.T) {
	// setup
	server := givenServer(t, []byte(tlcCSV), http.StatusOK)
	logger, logSpy := NewLogger()
	metricsSpy := NewMetricsCollectorSpy()
	fetcher, err := tripdata.NewFetcher(tripdata.WithLogger(logger), tripdata.WithMetrics(metricsSpy))
	require.NoError(t, err)

	// act
	_, err = fetcher.Fetch(context.Background(), tripdata.Source{URL: server.URL + "/trips.csv"})

	// assert
	require.NoError(t, err)
	assert.True(t, logSpy.HasInfoLogWithMessage("downloading trip dataset").WithAttr("format", "csv").Assert())
	assert.True(t, logSpy.HasInfoLogWithMessage("downloaded trip dataset").WithAttr("row_count", "2").WithDurationMS().Assert())
	assert.True(t, metricsSpy.HasValueRecordForMetric(marketplace.MetricTripsDownloaded).WithLabel("format", "csv").Assert())
	assert.Equal(t, 2.0, metricsSpy.SumValuesForMetric(marketplace.MetricTripsDownloaded))
}

func Test_NewFetcher_InvalidOptions(t *testing.T) {
	_, err := tripdata.NewFetcher(tripdata.WithTimeout(0))
	assert.ErrorIs(t, err, tripdata.ErrInvalidTimeout)

	_, err = tripdata.NewFetcher(tripdata.WithHTTPClient(nil))
	assert.ErrorIs(t, err, tripdata.ErrNilHTTPClient)

	_, err = tripdata.NewFetcher(tripdata.WithLogger(nil))
	assert.ErrorIs(t, err, marketplace.ErrNilLogger)

	_, err = tripdata.NewFetcher(tripdata.WithMetrics(nil))
	assert.ErrorIs(t, err, marketplace.ErrNilMetricsCollector)
}
