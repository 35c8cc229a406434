package tripdata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	// DefaultTimeout bounds a single dataset download.
	DefaultTimeout = 120 * time.Second

	schemeFile    = "file"
	hostLocalhost = "localhost"

	logMsgDownloading     = "downloading trip dataset"
	logMsgDownloaded      = "downloaded trip dataset"
	logMsgTransferFailed  = "trip dataset transfer failed"
	logAttrURL            = "url"
	logAttrFormat         = "format"
	logAttrRowCount       = "row_count"
	logAttrBytes          = "bytes"
	logAttrDurationMS     = "duration_ms"
	logAttrError          = "error"
	metricLabelFormat     = "format"
	metricDownloadSeconds = "marketplace_download_duration_seconds"
)

var (
	// ErrUnexpectedStatus is returned when the dataset server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrFileURLHost is returned for a file url naming a host, such as file://trips.csv.
	// Local files need an absolute path: file:///data/trips.csv.
	ErrFileURLHost = errors.New("file url must not name a host")
)

// Fetcher downloads and decodes trip datasets. It never retries on its own.
type Fetcher struct {
	client           *http.Client
	timeout          time.Duration
	logger           marketplace.Logger
	metricsCollector marketplace.MetricsCollector
}

// NewFetcher creates a Fetcher with a 120 second timeout unless configured otherwise.
func NewFetcher(options ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}

	for _, option := range options {
		if err := option(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Fetch downloads source and decodes it by format. URLs with the file scheme are read from disk.
// Every failure is returned joined with marketplace.ErrTransferFailed.
func (f *Fetcher) Fetch(ctx context.Context, source Source) (Dataset, error) {
	start := time.Now()

	dataFormat, formatErr := source.ResolvedFormat()
	if formatErr != nil {
		return Dataset{}, f.transferFailed(source, formatErr)
	}

	f.logInfo(logMsgDownloading, logAttrURL, source.URL, logAttrFormat, string(dataFormat))

	data, readErr := f.read(ctx, source.URL)
	if readErr != nil {
		return Dataset{}, f.transferFailed(source, readErr)
	}

	trips, decodeErr := decode(dataFormat, data)
	if decodeErr != nil {
		return Dataset{}, f.transferFailed(source, decodeErr)
	}

	duration := time.Since(start)
	f.logInfo(
		logMsgDownloaded,
		logAttrURL, source.URL,
		logAttrRowCount, len(trips),
		logAttrBytes, len(data),
		logAttrDurationMS, duration.Milliseconds(),
	)

	if f.metricsCollector != nil {
		labels := map[string]string{metricLabelFormat: string(dataFormat)}
		f.metricsCollector.RecordDuration(metricDownloadSeconds, duration, labels)
		f.metricsCollector.RecordValue(marketplace.MetricTripsDownloaded, float64(len(trips)), labels)
	}

	return Dataset{Source: source, Trips: trips}, nil
}

func (f *Fetcher) read(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return nil, parseErr
	}

	if parsed.Scheme == schemeFile {
		if parsed.Host != "" && parsed.Host != hostLocalhost {
			return nil, fmt.Errorf("%w: %s", ErrFileURLHost, parsed.Host)
		}

		return os.ReadFile(parsed.Path)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if reqErr != nil {
		return nil, reqErr
	}

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func decode(dataFormat Format, data []byte) ([]RawTrip, error) {
	switch dataFormat {
	case FormatParquet:
		return decodeParquet(bytes.NewReader(data), int64(len(data)))
	case FormatCSV:
		return decodeCSV(bytes.NewReader(data))
	case FormatJSON:
		return decodeJSON(bytes.NewReader(data))
	default:
		return nil, ErrUnknownFormat
	}
}

func (f *Fetcher) transferFailed(source Source, cause error) error {
	if f.logger != nil {
		f.logger.Error(logMsgTransferFailed, logAttrURL, source.URL, logAttrError, cause.Error())
	}

	return errors.Join(marketplace.ErrTransferFailed, fmt.Errorf("%s: %w", source.URL, cause))
}

func (f *Fetcher) logInfo(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Info(msg, args...)
	}
}
