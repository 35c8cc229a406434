package tripdata

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// Format is the encoding of a trip dataset.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// ErrUnknownFormat is returned when a source's format is neither configured nor derivable from its URL.
var ErrUnknownFormat = errors.New("unknown trip dataset format")

// DefaultTLCURLs are the yellow taxi trip files for January to March 2024.
var DefaultTLCURLs = []string{
	"https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2024-01.parquet",
	"https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2024-02.parquet",
	"https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2024-03.parquet",
}

// Source locates one trip dataset. An empty Format is derived from the URL's file extension.
type Source struct {
	URL    string `yaml:"url"`
	Format Format `yaml:"format"`
}

// DefaultSources returns the default TLC sources.
func DefaultSources() []Source {
	return SourcesFromURLs(DefaultTLCURLs)
}

// SourcesFromURLs wraps plain URLs into sources with derived formats.
func SourcesFromURLs(urls []string) []Source {
	sources := make([]Source, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}

		sources = append(sources, Source{URL: u})
	}

	return sources
}

// ResolvedFormat returns the configured format or the one implied by the URL path.
func (s Source) ResolvedFormat() (Format, error) {
	if s.Format != "" {
		switch Format(strings.ToLower(string(s.Format))) {
		case FormatParquet:
			return FormatParquet, nil
		case FormatCSV:
			return FormatCSV, nil
		case FormatJSON:
			return FormatJSON, nil
		default:
			return "", ErrUnknownFormat
		}
	}

	p := s.URL
	if parsed, err := url.Parse(s.URL); err == nil {
		p = parsed.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", ErrUnknownFormat
	}
}
