package tripdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

func Test_Source_ResolvedFormat(t *testing.T) {
	tests := []struct {
		name        string
		source      tripdata.Source
		expected    tripdata.Format
		expectedErr error
	}{
		{name: "parquet extension", source: tripdata.Source{URL: "https://host/yellow_tripdata_2024-01.parquet"}, expected: tripdata.FormatParquet},
		{name: "csv extension with query", source: tripdata.Source{URL: "https://host/trips.CSV?limit=10"}, expected: tripdata.FormatCSV},
		{name: "json extension", source: tripdata.Source{URL: "file:///data/trips.json"}, expected: tripdata.FormatJSON},
		{name: "explicit format wins", source: tripdata.Source{URL: "https://host/resource/abc", Format: "JSON"}, expected: tripdata.FormatJSON},
		{name: "no extension", source: tripdata.Source{URL: "https://host/resource/abc"}, expectedErr: tripdata.ErrUnknownFormat},
		{name: "unsupported explicit format", source: tripdata.Source{URL: "https://host/a.csv", Format: "xml"}, expectedErr: tripdata.ErrUnknownFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, err := tc.source.ResolvedFormat()

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, format)
		})
	}
}

func Test_DefaultSources(t *testing.T) {
	sources := tripdata.DefaultSources()

	require.Len(t, sources, 3)
	for i, source := range sources {
		assert.Equal(t, tripdata.DefaultTLCURLs[i], source.URL)

		format, err := source.ResolvedFormat()
		require.NoError(t, err)
		assert.Equal(t, tripdata.FormatParquet, format)
	}
}

func Test_SourcesFromURLs_SkipsBlanks(t *testing.T) {
	sources := tripdata.SourcesFromURLs([]string{" https://host/a.csv ", "", "  "})

	require.Len(t, sources, 1)
	assert.Equal(t, "https://host/a.csv", sources[0].URL)
}
