package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

// ErrEmptySources is returned when neither the manifest nor SEED_SOURCES yield a source.
var ErrEmptySources = errors.New("no trip sources configured")

// sourcesManifest is the layout of the SEED_SOURCES_FILE yaml document:
//
//	sources:
//	  - url: https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2024-01.parquet
//	  - url: file:///data/trips.csv
//	    format: csv
type sourcesManifest struct {
	Sources []tripdata.Source `yaml:"sources"`
}

// loadSources prefers the manifest file and falls back to the comma separated URL list.
func loadSources(manifestPath string, urlList string) ([]tripdata.Source, error) {
	var sources []tripdata.Source

	if manifestPath != "" {
		manifest, err := readSourcesManifest(manifestPath)
		if err != nil {
			return nil, err
		}

		sources = manifest.Sources
	} else {
		sources = tripdata.SourcesFromURLs(strings.Split(urlList, ","))
	}

	if len(sources) == 0 {
		return nil, ErrEmptySources
	}

	for _, source := range sources {
		if _, err := source.ResolvedFormat(); err != nil {
			return nil, fmt.Errorf("%w: %s", err, source.URL)
		}
	}

	return sources, nil
}

func readSourcesManifest(path string) (sourcesManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sourcesManifest{}, fmt.Errorf("read sources manifest: %w", err)
	}

	var manifest sourcesManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return sourcesManifest{}, fmt.Errorf("parse sources manifest %s: %w", path, err)
	}

	return manifest, nil
}
