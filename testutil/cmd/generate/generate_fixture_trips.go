package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
)

const (
	thousand = 1000

	// NumTrips is the number of trip records written - adapt as needed.
	// 100 thousand rows are roughly 9MB of CSV.
	NumTrips = 100 * thousand

	// InvalidEveryNth makes every n-th record fail cleaning, cycling through the drop reasons.
	InvalidEveryNth = 25

	// RandomSeed makes the output reproducible.
	RandomSeed = 2024

	OutputDir     = "testutil/fixtures" // The directory to put the fixture data into - should be fine as is.
	OutputCSVFile = "trips.csv"         // Load it with SEED_SOURCES=file://<abs path>/testutil/fixtures/trips.csv
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{
	"tpep_pickup_datetime",
	"tpep_dropoff_datetime",
	"passenger_count",
	"PULocationID",
	"DOLocationID",
	"payment_type",
	"fare_amount",
	"tip_amount",
}

func main() {
	if err := GenerateFixtureTripsCSV(); err != nil {
		panic(fmt.Sprintf("Error generating fixture trips: %v\n", err))
	}
}

// GenerateFixtureTripsCSV writes NumTrips records shaped like the TLC yellow taxi export.
func GenerateFixtureTripsCSV() error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(projectRoot, OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, OutputCSVFile)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	src := synth.NewSource(RandomSeed)
	fakeClock := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= NumTrips; i++ {
		fakeClock = fakeClock.Add(time.Duration(synth.IntBetween(src, 1, 30)) * time.Second)

		record := tripRecord(src, fakeClock)
		if i%InvalidEveryNth == 0 {
			spoil(record, i/InvalidEveryNth)
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	fmt.Printf("Wrote %d trips to %s\n", NumTrips, outputPath)

	return nil
}

func tripRecord(src synth.Source, pickup time.Time) []string {
	dropoff := pickup.Add(time.Duration(synth.IntBetween(src, 3, 60)) * time.Minute)

	return []string{
		pickup.Format(timeLayout),
		dropoff.Format(timeLayout),
		strconv.Itoa(synth.IntBetween(src, 0, 6)),
		strconv.Itoa(synth.IntBetween(src, marketplace.MinZoneID, marketplace.MaxZoneID)),
		strconv.Itoa(synth.IntBetween(src, marketplace.MinZoneID, marketplace.MaxZoneID)),
		strconv.Itoa(synth.IntBetween(src, 1, 4)),
		strconv.FormatFloat(marketplace.Round2(synth.Uniform(src, 3, 80)), 'f', 2, 64),
		strconv.FormatFloat(marketplace.Round2(synth.Uniform(src, 0, 15)), 'f', 2, 64),
	}
}

// spoil breaks a record the way real exports are broken.
func spoil(record []string, n int) {
	switch n % 4 {
	case 0:
		record[3] = "" // missing pickup zone
	case 1:
		record[4] = "300" // unknown zone
	case 2:
		record[6] = "-4.50" // refund
	default:
		record[0] = "not a timestamp"
	}
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (no go.mod found)")
}
