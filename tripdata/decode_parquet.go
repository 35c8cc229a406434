package tripdata

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/parquet-go/parquet-go"
)

const parquetReadBatch = 1024

type timeUnit int

const (
	unitMicros timeUnit = iota
	unitMillis
	unitNanos
)

type parquetBinding struct {
	column column
	unit   timeUnit
}

// decodeParquet reads every row group of a flat parquet file.
// Only top-level columns with a known name are bound, everything else is ignored.
func decodeParquet(r io.ReaderAt, size int64) ([]RawTrip, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	bindings := bindParquetColumns(file.Schema())
	trips := make([]RawTrip, 0, file.NumRows())
	buf := make([]parquet.Row, parquetReadBatch)

	for _, rowGroup := range file.RowGroups() {
		rows := rowGroup.Rows()

		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				trips = append(trips, tripFromParquetRow(row, bindings))
			}

			if readErr != nil {
				_ = rows.Close()

				if errors.Is(readErr, io.EOF) {
					break
				}

				return nil, fmt.Errorf("read parquet rows: %w", readErr)
			}
		}
	}

	return trips, nil
}

func bindParquetColumns(schema *parquet.Schema) map[int]parquetBinding {
	bindings := make(map[int]parquetBinding)

	for _, path := range schema.Columns() {
		if len(path) != 1 {
			continue
		}

		c := lookupColumn(path[0])
		if c == colUnknown {
			continue
		}

		leaf, ok := schema.Lookup(path...)
		if !ok {
			continue
		}

		bindings[leaf.ColumnIndex] = parquetBinding{column: c, unit: timestampUnit(leaf.Node)}
	}

	return bindings
}

func timestampUnit(node parquet.Node) timeUnit {
	logical := node.Type().LogicalType()
	if logical == nil || logical.Timestamp == nil {
		return unitMicros
	}

	switch {
	case logical.Timestamp.Unit.Millis != nil:
		return unitMillis
	case logical.Timestamp.Unit.Nanos != nil:
		return unitNanos
	default:
		return unitMicros
	}
}

func tripFromParquetRow(row parquet.Row, bindings map[int]parquetBinding) RawTrip {
	var trip RawTrip

	for _, value := range row {
		binding, ok := bindings[value.Column()]
		if !ok || value.IsNull() {
			continue
		}

		if binding.column.isTime() {
			if t, ok := parquetTime(value, binding.unit); ok {
				trip.setTime(binding.column, t)
			}

			continue
		}

		if v, ok := parquetNumber(value); ok {
			trip.setNumber(binding.column, v)
		}
	}

	return trip
}

func parquetNumber(value parquet.Value) (float64, bool) {
	var v float64

	switch value.Kind() {
	case parquet.Int32:
		v = float64(value.Int32())
	case parquet.Int64:
		v = float64(value.Int64())
	case parquet.Float:
		v = float64(value.Float())
	case parquet.Double:
		v = value.Double()
	case parquet.ByteArray:
		return parseTextNumber(string(value.ByteArray()))
	default:
		return 0, false
	}

	if math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

func parquetTime(value parquet.Value, unit timeUnit) (time.Time, bool) {
	switch value.Kind() {
	case parquet.Int64:
		raw := value.Int64()

		switch unit {
		case unitMillis:
			return time.UnixMilli(raw).UTC(), true
		case unitNanos:
			return time.Unix(0, raw).UTC(), true
		default:
			return time.UnixMicro(raw).UTC(), true
		}

	case parquet.ByteArray:
		return parseTextTime(string(value.ByteArray()))

	default:
		return time.Time{}, false
	}
}
