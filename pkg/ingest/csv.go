// Package ingest loads trip announcements from the ridesharing CSV dataset.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lintang-b-s/ridematch/pkg/participant"
	"go.uber.org/zap"
)

const (
	colID          = "Announcement"
	colAnnounced   = "Announcementtime"
	colEarliest    = "Earliesttime"
	colLatest      = "Latesttime"
	colOriginLat   = "Origin_Latitude"
	colOriginLon   = "Origin_Longitude"
	colDestLat     = "Destination_Latitude"
	colDestLon     = "Destination_Longitude"
	colDistanceKm  = "Distance_Car-Peak"
	colDurationMin = "Time_Car-Peak"
)

var requiredColumns = []string{
	colID, colAnnounced, colEarliest, colLatest,
	colOriginLat, colOriginLon, colDestLat, colDestLon,
	colDistanceKm, colDurationMin,
}

var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedField = errors.New("malformed field")
)

type Options struct {
	// RiderIDThreshold splits roles: identifiers at or above it are riders.
	RiderIDThreshold int64
	// MaxDrivers and MaxRiders keep the earliest announcements, <= 0 keeps all.
	MaxDrivers int
	MaxRiders  int
}

func DefaultOptions() Options {
	return Options{
		RiderIDThreshold: 100000,
		MaxDrivers:       500,
		MaxRiders:        500,
	}
}

type Dataset struct {
	Drivers []participant.Participant
	Riders  []participant.Participant
	// Errors holds the rows that could not be parsed, they are skipped.
	Errors []*participant.DataError
	Rows   int
}

func LoadFile(path string, opts Options, log *zap.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, opts, log)
}

// ReadCSV parses r, splits drivers from riders by identifier, orders each side by
// announcement time (stable) and truncates to the requested sizes.
func ReadCSV(r io.Reader, opts Options, log *zap.Logger) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	ds := &Dataset{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.Rows++
				ds.Errors = append(ds.Errors, &participant.DataError{
					Field: fmt.Sprintf("line %d", parseErr.Line),
					Err:   fmt.Errorf("%w: %v", ErrMalformedField, parseErr.Err),
				})
				continue
			}
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		ds.Rows++

		p, dataErr := parseRecord(record, index, opts.RiderIDThreshold)
		if dataErr != nil {
			ds.Errors = append(ds.Errors, dataErr)
			continue
		}
		if p.Role == participant.Driver {
			ds.Drivers = append(ds.Drivers, p)
		} else {
			ds.Riders = append(ds.Riders, p)
		}
	}

	ds.Drivers = earliest(ds.Drivers, opts.MaxDrivers)
	ds.Riders = earliest(ds.Riders, opts.MaxRiders)

	for _, e := range ds.Errors {
		log.Warn("skipping dataset row", zap.Int64("id", e.ID), zap.Error(e))
	}
	log.Info("dataset loaded",
		zap.Int("rows", ds.Rows),
		zap.Int("drivers", len(ds.Drivers)),
		zap.Int("riders", len(ds.Riders)),
		zap.Int("malformed", len(ds.Errors)))
	return ds, nil
}

func parseRecord(record []string, index map[string]int, threshold int64) (participant.Participant, *participant.DataError) {
	var p participant.Participant

	rawID := field(record, index, colID)
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		// some exports write integral ids as floats
		f, ferr := strconv.ParseFloat(rawID, 64)
		if ferr != nil || f != float64(int64(f)) {
			return p, &participant.DataError{Field: colID, Err: fmt.Errorf("%w: %q", ErrMalformedField, rawID)}
		}
		id = int64(f)
	}
	p.ID = id
	p.Role = participant.Driver
	if id >= threshold {
		p.Role = participant.Rider
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{colAnnounced, &p.Announced},
		{colEarliest, &p.Earliest},
		{colLatest, &p.Latest},
		{colOriginLat, &p.Origin.Lat},
		{colOriginLon, &p.Origin.Lon},
		{colDestLat, &p.Destination.Lat},
		{colDestLon, &p.Destination.Lon},
		{colDistanceKm, &p.DistanceKm},
		{colDurationMin, &p.DurationMin},
	}
	for _, f := range floats {
		raw := field(record, index, f.col)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, &participant.DataError{ID: id, Role: p.Role, Field: f.col,
				Err: fmt.Errorf("%w: %q", ErrMalformedField, raw)}
		}
		*f.dst = v
	}
	return p, nil
}

func field(record []string, index map[string]int, col string) string {
	i := index[col]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func earliest(ps []participant.Participant, limit int) []participant.Participant {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Announced < ps[j].Announced
	})
	if limit > 0 && len(ps) > limit {
		ps = ps[:limit]
	}
	return ps
}
