package ingest

import (
	"strings"
	"testing"

	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const header = "Announcement,Announcementtime,Earliesttime,Latesttime,Origin_Latitude,Origin_Longitude," +
	"Destination_Latitude,Destination_Longitude,Distance_Car-Peak,Time_Car-Peak\n"

func TestReadCSVSplitsSortsAndTruncates(t *testing.T) {
	data := header +
		"3,420,430,500,52.37,4.89,52.30,4.95,11.2,21\n" +
		"1,400,410,480,52.36,4.90,52.31,4.93,9.5,18\n" +
		"100002,405,415,470,52.35,4.88,52.33,4.91,4.1,9\n" +
		"2,400,405,490,52.38,4.87,52.32,4.92,10.0,19\n" +
		"100001,390,400,460,52.36,4.89,52.34,4.90,3.0,7\n" +
		"100000,395,400,460,52.36,4.89,52.34,4.90,3.0,7\n"

	opts := DefaultOptions()
	opts.MaxDrivers = 2
	ds, err := ReadCSV(strings.NewReader(data), opts, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 6, ds.Rows)
	assert.Empty(t, ds.Errors)

	// ties on announcement time keep file order
	require.Len(t, ds.Drivers, 2)
	assert.Equal(t, int64(1), ds.Drivers[0].ID)
	assert.Equal(t, int64(2), ds.Drivers[1].ID)

	require.Len(t, ds.Riders, 3)
	assert.Equal(t, []int64{100001, 100000, 100002},
		[]int64{ds.Riders[0].ID, ds.Riders[1].ID, ds.Riders[2].ID})
	for _, r := range ds.Riders {
		assert.Equal(t, participant.Rider, r.Role)
	}

	d := ds.Drivers[0]
	assert.Equal(t, participant.Driver, d.Role)
	assert.Equal(t, 400.0, d.Announced)
	assert.Equal(t, 410.0, d.Earliest)
	assert.Equal(t, 480.0, d.Latest)
	assert.Equal(t, 52.36, d.Origin.Lat)
	assert.Equal(t, 4.90, d.Origin.Lon)
	assert.Equal(t, 52.31, d.Destination.Lat)
	assert.Equal(t, 4.93, d.Destination.Lon)
	assert.Equal(t, 9.5, d.DistanceKm)
	assert.Equal(t, 18.0, d.DurationMin)
}

func TestReadCSVColumnOrderByHeader(t *testing.T) {
	data := "Time_Car-Peak,Distance_Car-Peak,Announcement,Announcementtime,Earliesttime,Latesttime," +
		"Origin_Latitude,Origin_Longitude,Destination_Latitude,Destination_Longitude,Extra\n" +
		"12,6.5,7,400,410,470,1,2,3,4,ignored\n"

	ds, err := ReadCSV(strings.NewReader(data), DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, ds.Drivers, 1)
	assert.Equal(t, int64(7), ds.Drivers[0].ID)
	assert.Equal(t, 12.0, ds.Drivers[0].DurationMin)
	assert.Equal(t, 6.5, ds.Drivers[0].DistanceKm)
}

func TestReadCSVMalformedRows(t *testing.T) {
	testCases := []struct {
		name      string
		row       string
		wantField string
	}{
		{name: "bad id", row: "abc,400,410,470,1,2,3,4,5,6\n", wantField: colID},
		{name: "fractional id", row: "7.5,400,410,470,1,2,3,4,5,6\n", wantField: colID},
		{name: "bad latitude", row: "7,400,410,470,north,2,3,4,5,6\n", wantField: colOriginLat},
		{name: "empty duration", row: "7,400,410,470,1,2,3,4,5,\n", wantField: colDurationMin},
		{name: "short row", row: "7,400,410\n", wantField: "line 3"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			data := header + "1,400,410,470,1,2,3,4,5,6\n" + tt.row
			ds, err := ReadCSV(strings.NewReader(data), DefaultOptions(), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, 2, ds.Rows)
			assert.Len(t, ds.Drivers, 1)
			require.Len(t, ds.Errors, 1)
			assert.Equal(t, tt.wantField, ds.Errors[0].Field)
			assert.ErrorIs(t, ds.Errors[0], ErrMalformedField)
		})
	}
}

func TestReadCSVFloatIDs(t *testing.T) {
	data := header + "100003.0,400,410,470,1,2,3,4,5,6\n"
	ds, err := ReadCSV(strings.NewReader(data), DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, ds.Riders, 1)
	assert.Equal(t, int64(100003), ds.Riders[0].ID)
}

func TestReadCSVMissingColumn(t *testing.T) {
	data := "Announcement,Announcementtime\n1,400\n"
	_, err := ReadCSV(strings.NewReader(data), DefaultOptions(), zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCSVNoLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < 600; i++ {
		sb.WriteString("1,400,410,470,1,2,3,4,5,6\n")
	}
	opts := DefaultOptions()

	ds, err := ReadCSV(strings.NewReader(sb.String()), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, ds.Drivers, 500)

	opts.MaxDrivers = 0
	ds, err = ReadCSV(strings.NewReader(sb.String()), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, ds.Drivers, 600)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.csv", DefaultOptions(), zap.NewNop())
	assert.Error(t, err)
}
