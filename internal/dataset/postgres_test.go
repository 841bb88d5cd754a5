package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

func pointEWKB(t *testing.T, x, y float64) []byte {
	t.Helper()
	b, err := ewkb.Marshal(geom.NewPointFlat(geom.XY, []float64{x, y}).SetSRID(4326), ewkb.NDR)
	require.NoError(t, err)
	return b
}

func TestPostgresSource_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"geoid", "tract_ce", "name", "properties", "st_asewkb"}
	mock.ExpectQuery(`FROM "geo"."census_tracts" ORDER BY geoid`).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("06075402302", "402302", "4023.02", []byte(`{"pct_foreign_born": 0.42, "foreign_born": 1830}`), pointEWKB(t, -122.4, 37.7)).
			AddRow("06075010100", "", "", []byte(`{}`), []byte{}).
			AddRow("06075010200", "010200", "", []byte(`{}`), []byte{0x01, 0x02}))

	c, err := NewPostgresSource(mock, "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Features, 3)

	first := c.Features[0]
	assert.Equal(t, "06075402302", first.Attributes["GEOID"])
	assert.Equal(t, "402302", first.Attributes["TRACTCE"])
	assert.Equal(t, "4023.02", first.Attributes["NAME"])
	assert.Equal(t, 0.42, first.Attributes["pct_foreign_born"])
	_, isPoint := first.Geometry.(*geom.Point)
	assert.True(t, isPoint)

	_, hasTract := c.Features[1].Attributes["TRACTCE"]
	assert.False(t, hasTract)
	assert.Nil(t, c.Features[1].Geometry)

	// Undecodable geometry is dropped, the row kept.
	assert.Nil(t, c.Features[2].Geometry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_CustomTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM "public"."sf_tracts"`).
		WillReturnRows(pgxmock.NewRows([]string{"geoid", "tract_ce", "name", "properties", "st_asewkb"}))

	c, err := NewPostgresSource(mock, "public.sf_tracts").Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation does not exist"))

	_, err = NewPostgresSource(mock, "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query geo.census_tracts")
}

func TestPostgresSource_BadProperties(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"geoid", "tract_ce", "name", "properties", "st_asewkb"}).
			AddRow("06075010100", "", "", []byte(`not json`), []byte{}))

	_, err = NewPostgresSource(mock, "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode properties of 06075010100")
}
