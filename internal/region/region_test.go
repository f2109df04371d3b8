package region

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmlDocument = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>
              77.10,28.50,0 77.20,28.50,0 77.20,28.60,0 77.10,28.60,0 77.10,28.50,0
            </coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Document>
</kml>`

func TestParseKML(t *testing.T) {
	t.Run("extracts the boundary ring", func(t *testing.T) {
		roi := ParseKML([]byte(kmlDocument))
		require.NotNil(t, roi)

		polygon, ok := roi.Geometry.(orb.Polygon)
		require.True(t, ok)
		require.Len(t, polygon, 1)
		assert.Len(t, polygon[0], 5)
		assert.Equal(t, orb.Point{77.10, 28.50}, polygon[0][0])
	})

	t.Run("fast path and tree fallback agree", func(t *testing.T) {
		fast := ParseKML([]byte(kmlDocument))
		tree := parseKMLTree([]byte(kmlDocument))
		require.NotNil(t, fast)
		require.NotNil(t, tree)
		assert.Equal(t, fast.Geometry, tree.Geometry)
	})

	t.Run("namespaced coordinates tag still parses", func(t *testing.T) {
		namespaced := `<kml><Placemark><gx:coordinates>10,20 11,20 11,21 10,21</gx:coordinates></Placemark></kml>`
		roi := ParseKML([]byte(namespaced))
		require.NotNil(t, roi)
	})

	t.Run("closes an open ring", func(t *testing.T) {
		open := `<kml><coordinates>10,20 11,20 11,21</coordinates></kml>`
		roi := ParseKML([]byte(open))
		require.NotNil(t, roi)

		ring := roi.Geometry.(orb.Polygon)[0]
		assert.Equal(t, ring[0], ring[len(ring)-1])
	})

	t.Run("rejects fewer than 3 distinct vertices", func(t *testing.T) {
		degenerate := `<kml><coordinates>10,20 10,20 11,21 10,20</coordinates></kml>`
		assert.Nil(t, ParseKML([]byte(degenerate)))
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		assert.Nil(t, ParseKML([]byte("not a kml file")))
	})

	t.Run("skips malformed tuples", func(t *testing.T) {
		messy := `<kml><coordinates>10,20 bogus 11,x 11,20 11,21 10,21</coordinates></kml>`
		roi := ParseKML([]byte(messy))
		require.NotNil(t, roi)
	})
}

func TestPointBuffer(t *testing.T) {
	roi := PointBuffer(28.55, 77.15, 1000)
	require.NotNil(t, roi)

	bound := roi.Bound()
	assert.InDelta(t, 28.55, bound.Center().Lat(), 1e-9)
	assert.InDelta(t, 77.15, bound.Center().Lon(), 1e-9)

	// 1000 m at ~111 km per degree of latitude.
	latSpan := bound.Max.Lat() - bound.Min.Lat()
	assert.InDelta(t, 2*1000.0/111_000.0, latSpan, 1e-9)

	// The longitude span widens away from the equator.
	lonSpan := bound.Max.Lon() - bound.Min.Lon()
	assert.Greater(t, lonSpan, latSpan)
}

func TestCentroid(t *testing.T) {
	roi := NewPolygonROI(orb.Polygon{{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0},
	}})
	centroid := roi.Centroid()
	assert.InDelta(t, 1.0, centroid.Lon(), 1e-9)
	assert.InDelta(t, 1.0, centroid.Lat(), 1e-9)
}

func TestFromDrawnGeometry(t *testing.T) {
	t.Run("accepts a polygon", func(t *testing.T) {
		g := geojson.NewGeometry(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
		roi, err := FromDrawnGeometry(g)
		require.NoError(t, err)
		assert.NotNil(t, roi)
	})

	t.Run("buffers a bare point", func(t *testing.T) {
		g := geojson.NewGeometry(orb.Point{77.15, 28.55})
		roi, err := FromDrawnGeometry(g)
		require.NoError(t, err)

		bound := roi.Bound()
		assert.Greater(t, bound.Max.Lat(), bound.Min.Lat())
	})

	t.Run("rejects a line string", func(t *testing.T) {
		g := geojson.NewGeometry(orb.LineString{{0, 0}, {1, 1}})
		_, err := FromDrawnGeometry(g)
		assert.Error(t, err)
	})

	t.Run("rejects a degenerate polygon", func(t *testing.T) {
		g := geojson.NewGeometry(orb.Polygon{{{0, 0}, {0, 0}, {1, 1}, {0, 0}}})
		_, err := FromDrawnGeometry(g)
		assert.Error(t, err)
	})

	t.Run("rejects nil", func(t *testing.T) {
		_, err := FromDrawnGeometry(nil)
		assert.Error(t, err)
	})
}
