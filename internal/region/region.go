package region

import (
	"encoding/xml"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ROI is the canonical region of interest every analysis module works
// against: either a polygon or a point expanded to a bounding box.
type ROI struct {
	Geometry orb.Geometry
}

func NewPolygonROI(p orb.Polygon) *ROI {
	return &ROI{Geometry: p}
}

func (r *ROI) Bound() orb.Bound {
	return r.Geometry.Bound()
}

// Centroid returns the lon/lat center of the ROI. For degenerate polygons it
// falls back to the bound center.
func (r *ROI) Centroid() orb.Point {
	if p, ok := r.Geometry.(orb.Polygon); ok {
		centroid, area := planar.CentroidArea(p)
		if area > 0 {
			return centroid
		}
	}
	return r.Bound().Center()
}

func (r *ROI) GeoJSON() *geojson.Geometry {
	return geojson.NewGeometry(r.Geometry)
}

var coordinatesPattern = regexp.MustCompile(`(?is)<coordinates>(.*?)</coordinates>`)

// ParseKML extracts the first coordinate ring from KML content. A permissive
// regex scan runs first; if it finds nothing, the markup tree is walked with
// a structured parser. Returns nil when fewer than 3 coordinate pairs are
// recovered, it never fails hard on malformed input.
func ParseKML(content []byte) *ROI {
	if match := coordinatesPattern.FindSubmatch(content); match != nil {
		if roi := processCoords(string(match[1])); roi != nil {
			return roi
		}
	}
	return parseKMLTree(content)
}

// parseKMLTree is the fallback: decode the XML element stream and take the
// first element whose tag ends in "coordinates".
func parseKMLTree(content []byte) *ROI {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))
	decoder.Strict = false
	inCoordinates := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil
		}
		switch t := token.(type) {
		case xml.StartElement:
			if strings.HasSuffix(strings.ToLower(t.Name.Local), "coordinates") {
				inCoordinates = true
			}
		case xml.EndElement:
			inCoordinates = false
		case xml.CharData:
			if inCoordinates {
				if roi := processCoords(string(t)); roi != nil {
					return roi
				}
			}
		}
	}
}

// processCoords parses a whitespace-separated list of "lon,lat[,alt]" tuples
// into a polygon ring. Tuples with fewer than two fields are skipped.
func processCoords(text string) *ROI {
	var ring orb.Ring
	for _, raw := range strings.Fields(strings.TrimSpace(text)) {
		parts := strings.Split(raw, ",")
		if len(parts) < 2 {
			continue
		}
		lon, errLon := strconv.ParseFloat(parts[0], 64)
		lat, errLat := strconv.ParseFloat(parts[1], 64)
		if errLon != nil || errLat != nil {
			continue
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	if len(distinctPoints(ring)) < 3 {
		return nil
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return NewPolygonROI(orb.Polygon{ring})
}

func distinctPoints(ring orb.Ring) []orb.Point {
	seen := make(map[orb.Point]bool)
	var out []orb.Point
	for _, p := range ring {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

const metersPerDegreeLat = 111_000.0

// PointBuffer builds a bounding-box ROI around a point. Radius is in meters.
func PointBuffer(lat, lon, radiusMeters float64) *ROI {
	dLat := radiusMeters / metersPerDegreeLat
	dLon := radiusMeters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	bound := orb.Bound{
		Min: orb.Point{lon - dLon, lat - dLat},
		Max: orb.Point{lon + dLon, lat + dLat},
	}
	return NewPolygonROI(bound.ToPolygon())
}

// FromDrawnGeometry converts a boundary description captured from an
// interactive drawing surface. Points and polygons are accepted; anything
// else is rejected.
func FromDrawnGeometry(g *geojson.Geometry) (*ROI, error) {
	if g == nil {
		return nil, fmt.Errorf("no drawn geometry")
	}
	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		if len(geom) == 0 || len(distinctPoints(geom[0])) < 3 {
			return nil, fmt.Errorf("drawn polygon has fewer than 3 distinct vertices")
		}
		return NewPolygonROI(geom), nil
	case orb.Point:
		// A bare point gets a default 1 km working area.
		return PointBuffer(geom.Lat(), geom.Lon(), 1000), nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}
