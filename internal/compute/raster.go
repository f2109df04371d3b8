package compute

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/terrasight/terrasight/internal/properties"
	"github.com/terrasight/terrasight/internal/utils"
)

// Raster is a processed image downloaded from the compute service, opened
// with GDAL and fully read into memory. Band order follows the evalscript's
// output declaration.
type Raster struct {
	Path         string
	Width        int
	Height       int
	bands        map[string][][]float64
	geoTransform [6]float64
}

// NewRaster wraps in-memory band grids in a Raster. All grids must share the
// first band's dimensions.
func NewRaster(bands map[string][][]float64, geoTransform [6]float64) *Raster {
	var width, height int
	for _, grid := range bands {
		height = len(grid)
		if height > 0 {
			width = len(grid[0])
		}
		break
	}
	return &Raster{
		Path:         "memory",
		Width:        width,
		Height:       height,
		bands:        bands,
		geoTransform: geoTransform,
	}
}

// FetchRaster runs a process request, caches the returned GeoTIFF under
// data/rasters keyed by the request hash, and reads the named bands.
func (c *Client) FetchRaster(ctx context.Context, req ProcessRequest, bandNames []string) (*Raster, error) {
	cacheDir := filepath.Join(properties.RootPath(), "data", "rasters")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create raster cache directory: %v", err)
	}

	path := filepath.Join(cacheDir, requestKey(req.payload())+".tif")
	if _, err := os.Stat(path); err != nil {
		imageBytes, err := c.Process(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, imageBytes, 0644); err != nil {
			return nil, fmt.Errorf("failed to write raster file: %v", err)
		}
	}

	return OpenRaster(path, bandNames)
}

// OpenRaster reads a GeoTIFF's named bands into memory. GDAL handles are not
// goroutine safe, so the read is serialized.
func OpenRaster(path string, bandNames []string) (*Raster, error) {
	var raster *Raster
	var err error
	utils.ExecuteWithMutex(func() {
		raster, err = openRaster(path, bandNames)
	})
	return raster, err
}

func openRaster(path string, bandNames []string) (*Raster, error) {
	ds, err := godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal error %d: %s", code, msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer ds.Close()

	width := ds.Structure().SizeX
	height := ds.Structure().SizeY

	geoTransform, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %w", err)
	}

	bandsData := ds.Bands()
	if len(bandsData) < len(bandNames) {
		return nil, fmt.Errorf("raster %s has %d bands, expected %d", path, len(bandsData), len(bandNames))
	}

	readBand := func(band godal.Band) ([][]float64, error) {
		data := make([]float64, width*height)
		if err := band.Read(0, 0, data, width, height); err != nil {
			return nil, err
		}
		rows := make([][]float64, height)
		for i := range rows {
			rows[i] = data[i*width : (i+1)*width]
		}
		return rows, nil
	}

	bands := make(map[string][][]float64, len(bandNames))
	for i, name := range bandNames {
		rows, err := readBand(bandsData[i])
		if err != nil {
			return nil, fmt.Errorf("failed to read data for band %s: %w", name, err)
		}
		bands[name] = rows
	}

	return &Raster{
		Path:         path,
		Width:        width,
		Height:       height,
		bands:        bands,
		geoTransform: geoTransform,
	}, nil
}

// Band returns the pixel grid of a named band.
func (r *Raster) Band(name string) ([][]float64, error) {
	rows, ok := r.bands[name]
	if !ok {
		return nil, fmt.Errorf("raster %s has no band %q", r.Path, name)
	}
	return rows, nil
}

// PixelAreaM2 approximates the ground area of one pixel at the raster
// center, good enough for hectare reporting over analysis-scale regions.
func (r *Raster) PixelAreaM2() float64 {
	centerLat := r.geoTransform[3] + r.geoTransform[5]*float64(r.Height)/2
	dxMeters := math.Abs(r.geoTransform[1]) * 111_000.0 * math.Cos(centerLat*math.Pi/180)
	dyMeters := math.Abs(r.geoTransform[5]) * 111_000.0
	return dxMeters * dyMeters
}

// LatLonAt converts pixel coordinates to geographic coordinates using the
// raster's geotransform.
func (r *Raster) LatLonAt(x, y int) (float64, float64) {
	lon := r.geoTransform[0] + r.geoTransform[1]*(float64(x)+0.5)
	lat := r.geoTransform[3] + r.geoTransform[5]*(float64(y)+0.5)
	return lat, lon
}

func requestKey(payload any) string {
	data, _ := json.Marshal(payload)
	h := sha1.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
