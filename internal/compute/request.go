package compute

import (
	"sort"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Mosaicking strategies understood by the process endpoint.
const (
	MosaicMostRecent = "mostRecent"
	MosaicMedian     = "median"
	MosaicMean       = "mean"
	MosaicMin        = "min"
	MosaicMosaic     = "mosaic"
	MosaicSum        = "sum"
)

// Reducers understood by the statistics and series endpoints.
const (
	ReduceMean   = "mean"
	ReduceMedian = "median"
	ReduceMax    = "max"
	ReduceMin    = "min"
	ReduceMinMax = "minMax"
	ReduceSum    = "sum"
	ReduceFirst  = "first"
)

// DataFilter narrows the scene selection of a dataset before any band math
// runs. Zero values are omitted from the request.
type DataFilter struct {
	From            time.Time
	To              time.Time
	MaxCloudCover   float64
	OrbitPass       string // ASCENDING, DESCENDING or empty for both
	Polarisation    string
	InstrumentMode  string
	ResolutionMeter float64
}

func (f DataFilter) payload() map[string]any {
	filter := map[string]any{
		"timeRange": map[string]string{
			"from": f.From.Format(time.RFC3339),
			"to":   f.To.Format(time.RFC3339),
		},
	}
	if f.MaxCloudCover > 0 {
		filter["maxCloudCoverage"] = f.MaxCloudCover
	}
	if f.OrbitPass != "" {
		filter["orbitPass"] = f.OrbitPass
	}
	if f.Polarisation != "" {
		filter["polarisation"] = f.Polarisation
	}
	if f.InstrumentMode != "" {
		filter["instrumentMode"] = f.InstrumentMode
	}
	if f.ResolutionMeter > 0 {
		filter["resolutionMeters"] = f.ResolutionMeter
	}
	return filter
}

// ProcessRequest describes one image pipeline: filter scenes, run the
// evalscript over their bands, mosaic, clip to the bounds and render.
type ProcessRequest struct {
	Dataset    string
	Bounds     *geojson.Geometry
	Filter     DataFilter
	Evalscript string
	Mosaicking string
	Width      int
	Height     int
	Format     string // defaults to image/tiff (FLOAT32)
}

func (r ProcessRequest) payload() map[string]any {
	format := r.Format
	if format == "" {
		format = "image/tiff"
	}
	mosaicking := r.Mosaicking
	if mosaicking == "" {
		mosaicking = MosaicMostRecent
	}
	return map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{
				"geometry": r.Bounds,
			},
			"data": []map[string]any{
				{
					"type":       r.Dataset,
					"dataFilter": r.Filter.payload(),
				},
			},
		},
		"output": map[string]any{
			"width":  r.Width,
			"height": r.Height,
			"responses": []map[string]any{
				{
					"identifier": "default",
					"format":     map[string]string{"type": format},
				},
			},
		},
		"evalscript": r.Evalscript,
		"mosaicking": mosaicking,
	}
}

// StatsRequest reduces a pipeline over the bounds to named scalars.
type StatsRequest struct {
	Dataset    string
	Bounds     *geojson.Geometry
	Filter     DataFilter
	Evalscript string
	Mosaicking string
	Reducer    string
	ScaleM     float64
}

func (r StatsRequest) payload() map[string]any {
	mosaicking := r.Mosaicking
	if mosaicking == "" {
		mosaicking = MosaicMostRecent
	}
	return map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{"geometry": r.Bounds},
			"data": []map[string]any{
				{"type": r.Dataset, "dataFilter": r.Filter.payload()},
			},
		},
		"evalscript": r.Evalscript,
		"mosaicking": mosaicking,
		"aggregation": map[string]any{
			"reducer": r.Reducer,
			"scale":   r.ScaleM,
		},
	}
}

// SeriesRequest reduces a pipeline per scene, yielding one dated scalar per
// acquisition.
type SeriesRequest struct {
	Dataset    string
	Bounds     *geojson.Geometry
	Filter     DataFilter
	Evalscript string
	Reducer    string
	ScaleM     float64
}

func (r SeriesRequest) payload() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{"geometry": r.Bounds},
			"data": []map[string]any{
				{"type": r.Dataset, "dataFilter": r.Filter.payload()},
			},
		},
		"evalscript": r.Evalscript,
		"aggregation": map[string]any{
			"reducer": r.Reducer,
			"scale":   r.ScaleM,
		},
	}
}

// FeatureRequest spatially filters a vector collection.
type FeatureRequest struct {
	Collection string
	Intersects *geojson.Geometry
	Limit      int
}

func (r FeatureRequest) payload() map[string]any {
	limit := r.Limit
	if limit == 0 {
		limit = 1
	}
	return map[string]any{
		"collection": r.Collection,
		"intersects": r.Intersects,
		"limit":      limit,
	}
}

// BatchRequest submits a pipeline as an asynchronous full-resolution export
// to remote storage.
type BatchRequest struct {
	Process     ProcessRequest
	Description string
	Folder      string
	ScaleM      float64
}

func (r BatchRequest) payload() map[string]any {
	return map[string]any{
		"process":     r.Process.payload(),
		"description": r.Description,
		"folder":      r.Folder,
		"scale":       r.ScaleM,
	}
}

// VideoRequest renders a time-stepped animation of a pipeline.
type VideoRequest struct {
	Dataset         string
	Bounds          *geojson.Geometry
	Filter          DataFilter
	Evalscript      string
	Description     string
	Frequency       string // e.g. "year", "month"
	Reducer         string
	FramesPerSecond int
	Dimensions      int
	Vis             VisParams
}

func (r VideoRequest) payload() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{"geometry": r.Bounds},
			"data": []map[string]any{
				{"type": r.Dataset, "dataFilter": r.Filter.payload()},
			},
		},
		"evalscript":      r.Evalscript,
		"description":     r.Description,
		"frequency":       r.Frequency,
		"reducer":         r.Reducer,
		"framesPerSecond": r.FramesPerSecond,
		"dimensions":      r.Dimensions,
		"visualization": map[string]any{
			"min":     r.Vis.Min,
			"max":     r.Vis.Max,
			"palette": r.Vis.Palette,
		},
	}
}

// VisParams describes how an analysis layer is stretched and colored for
// display: a value range with a palette, or discrete classes with labels.
type VisParams struct {
	Min         float64
	Max         float64
	Palette     []string
	Categorical bool
	ClassNames  []string
	Label       string
}

// SortSeries orders points chronologically ascending, in place.
func SortSeries(points []SeriesPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

const maxOutputPixels = 2500

// CalculatePixels converts a geographic distance in degrees to output pixels
// at the given resolution, clamped to the service's allowed range.
func CalculatePixels(distanceDeg, resolutionMeters float64) int {
	pixels := int(distanceDeg * (111_000.0 / resolutionMeters))
	if pixels < 1 {
		return 1
	}
	if pixels > maxOutputPixels {
		return maxOutputPixels
	}
	return pixels
}
