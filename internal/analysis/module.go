// Package analysis defines the uniform analysis-module abstraction: every
// module builds its remote query pipelines, derives a visualization
// descriptor and computes summary statistics behind the same interface,
// replacing per-module branching.
package analysis

import (
	"context"
	"time"

	"github.com/paulmach/orb"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
)

// Module is one analysis variant. Run executes the full pipeline for the
// session's ROI: request remote computation, post-process locally, and
// produce a displayable outcome.
type Module interface {
	Name() string
	Run(ctx context.Context, sess *session.Session) (*Outcome, error)
}

// Service is the slice of the compute client the modules depend on.
type Service interface {
	FetchRaster(ctx context.Context, req compute.ProcessRequest, bandNames []string) (*compute.Raster, error)
	Statistics(ctx context.Context, req compute.StatsRequest) (map[string]float64, error)
	Series(ctx context.Context, req compute.SeriesRequest) ([]compute.SeriesPoint, error)
}

// Stat is one labeled summary value shown next to the map.
type Stat struct {
	Label string
	Value string
}

// Outcome is everything a completed run yields for display and export.
type Outcome struct {
	Title       string
	Grid        [][]float64 // analysis layer; NaN pixels are masked out
	Bound       orb.Bound
	Vis         compute.VisParams
	Stats       []Stat
	Series      []compute.SeriesPoint
	SeriesLabel string
	Warnings    []string

	// Export, when set, is the prepared full-resolution batch job for this
	// result. Video is an optional timelapse render job.
	Export *compute.BatchRequest
	Video  *compute.VideoRequest
}

// OutputSize derives the process-request raster dimensions from the ROI
// extent at the given resolution.
func OutputSize(bound orb.Bound, resolutionMeters float64) (int, int) {
	width := compute.CalculatePixels(bound.Max[0]-bound.Min[0], resolutionMeters)
	height := compute.CalculatePixels(bound.Max[1]-bound.Min[1], resolutionMeters)
	return width, height
}

// WithinWindow reports whether an acquisition date falls inside a requested
// time window, inclusive of both edges.
func WithinWindow(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
