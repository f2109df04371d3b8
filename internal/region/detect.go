package region

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/terrasight/terrasight/internal/cache"
	"github.com/terrasight/terrasight/internal/compute"
)

// BoundaryResolver is the slice of the compute client the detector needs.
type BoundaryResolver interface {
	Features(ctx context.Context, req compute.FeatureRequest) ([]compute.Feature, error)
}

// DetectAdminRegion reverse-geocodes the ROI centroid against the level-1
// administrative boundary layer and returns the enclosing region's name. Any
// failure degrades to "unknown"; detection must never block an analysis.
func DetectAdminRegion(ctx context.Context, resolver BoundaryResolver, roi *ROI) string {
	if roi == nil {
		return "unknown"
	}

	centroid := roi.Centroid()

	detectionCache := cache.NewFileCache[string]("admin-regions")
	key := detectionCache.GenerateKey(fmt.Sprintf("%.4f", centroid.Lat()), fmt.Sprintf("%.4f", centroid.Lon()))
	if name, ok := detectionCache.Get(key); ok {
		return name
	}

	features, err := resolver.Features(ctx, compute.FeatureRequest{
		Collection: compute.CollectionAdminLevel1,
		Intersects: geojson.NewGeometry(orb.Point(centroid)),
		Limit:      1,
	})
	if err != nil || len(features) == 0 {
		return "unknown"
	}

	name, ok := features[0].Properties["ADM1_NAME"].(string)
	if !ok || name == "" {
		return "unknown"
	}

	_ = detectionCache.Set(key, name)
	return name
}
