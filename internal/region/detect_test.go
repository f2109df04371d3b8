package region

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/terrasight/terrasight/internal/compute"
)

type fakeResolver struct {
	features []compute.Feature
	err      error
	calls    int
}

func (f *fakeResolver) Features(_ context.Context, _ compute.FeatureRequest) ([]compute.Feature, error) {
	f.calls++
	return f.features, f.err
}

func testROI(lon, lat float64) *ROI {
	return NewPolygonROI(orb.Polygon{{
		{lon, lat}, {lon + 0.1, lat}, {lon + 0.1, lat + 0.1}, {lon, lat + 0.1}, {lon, lat},
	}})
}

func TestDetectAdminRegion(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	t.Run("returns the enclosing region name", func(t *testing.T) {
		resolver := &fakeResolver{features: []compute.Feature{
			{Properties: map[string]any{"ADM1_NAME": "Rajasthan"}},
		}}
		name := DetectAdminRegion(context.Background(), resolver, testROI(73.0, 26.0))
		assert.Equal(t, "Rajasthan", name)
	})

	t.Run("caches by centroid", func(t *testing.T) {
		resolver := &fakeResolver{features: []compute.Feature{
			{Properties: map[string]any{"ADM1_NAME": "Kerala"}},
		}}
		roi := testROI(76.0, 10.0)

		DetectAdminRegion(context.Background(), resolver, roi)
		DetectAdminRegion(context.Background(), resolver, roi)
		assert.Equal(t, 1, resolver.calls)
	})

	t.Run("degrades to unknown on query failure", func(t *testing.T) {
		resolver := &fakeResolver{err: fmt.Errorf("boom")}
		name := DetectAdminRegion(context.Background(), resolver, testROI(80.0, 20.0))
		assert.Equal(t, "unknown", name)
	})

	t.Run("degrades to unknown when no feature intersects", func(t *testing.T) {
		resolver := &fakeResolver{}
		name := DetectAdminRegion(context.Background(), resolver, testROI(-150.0, 0.0))
		assert.Equal(t, "unknown", name)
	})

	t.Run("degrades to unknown when the name property is missing", func(t *testing.T) {
		resolver := &fakeResolver{features: []compute.Feature{
			{Properties: map[string]any{"ADM0_NAME": "India"}},
		}}
		name := DetectAdminRegion(context.Background(), resolver, testROI(81.0, 21.0))
		assert.Equal(t, "unknown", name)
	})

	t.Run("nil roi is unknown", func(t *testing.T) {
		name := DetectAdminRegion(context.Background(), &fakeResolver{}, nil)
		assert.Equal(t, "unknown", name)
	})
}
