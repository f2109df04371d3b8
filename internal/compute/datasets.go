package compute

// Dataset identifiers of the compute service's catalog.
const (
	DatasetS2SR        = "sentinel-2-l2a"
	DatasetS1GRD       = "sentinel-1-grd"
	DatasetCHIRPSDaily = "chirps-daily"
	DatasetCHIRPSPent  = "chirps-pentad"
	DatasetGPMImerg    = "gpm-imerg"
	DatasetSRTM        = "srtm-dem"
	DatasetHydroFlow   = "hydrosheds-flow-accumulation"
	DatasetHydroDEM    = "hydrosheds-void-filled-dem"
	DatasetSoilTexture = "openlandmap-soil-texture-class"
	DatasetWorldCover  = "esa-worldcover-v100"
	DatasetSurfaceWtr  = "jrc-global-surface-water"

	// Vector collections served by the features endpoint.
	CollectionAdminLevel1 = "gaul-admin-level1"
)
