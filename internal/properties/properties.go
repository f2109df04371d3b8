package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// Credentials for the remote geospatial compute service. All raster and
// vector computation is delegated there; the client refuses to start without
// them.
func ComputeClientID() string {
	return os.Getenv("TERRASIGHT_CLIENT_ID")
}

func ComputeClientSecret() string {
	return os.Getenv("TERRASIGHT_CLIENT_SECRET")
}

func ComputeTokenURL() string {
	return os.Getenv("TERRASIGHT_TOKEN_URL")
}

func ComputeBaseURL() string {
	if url := os.Getenv("TERRASIGHT_COMPUTE_URL"); url != "" {
		return url
	}
	return "https://compute.terrasight.earth/api/v1"
}

// Destination folder for asynchronous full-resolution GeoTIFF export jobs.
func ExportFolder() string {
	if folder := os.Getenv("TERRASIGHT_EXPORT_FOLDER"); folder != "" {
		return folder
	}
	return "TerraSight_Exports"
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
