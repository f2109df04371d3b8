package output

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/notification"
	"github.com/terrasight/terrasight/internal/properties"
)

const exportTimeout = 5 * time.Minute

var exportPool = workerpool.New(4)

// SubmitExport queues a full-resolution GeoTIFF export on the compute
// service without blocking the session. The job id is reported through
// the notification channel when the submission completes.
func SubmitExport(client *compute.Client, request compute.BatchRequest) {
	if request.Folder == "" {
		request.Folder = properties.ExportFolder()
	}
	exportPool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		jobID, err := client.SubmitBatch(ctx, request)
		if err != nil {
			fmt.Printf("\033[31mExport submission failed: %s\033[0m\n", err.Error())
			notification.SendDiscordErrorNotification(fmt.Sprintf("TerraSight\n\nExport submission failed for %s: %s", request.Description, err.Error()))
			return
		}

		fmt.Printf("\033[32mExport submitted. Job id: %s. The GeoTIFF will arrive in folder %q.\033[0m\n", jobID, request.Folder)
		notification.SendDiscordSuccessNotification(fmt.Sprintf("TerraSight\n\nExport %s submitted with job id %s", request.Description, jobID))
	})
}

// SubmitVideo queues a timelapse render the same way.
func SubmitVideo(client *compute.Client, request compute.VideoRequest) {
	exportPool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		jobID, err := client.SubmitVideo(ctx, request)
		if err != nil {
			fmt.Printf("\033[31mTimelapse submission failed: %s\033[0m\n", err.Error())
			notification.SendDiscordErrorNotification(fmt.Sprintf("TerraSight\n\nTimelapse submission failed for %s: %s", request.Description, err.Error()))
			return
		}

		fmt.Printf("\033[32mTimelapse submitted. Job id: %s.\033[0m\n", jobID)
		notification.SendDiscordSuccessNotification(fmt.Sprintf("TerraSight\n\nTimelapse %s submitted with job id %s", request.Description, jobID))
	})
}

// WaitForExports blocks until queued export submissions have drained.
func WaitForExports() {
	exportPool.StopWait()
}
