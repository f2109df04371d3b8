package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/notification"
	"github.com/terrasight/terrasight/internal/session"
	"github.com/terrasight/terrasight/output"
)

var (
	computeClient *compute.Client
	activeSession *session.Session
)

func requireROI() bool {
	if activeSession.HasROI() {
		return true
	}
	PrintWarning("Define a region of interest first (menu option 1).")
	return false
}

// runModule executes an analysis module against the active session and
// walks the user through the outputs.
func runModule(module analysis.Module, params any) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Running %s", module.Name())),
		progressbar.OptionSpinnerType(14),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(120 * time.Millisecond):
				bar.Add(1)
			}
		}
	}()

	outcome, err := module.Run(context.Background(), activeSession)
	close(done)
	bar.Clear()

	if err != nil {
		if errors.Is(err, compute.ErrAuth) {
			PrintError(fmt.Sprintf("Compute service authentication failed: %s", err.Error()))
			PrintError("Check TERRASIGHT_CLIENT_ID and TERRASIGHT_CLIENT_SECRET. Exiting...")
			notification.SendDiscordErrorNotification(fmt.Sprintf("TerraSight\n\nAuthentication failure during %s: %s", module.Name(), err.Error()))
			os.Exit(1)
		}
		if errors.Is(err, compute.ErrEmpty) {
			PrintWarning(fmt.Sprintf("No data available: %s", err.Error()))
			return
		}
		PrintError(fmt.Sprintf("Error running %s: %s", module.Name(), err.Error()))
		notification.SendDiscordErrorNotification(fmt.Sprintf("TerraSight\n\nError running %s: %s", module.Name(), err.Error()))
		return
	}

	activeSession.MarkExecuted(module.Name(), params)

	for _, warning := range outcome.Warnings {
		PrintWarning(warning)
	}

	fmt.Printf("%s\n%s%s\n", ColorGreen, outcome.Title, ColorReset)
	for _, stat := range outcome.Stats {
		fmt.Printf("%s- %s: %s%s\n", ColorGreen, stat.Label, stat.Value, ColorReset)
	}

	baseName := fmt.Sprintf("%s_%s", slug(module.Name()), time.Now().Format("2006-01-02_150405"))

	if len(outcome.Grid) > 0 {
		backdrop, err := output.FetchBackdrop(context.Background(), computeClient, outcome)
		if err != nil {
			PrintWarning(fmt.Sprintf("True-color backdrop unavailable, rendering without it: %s", err.Error()))
			backdrop = nil
		}
		if _, err := output.RenderMap(outcome, backdrop, baseName); err != nil {
			PrintError(fmt.Sprintf("Error rendering map: %s", err.Error()))
		}
	}

	if len(outcome.Series) > 0 {
		if _, err := output.RenderSeriesChart(outcome.Series, outcome.Title, outcome.SeriesLabel, baseName); err != nil {
			PrintError(fmt.Sprintf("Error rendering chart: %s", err.Error()))
		}

		if strings.EqualFold(ReadString("Export the time series as CSV? (y/N): "), "y") {
			if _, err := output.ExportSeriesCSV(outcome.Series, baseName); err != nil {
				PrintError(fmt.Sprintf("Error exporting CSV: %s", err.Error()))
			}
		}
	}

	if len(outcome.Stats) > 0 {
		if strings.EqualFold(ReadString("Export the summary statistics as CSV? (y/N): "), "y") {
			if _, err := output.ExportStatsCSV(outcome.Stats, baseName+"_stats"); err != nil {
				PrintError(fmt.Sprintf("Error exporting CSV: %s", err.Error()))
			}
		}
	}

	if outcome.Export != nil {
		if strings.EqualFold(ReadString("Submit a full-resolution GeoTIFF export? (y/N): "), "y") {
			output.SubmitExport(computeClient, *outcome.Export)
		}
	}

	if outcome.Video != nil {
		if strings.EqualFold(ReadString("Submit a timelapse render? (y/N): "), "y") {
			output.SubmitVideo(computeClient, *outcome.Video)
		}
	}

	PrintSuccess("Analysis complete.")
}

func slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}
