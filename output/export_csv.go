package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/properties"
)

type seriesRecord struct {
	Date  string  `csv:"date"`
	Value float64 `csv:"value"`
}

type statRecord struct {
	Metric string `csv:"metric"`
	Value  string `csv:"value"`
}

// ExportSeriesCSV writes a time series to data/result/csv and returns the
// output path.
func ExportSeriesCSV(series []compute.SeriesPoint, name string) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("empty series, nothing to export")
	}

	outputPath, err := csvPath(name)
	if err != nil {
		return "", err
	}

	records := make([]seriesRecord, 0, len(series))
	for _, point := range series {
		records = append(records, seriesRecord{
			Date:  point.Date.Format("2006-01-02"),
			Value: point.Value,
		})
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}

	fmt.Printf("CSV saved to: %s\n", outputPath)
	return outputPath, nil
}

// ExportStatsCSV writes the summary statistics of an analysis run.
func ExportStatsCSV(stats []analysis.Stat, name string) (string, error) {
	if len(stats) == 0 {
		return "", fmt.Errorf("no statistics to export")
	}

	outputPath, err := csvPath(name)
	if err != nil {
		return "", err
	}

	records := make([]statRecord, 0, len(stats))
	for _, stat := range stats {
		records = append(records, statRecord{Metric: stat.Label, Value: stat.Value})
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}

	fmt.Printf("CSV saved to: %s\n", outputPath)
	return outputPath, nil
}

func csvPath(name string) (string, error) {
	resultPath := fmt.Sprintf("%s/data/result/csv", properties.RootPath())
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	return fmt.Sprintf("%s/%s.csv", resultPath, name), nil
}
