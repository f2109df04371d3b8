package output

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/properties"
)

// RenderSeriesChart writes an interactive HTML line chart for a time
// series and returns the output path.
func RenderSeriesChart(series []compute.SeriesPoint, title, label, name string) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("empty series, nothing to chart")
	}

	resultPath := fmt.Sprintf("%s/data/result/charts", properties.RootPath())
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	outputPath := fmt.Sprintf("%s/%s.html", resultPath, name)

	dates := make([]string, 0, len(series))
	values := make([]opts.LineData, 0, len(series))
	for _, point := range series {
		dates = append(dates, point.Date.Format("2006-01-02"))
		values = append(values, opts.LineData{Value: point.Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d observations", len(series))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: label}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(dates)
	line.AddSeries(label, values,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.15}),
	)

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := line.Render(file); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Printf("Chart saved to: %s\n", outputPath)
	return outputPath, nil
}
