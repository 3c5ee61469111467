// Package charts renders evaluation reports to standalone HTML chart files.
package charts

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tcgtools/drawcalc/internal/sim"
)

// ChartConfig holds configuration for report charts.
type ChartConfig struct {
	Title    string // Chart title
	Subtitle string // Chart subtitle
	Width    string // Chart width (e.g., "900px")
	Height   string // Chart height (e.g., "500px")
	Theme    string // Chart theme
	Color    string // Bar color
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:  "Opening-hand probabilities",
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Color:  "#5470C6",
	}
}

// RenderReport writes a bar chart of the report's per-combo and aggregate
// probabilities (in percent) to outputPath.
func RenderReport(report *sim.Report, config ChartConfig, outputPath string) error {
	type point struct {
		label string
		value float64
	}

	var points []point
	ids := make([]string, 0, len(report.PerCombo))
	for id := range report.PerCombo {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		points = append(points, point{label: id, value: report.PerCombo[id].Percent()})
	}
	if report.UnionAll != nil {
		points = append(points, point{label: "Any combo", value: report.UnionAll.Percent()})
	}
	for _, k := range []int{2, 3} {
		if p, ok := report.MultiStarter[k]; ok {
			points = append(points, point{label: fmt.Sprintf("%d+ starters", k), value: p.Percent()})
		}
	}
	for _, k := range []int{1, 2, 3, 4} {
		if p, ok := report.MultiHandTrap[k]; ok {
			points = append(points, point{label: fmt.Sprintf("%d+ hand traps", k), value: p.Percent()})
		}
	}
	if len(points) == 0 {
		return fmt.Errorf("report has no probabilities to chart")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Color,
		}),
	)

	xLabels := make([]string, len(points))
	yData := make([]opts.BarData, len(points))
	for i, p := range points {
		xLabels[i] = p.label
		yData[i] = opts.BarData{Value: p.value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Probability (%)", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
