package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const seriesName = "Concentration"

// RenderReading writes a standalone html page with a bar per pollutant,
// colored by the predicted category.
func RenderReading(w io.Writer, p schema.Prediction, title string) error {
	names := make([]string, 0, schema.FeatureCount)
	items := make([]opts.BarData, 0, schema.FeatureCount)
	for _, pollutant := range schema.FeatureOrder {
		names = append(names, string(pollutant))
		items = append(items, opts.BarData{Value: p.Reading.Value(pollutant)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "720px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("AQI %d · %s", p.DisplayScore(), p.Category),
		}),
	)

	bar.SetXAxis(names).
		AddSeries(seriesName, items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: p.Color}),
		)

	return bar.Render(w)
}
