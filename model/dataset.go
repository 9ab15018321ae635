package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

// TargetColumn is the header of the score column in a training CSV
const TargetColumn = "AQI"

// Dataset - training rows, X in schema.FeatureOrder
type Dataset struct {
	X [][]float64
	Y []float64
}

func (d Dataset) Len() int {
	return len(d.Y)
}

func (d Dataset) check() error {
	if len(d.Y) == 0 {
		return ErrEmptyDataset
	}
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("dataset has %d feature rows and %d targets", len(d.X), len(d.Y))
	}
	for i, row := range d.X {
		if len(row) != schema.FeatureCount {
			return fmt.Errorf("row %d: %w", i, ErrFeatureCount)
		}
	}
	return nil
}

// SampleDataset is the five-row toy dataset the bundled model is trained on.
func SampleDataset() Dataset {
	return Dataset{
		X: [][]float64{
			{35, 40, 10, 15, 0.5, 5, 20},
			{55, 70, 20, 25, 1.2, 10, 35},
			{150, 180, 30, 40, 2.0, 15, 50},
			{85, 100, 15, 20, 1.0, 8, 25},
			{120, 160, 25, 30, 1.5, 12, 40},
		},
		Y: []float64{50, 100, 200, 130, 180},
	}
}

// ReadDataset reads a CSV with a header naming every pollutant and the AQI
// target. Extra columns are ignored.
func ReadDataset(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Dataset{}, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	featureIdx := make([]int, 0, schema.FeatureCount)
	for _, p := range schema.FeatureOrder {
		i, ok := columns[strings.ToUpper(string(p))]
		if !ok {
			return Dataset{}, fmt.Errorf("missing column %s", p)
		}
		featureIdx = append(featureIdx, i)
	}
	targetIdx, ok := columns[TargetColumn]
	if !ok {
		return Dataset{}, fmt.Errorf("missing column %s", TargetColumn)
	}

	var ds Dataset
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, 0, schema.FeatureCount)
		for k, i := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("line %d column %s: %w", line, schema.FeatureOrder[k], err)
			}
			row = append(row, v)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[targetIdx]), 64)
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d column %s: %w", line, TargetColumn, err)
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, y)
	}

	if ds.Len() == 0 {
		return Dataset{}, ErrEmptyDataset
	}
	return ds, nil
}
