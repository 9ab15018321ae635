package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRecoversExactRelation(t *testing.T) {
	ds := Dataset{}
	weights := []float64{0.5, 0.25, 0, 1, 10, 0, 0.1}
	points := [][]float64{
		{10, 20, 1, 5, 0.1, 2, 30},
		{40, 10, 2, 15, 0.9, 3, 10},
		{70, 90, 3, 25, 1.3, 1, 60},
		{20, 60, 4, 35, 0.4, 7, 20},
		{90, 30, 5, 45, 2.2, 9, 80},
		{50, 70, 6, 55, 1.7, 4, 40},
		{30, 50, 7, 65, 0.2, 6, 70},
		{60, 40, 8, 75, 2.8, 8, 50},
		{80, 80, 9, 85, 1.1, 5, 90},
		{15, 15, 1, 95, 3.0, 2, 15},
	}
	for _, x := range points {
		y := 12.0
		for i, w := range weights {
			y += w * x[i]
		}
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, y)
	}

	l, err := TrainLinear(ds, LinearOptions{Lambda: 1e-9})
	require.NoError(t, err)

	for i, x := range ds.X {
		score, err := l.Predict(x)
		assert.NoError(t, err)
		assert.InDelta(t, ds.Y[i], score, 1e-4, "row %d", i)
	}
}

func TestLinearRidgeOnSampleRows(t *testing.T) {
	l, err := TrainLinear(SampleDataset(), DefaultLinearOptions())
	require.NoError(t, err)
	assert.Len(t, l.Coefficients, 7)

	low, err := l.Predict([]float64{35, 40, 10, 15, 0.5, 5, 20})
	require.NoError(t, err)
	high, err := l.Predict([]float64{150, 180, 30, 40, 2.0, 15, 50})
	require.NoError(t, err)
	assert.Less(t, low, high, "cleaner air should score lower")
}

func TestLinearSingularWithoutPenalty(t *testing.T) {
	row := []float64{50, 80, 20, 30, 1, 10, 25}
	ds := Dataset{
		X: [][]float64{row, row, row},
		Y: []float64{60, 70, 80},
	}

	_, err := TrainLinear(ds, LinearOptions{Lambda: 0})
	assert.ErrorIs(t, err, errSingular)

	l, err := TrainLinear(ds, DefaultLinearOptions())
	require.NoError(t, err)
	score, err := l.Predict(row)
	require.NoError(t, err)
	assert.InDelta(t, 70, score, 1e-9, "constant inputs should predict the mean target")
}
