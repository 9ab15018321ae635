package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v4"
)

func TestArtifactSaveLoad(t *testing.T) {
	x := []float64{180, 250, 60, 90, 2.5, 20, 30}

	for _, kind := range []Kind{KindForest, KindLinear} {
		a, err := Train(kind, SampleDataset(), DefaultTrainOptions())
		require.NoError(t, err, kind)

		path := filepath.Join(t.TempDir(), "model.msgpack")
		require.NoError(t, a.Save(path), kind)

		loaded, err := Load(path)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, loaded.Kind)
		assert.Equal(t, 5, loaded.Rows)

		expected, err := a.Predict(x)
		require.NoError(t, err)
		actual, err := loaded.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, expected, actual, "%s prediction changed after reload", kind)
	}
}

func TestTrainUnknownKind(t *testing.T) {
	_, err := Train("svm", SampleDataset(), DefaultTrainOptions())
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.msgpack"))
	assert.Error(t, err)
}

func TestLoadRejectsFeatureMismatch(t *testing.T) {
	a, err := Train(KindLinear, SampleDataset(), DefaultTrainOptions())
	require.NoError(t, err)
	a.Features = []string{"PM10", "PM2.5", "NO", "NO2", "CO", "SO2", "O3"}

	b, err := msgpack.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "swapped.msgpack")
	require.NoError(t, os.WriteFile(path, b, 0644))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestReadDataset(t *testing.T) {
	in := strings.NewReader(`AQI,O3,SO2,CO,NO2,NO,PM10,PM2.5,station
50,20,5,0.5,15,10,40,35,a
100,35,10,1.2,25,20,70,55,b
`)
	ds, err := ReadDataset(in)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, SampleDataset().X[:2], ds.X, "columns should be reordered into feature order")
	assert.Equal(t, []float64{50, 100}, ds.Y)
}

func TestReadDatasetErrors(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("PM2.5,PM10,NO,NO2,CO,SO2,AQI\n1,2,3,4,5,6,7\n"))
	assert.EqualError(t, err, "missing column O3")

	_, err = ReadDataset(strings.NewReader("PM2.5,PM10,NO,NO2,CO,SO2,O3,AQI\n"))
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = ReadDataset(strings.NewReader("PM2.5,PM10,NO,NO2,CO,SO2,O3,AQI\n1,2,x,4,5,6,7,8\n"))
	assert.Error(t, err)
}

func writeArtifact(t *testing.T, a *Artifact) string {
	b, err := msgpack.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.msgpack")
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func TestLoadRejectsCorruptForest(t *testing.T) {
	testCases := []struct {
		name  string
		trees []Tree
	}{
		{"no trees", nil},
		{"empty tree", []Tree{{}}},
		{"self loop", []Tree{{Nodes: []node{{Feature: 0, Threshold: 1, Left: 0, Right: 0}}}}},
		{"points back to root", []Tree{{Nodes: []node{
			{Feature: 0, Threshold: 1, Left: 1, Right: 2},
			{Feature: 1, Threshold: 1, Left: 0, Right: 2},
			{Feature: leafFeature, Value: 3},
		}}}},
		{"child out of range", []Tree{{Nodes: []node{
			{Feature: 0, Threshold: 1, Left: 1, Right: 5},
			{Feature: leafFeature, Value: 3},
		}}}},
		{"feature out of range", []Tree{{Nodes: []node{
			{Feature: 7, Threshold: 1, Left: 1, Right: 2},
			{Feature: leafFeature, Value: 1},
			{Feature: leafFeature, Value: 2},
		}}}},
	}

	for _, tc := range testCases {
		a := &Artifact{
			Kind:     KindForest,
			Version:  artifactVersion,
			Features: featureNames(),
			Forest:   &Forest{Trees: tc.trees},
		}

		_, err := Load(writeArtifact(t, a))
		assert.ErrorIs(t, err, ErrCorruptModel, tc.name)
	}
}

func TestLoadRejectsShortLinear(t *testing.T) {
	a := &Artifact{
		Kind:     KindLinear,
		Version:  artifactVersion,
		Features: featureNames(),
		Linear:   &Linear{Coefficients: []float64{1, 2}},
	}

	_, err := Load(writeArtifact(t, a))
	assert.ErrorIs(t, err, ErrCorruptModel)
}

func TestLoadAcceptsHandBuiltTree(t *testing.T) {
	a := &Artifact{
		Kind:     KindForest,
		Version:  artifactVersion,
		Features: featureNames(),
		Forest: &Forest{Trees: []Tree{{Nodes: []node{
			{Feature: 0, Threshold: 100, Left: 1, Right: 2},
			{Feature: leafFeature, Value: 40},
			{Feature: leafFeature, Value: 220},
		}}}},
	}

	loaded, err := Load(writeArtifact(t, a))
	require.NoError(t, err)

	score, err := loaded.Predict([]float64{180, 250, 60, 90, 2.5, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 220.0, score)
}
