package model

import (
	"errors"
	"fmt"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

var (
	ErrFeatureCount = fmt.Errorf("feature vector must have %d values", schema.FeatureCount)
	ErrEmptyDataset = errors.New("empty dataset")
	ErrUnknownKind  = errors.New("unknown model kind")
	ErrCorruptModel = errors.New("corrupt model")
)

// Regressor predicts an AQI score from a feature vector in schema.FeatureOrder
type Regressor interface {
	Predict(features []float64) (float64, error)
}

func checkFeatures(features []float64) error {
	if len(features) != schema.FeatureCount {
		return fmt.Errorf("%w: got %d", ErrFeatureCount, len(features))
	}
	return nil
}
