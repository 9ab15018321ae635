package model

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const (
	modelLogPrefix  = "model"
	artifactVersion = 1
)

type Kind string

const (
	KindForest Kind = "forest"
	KindLinear Kind = "linear"
)

// Artifact is the on-disk form of a trained regressor
type Artifact struct {
	Kind      Kind     `msgpack:"kind"`
	Version   int      `msgpack:"version"`
	Features  []string `msgpack:"features"`
	Rows      int      `msgpack:"rows"`
	TrainedAt int64    `msgpack:"trained_at"`

	Forest *Forest `msgpack:"forest,omitempty"`
	Linear *Linear `msgpack:"linear,omitempty"`
}

type TrainOptions struct {
	Forest ForestOptions
	Linear LinearOptions
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Forest: DefaultForestOptions(),
		Linear: DefaultLinearOptions(),
	}
}

func Train(kind Kind, ds Dataset, opts TrainOptions) (*Artifact, error) {
	a := &Artifact{
		Kind:      kind,
		Version:   artifactVersion,
		Features:  featureNames(),
		Rows:      ds.Len(),
		TrainedAt: time.Now().Unix(),
	}

	var err error
	switch kind {
	case KindForest:
		a.Forest, err = TrainForest(ds, opts.Forest)
	case KindLinear:
		a.Linear, err = TrainLinear(ds, opts.Linear)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Artifact) regressor() (Regressor, error) {
	switch {
	case a.Kind == KindForest && a.Forest != nil:
		return a.Forest, nil
	case a.Kind == KindLinear && a.Linear != nil:
		return a.Linear, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, a.Kind)
	}
}

func (a *Artifact) validate() error {
	switch a.Kind {
	case KindForest:
		return a.Forest.validate()
	case KindLinear:
		return a.Linear.validate()
	}
	return nil
}

func (a *Artifact) Predict(features []float64) (float64, error) {
	r, err := a.regressor()
	if err != nil {
		return 0, err
	}
	return r.Predict(features)
}

func (a *Artifact) Save(path string) error {
	b, err := msgpack.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Load reads an artifact and checks it was trained on schema.FeatureOrder
func Load(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var a Artifact
	if err := msgpack.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}

	if _, err := a.regressor(); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	expected := featureNames()
	if len(a.Features) != len(expected) {
		return nil, fmt.Errorf("model features %v: %w", a.Features, ErrFeatureCount)
	}
	for i := range expected {
		if a.Features[i] != expected[i] {
			return nil, fmt.Errorf("model feature %d is %s, expected %s", i, a.Features[i], expected[i])
		}
	}

	log.WithFields(log.Fields{
		"prefix": modelLogPrefix,
		"path":   path,
		"kind":   a.Kind,
		"rows":   a.Rows,
	}).Info("loaded model")

	return &a, nil
}

func featureNames() []string {
	names := make([]string, 0, len(schema.FeatureOrder))
	for _, p := range schema.FeatureOrder {
		names = append(names, string(p))
	}
	return names
}
