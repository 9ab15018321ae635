package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

var errSingular = errors.New("singular system")

// Linear is a ridge regressor: score = intercept + coefficients · x
type Linear struct {
	Coefficients []float64 `msgpack:"coefficients"`
	Intercept    float64   `msgpack:"intercept"`
}

type LinearOptions struct {
	// Lambda is the L2 penalty, it keeps the system solvable when there are
	// fewer rows than features.
	Lambda float64
}

func DefaultLinearOptions() LinearOptions {
	return LinearOptions{Lambda: 1}
}

func (l *Linear) Predict(features []float64) (float64, error) {
	if err := checkFeatures(features); err != nil {
		return 0, err
	}
	if len(l.Coefficients) != len(features) {
		return 0, ErrFeatureCount
	}

	return l.Intercept + floats.Dot(l.Coefficients, features), nil
}

func (l *Linear) validate() error {
	if len(l.Coefficients) != schema.FeatureCount {
		return fmt.Errorf("%w: %d coefficients", ErrCorruptModel, len(l.Coefficients))
	}
	return nil
}

// TrainLinear fits on centered data so the intercept is not penalized.
func TrainLinear(ds Dataset, opts LinearOptions) (*Linear, error) {
	if err := ds.check(); err != nil {
		return nil, err
	}

	n, p := len(ds.Y), len(ds.X[0])
	x := mat.NewDense(n, p, nil)
	for i, row := range ds.X {
		x.SetRow(i, row)
	}
	y := mat.NewVecDense(n, append([]float64(nil), ds.Y...))

	xMean := make([]float64, p)
	for j := 0; j < p; j++ {
		xMean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	yMean := stat.Mean(ds.Y, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			x.Set(i, j, x.At(i, j)-xMean[j])
		}
		y.SetVec(i, y.AtVec(i)-yMean)
	}

	// XᵀX + λI
	gram := mat.NewSymDense(p, nil)
	gram.SymOuterK(1, x.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+opts.Lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, errSingular
	}

	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return nil, fmt.Errorf("%w: %s", errSingular, err)
	}

	coefficients := mat.Col(nil, 0, &w)
	intercept := yMean - floats.Dot(coefficients, xMean)

	return &Linear{Coefficients: coefficients, Intercept: intercept}, nil
}
