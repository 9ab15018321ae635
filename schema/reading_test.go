package schema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

func TestReadingVectorOrder(t *testing.T) {
	r := schema.Reading{PM25: 1, PM10: 2, NO: 3, NO2: 4, CO: 5, SO2: 6, O3: 7}
	v := r.Vector()

	assert.Len(t, v, schema.FeatureCount, "wrong vector size")
	assert.Len(t, schema.FeatureOrder, schema.FeatureCount, "wrong feature order size")
	for i, p := range schema.FeatureOrder {
		assert.Equal(t, r.Value(p), v[i], "wrong value of %s", p)
	}
}

func TestReadingValidate(t *testing.T) {
	assert.NoError(t, schema.DefaultReading().Validate())
	assert.NoError(t, schema.Reading{}.Validate(), "zero is a valid concentration")

	r := schema.DefaultReading()
	r.SO2 = -0.1
	assert.EqualError(t, r.Validate(), "SO2 must be greater than or equal to 0")

	r = schema.DefaultReading()
	r.CO = math.NaN()
	assert.Error(t, r.Validate())
}

func TestSessionRecord(t *testing.T) {
	var s schema.Session
	first := schema.NewPrediction(schema.DefaultReading(), 42, "Good", "#00e400", "")
	second := schema.NewPrediction(schema.DefaultReading(), 120, "Moderate", "#ffff00", "")

	s.Record(first)
	assert.Equal(t, first, s.Last)
	assert.Nil(t, s.Previous)

	s.Record(second)
	assert.Equal(t, second, s.Last)
	assert.Equal(t, first, s.Previous)
	assert.NotEqual(t, first.ID, second.ID, "prediction ids should be unique")
}

func TestDisplayScoreTruncates(t *testing.T) {
	assert.Equal(t, 150, schema.Prediction{Score: 150.99}.DisplayScore())
	assert.Equal(t, 0, schema.Prediction{Score: 0.7}.DisplayScore())
	assert.Equal(t, -3, schema.Prediction{Score: -3.9}.DisplayScore())
}

func TestDisplayScoreOutOfRange(t *testing.T) {
	assert.Equal(t, 0, schema.Prediction{Score: math.NaN()}.DisplayScore())
	assert.Equal(t, math.MaxInt, schema.Prediction{Score: math.Inf(1)}.DisplayScore())
	assert.Equal(t, math.MinInt, schema.Prediction{Score: math.Inf(-1)}.DisplayScore())
	assert.Equal(t, math.MaxInt, schema.Prediction{Score: 1e300}.DisplayScore())
}
