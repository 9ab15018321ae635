package schema

import (
	"fmt"
	"math"
)

type Pollutant string

const (
	PollutantPM25 Pollutant = "PM2.5"
	PollutantPM10 Pollutant = "PM10"
	PollutantNO   Pollutant = "NO"
	PollutantNO2  Pollutant = "NO2"
	PollutantCO   Pollutant = "CO"
	PollutantSO2  Pollutant = "SO2"
	PollutantO3   Pollutant = "O3"
)

// FeatureOrder is the order in which a reading is fed to the regressor.
var FeatureOrder = []Pollutant{
	PollutantPM25,
	PollutantPM10,
	PollutantNO,
	PollutantNO2,
	PollutantCO,
	PollutantSO2,
	PollutantO3,
}

// FeatureCount is the length of a feature vector
const FeatureCount = 7

// Reading - one set of pollutant concentrations entered by a user
type Reading struct {
	PM25 float64 `json:"pm25" bson:"pm25" form:"pm25"`
	PM10 float64 `json:"pm10" bson:"pm10" form:"pm10"`
	NO   float64 `json:"no" bson:"no" form:"no"`
	NO2  float64 `json:"no2" bson:"no2" form:"no2"`
	CO   float64 `json:"co" bson:"co" form:"co"`
	SO2  float64 `json:"so2" bson:"so2" form:"so2"`
	O3   float64 `json:"o3" bson:"o3" form:"o3"`
}

func DefaultReading() Reading {
	return Reading{
		PM25: 50,
		PM10: 80,
		NO:   20,
		NO2:  30,
		CO:   1,
		SO2:  10,
		O3:   25,
	}
}

// Vector returns the values in FeatureOrder
func (r Reading) Vector() []float64 {
	return []float64{r.PM25, r.PM10, r.NO, r.NO2, r.CO, r.SO2, r.O3}
}

// Value returns the concentration of a single pollutant
func (r Reading) Value(p Pollutant) float64 {
	switch p {
	case PollutantPM25:
		return r.PM25
	case PollutantPM10:
		return r.PM10
	case PollutantNO:
		return r.NO
	case PollutantNO2:
		return r.NO2
	case PollutantCO:
		return r.CO
	case PollutantSO2:
		return r.SO2
	case PollutantO3:
		return r.O3
	}
	return 0
}

// Validate checks every concentration is a non-negative number.
func (r Reading) Validate() error {
	for _, p := range FeatureOrder {
		v := r.Value(p)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a number", p)
		}
		if v < 0 {
			return fmt.Errorf("%s must be greater than or equal to 0", p)
		}
	}
	return nil
}
