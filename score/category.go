package score

import (
	"fmt"
	"math"
)

type Category string

const (
	CategoryGood                        Category = "good"
	CategoryModerate                    Category = "moderate"
	CategoryUnhealthyForSensitiveGroups Category = "unhealthy_for_sensitive_groups"
	CategoryUnhealthy                   Category = "unhealthy"
	CategoryVeryUnhealthy               Category = "very_unhealthy"
	CategoryHazardous                   Category = "hazardous"
)

// Level is one bucket of a scale. Upper is inclusive.
type Level struct {
	Category Category `json:"category"`
	Upper    float64  `json:"upper"`
	Color    string   `json:"color"`

	LabelID    string `json:"-"`
	Label      string `json:"label"`
	AdvisoryID string `json:"-"`
	Advisory   string `json:"advisory"`
}

// Scale is an ordered list of levels, evaluated in ascending order
type Scale struct {
	Name   string  `json:"name"`
	Levels []Level `json:"levels"`
}

var (
	good = Level{
		Category:   CategoryGood,
		Upper:      50,
		Color:      "#00e400",
		LabelID:    "category.good",
		Label:      "Good",
		AdvisoryID: "advisory.good",
		Advisory:   "Enjoy the day! No precautions needed.",
	}
	moderate = Level{
		Category:   CategoryModerate,
		Upper:      100,
		Color:      "#ffff00",
		LabelID:    "category.moderate",
		Label:      "Moderate",
		AdvisoryID: "advisory.moderate",
		Advisory:   "Okay for most. Sensitive individuals should reduce exertion.",
	}
	sensitive = Level{
		Category:   CategoryUnhealthyForSensitiveGroups,
		Upper:      150,
		Color:      "#ff7e00",
		LabelID:    "category.unhealthy_for_sensitive_groups",
		Label:      "Unhealthy for Sensitive Groups",
		AdvisoryID: "advisory.unhealthy_for_sensitive_groups",
		Advisory:   "Consider wearing a mask and limit outdoor activity.",
	}
	unhealthy = Level{
		Category:   CategoryUnhealthy,
		Upper:      200,
		Color:      "#ff0000",
		LabelID:    "category.unhealthy",
		Label:      "Unhealthy",
		AdvisoryID: "advisory.unhealthy",
		Advisory:   "Wear a mask and limit outdoor time.",
	}
	veryUnhealthy = Level{
		Category:   CategoryVeryUnhealthy,
		Upper:      300,
		Color:      "#8f3f97",
		LabelID:    "category.very_unhealthy",
		Label:      "Very Unhealthy",
		AdvisoryID: "advisory.very_unhealthy",
		Advisory:   "Avoid outdoor activity.",
	}
	hazardous = Level{
		Category:   CategoryHazardous,
		Upper:      math.Inf(1),
		Color:      "#7e0023",
		LabelID:    "category.hazardous",
		Label:      "Hazardous",
		AdvisoryID: "advisory.stay_indoors",
		Advisory:   "Stay indoors!",
	}
)

// StandardScale has six buckets, everything above 300 is hazardous.
var StandardScale = Scale{
	Name:   "standard",
	Levels: []Level{good, moderate, sensitive, unhealthy, veryUnhealthy, hazardous},
}

// CompactScale stops at 200, everything above is very unhealthy.
var CompactScale = Scale{
	Name: "compact",
	Levels: []Level{good, moderate, sensitive, unhealthy, {
		Category:   CategoryVeryUnhealthy,
		Upper:      math.Inf(1),
		Color:      veryUnhealthy.Color,
		LabelID:    veryUnhealthy.LabelID,
		Label:      veryUnhealthy.Label,
		AdvisoryID: hazardous.AdvisoryID,
		Advisory:   hazardous.Advisory,
	}},
}

// ScaleByName resolves a configured scale name, empty means standard
func ScaleByName(name string) (Scale, error) {
	switch name {
	case "", StandardScale.Name:
		return StandardScale, nil
	case CompactScale.Name:
		return CompactScale, nil
	default:
		return Scale{}, fmt.Errorf("unknown aqi scale %q", name)
	}
}

// Categorize returns the first level whose upper bound is not below the
// score. A score matching no bound (NaN) gets the last level.
func (s Scale) Categorize(score float64) Level {
	for _, l := range s.Levels {
		if score <= l.Upper {
			return l
		}
	}
	return s.Levels[len(s.Levels)-1]
}

// Categorize uses the standard scale
func Categorize(score float64) Level {
	return StandardScale.Categorize(score)
}
