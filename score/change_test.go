package score

import (
	"testing"
)

type changeRateTestCase struct {
	new                float64
	old                float64
	expectedChangeRate float64
}

func TestChangeRate(t *testing.T) {
	cases := []changeRateTestCase{
		{0, 0, 0},
		{120, 120, 0},
		{0, 80, -100},
		{35, 0, 100},
		{150, 100, 50},
		{45, 60, -25},
	}
	for _, c := range cases {
		if actual := ChangeRate(c.new, c.old); actual != c.expectedChangeRate {
			t.Fatalf("change rate from %v to %v: expected %v, got %v", c.old, c.new, c.expectedChangeRate, actual)
		}
	}
}
