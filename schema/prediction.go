package schema

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Prediction struct {
	ID        string    `json:"id" bson:"id"`
	Reading   Reading   `json:"reading" bson:"reading"`
	Score     float64   `json:"score" bson:"score"`
	Category  string    `json:"category" bson:"category"`
	Color     string    `json:"color" bson:"color"`
	Advisory  string    `json:"advisory" bson:"advisory"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func NewPrediction(r Reading, score float64, category, color, advisory string) *Prediction {
	return &Prediction{
		ID:        uuid.New().String(),
		Reading:   r,
		Score:     score,
		Category:  category,
		Color:     color,
		Advisory:  advisory,
		CreatedAt: time.Now().UTC(),
	}
}

// DisplayScore truncates the score toward zero. NaN shows as 0 and values
// beyond the int range are clamped.
func (p Prediction) DisplayScore() int {
	switch {
	case math.IsNaN(p.Score):
		return 0
	case p.Score >= math.MaxInt:
		return math.MaxInt
	case p.Score <= math.MinInt:
		return math.MinInt
	}
	return int(p.Score)
}
