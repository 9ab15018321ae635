package schema

// Report is the exported snapshot of one prediction
type Report struct {
	Reading  Reading `json:"reading"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Advisory string  `json:"advisory"`
}

func NewReport(p Prediction) Report {
	return Report{
		Reading:  p.Reading,
		Score:    p.Score,
		Category: p.Category,
		Advisory: p.Advisory,
	}
}
