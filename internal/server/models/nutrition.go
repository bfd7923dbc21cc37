package models

// Totals is a calories/protein pair. Both values are expected to be >= 0.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

// Negative reports whether either component is below zero.
func (t Totals) Negative() bool {
	return t.Calories < 0 || t.Protein < 0
}
