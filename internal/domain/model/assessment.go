// Package model defines the core domain entities for whale risk assessment.
package model

// RiskLevel is the discrete tier derived from a presence probability.
type RiskLevel string

// Risk tiers in increasing order of severity.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Coordinate is a single route waypoint. Values outside the conventional
// lat/lon ranges are passed through to the scoring artifact unmodified.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Assessment is the result of scoring one location for one month.
// Probability is rounded to three decimals for display; tier classification
// happens on the unrounded value before the Assessment is built.
type Assessment struct {
	RiskLevel      RiskLevel `json:"risk_level"`
	Probability    float64   `json:"probability"`
	Recommendation string    `json:"recommendation"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Month          int       `json:"month"`
}
