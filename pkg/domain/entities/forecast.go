package entities

import "fmt"

// ForecastParams configures demand projection for one planning run.
// It is an immutable value object; invalid values are rejected at
// construction, before any computation begins.
type ForecastParams struct {
	incrementFactor float64
	horizon         int
}

// NewForecastParams creates validated ForecastParams. The increment factor
// is a non-negative fraction compounded per future month (0.01 = 1% growth);
// the horizon is the number of future months to project.
func NewForecastParams(incrementFactor float64, horizon int) (ForecastParams, error) {
	if incrementFactor < 0 {
		return ForecastParams{}, fmt.Errorf("increment factor cannot be negative, got %v", incrementFactor)
	}
	if horizon < 0 {
		return ForecastParams{}, fmt.Errorf("forecast horizon cannot be negative, got %d", horizon)
	}

	return ForecastParams{
		incrementFactor: incrementFactor,
		horizon:         horizon,
	}, nil
}

// IncrementFactor returns the per-month compounding growth fraction
func (p ForecastParams) IncrementFactor() float64 {
	return p.incrementFactor
}

// Horizon returns the number of future months to project
func (p ForecastParams) Horizon() int {
	return p.horizon
}
