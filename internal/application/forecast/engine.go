// Package forecast provides pure demand-planning calculations. None of the
// functions read or mutate catalog or order state; callers feed them
// historical quantities and apply the results themselves.
package forecast

import (
	"errors"
	"math"
)

// ErrInvalidAlpha rejects smoothing factors outside (0, 1].
var ErrInvalidAlpha = errors.New("forecast: alpha must be in (0, 1]")

// MovingAverage forecasts the next period as the mean of the most recent
// periods of a chronologically ordered series. When fewer periods are
// available than requested, the available ones are averaged; an empty series
// or a non-positive window forecasts zero.
func MovingAverage(series []int, periods int) float64 {
	if len(series) == 0 || periods <= 0 {
		return 0
	}
	if periods > len(series) {
		periods = len(series)
	}
	sum := 0
	for _, q := range series[len(series)-periods:] {
		sum += q
	}
	return float64(sum) / float64(periods)
}

// ExponentialSmoothing forecasts the next period of a chronologically ordered
// series. The initial forecast is the first observation; each later
// observation pulls the forecast by alpha.
func ExponentialSmoothing(series []int, alpha float64) (float64, error) {
	if alpha <= 0 || alpha > 1 {
		return 0, ErrInvalidAlpha
	}
	if len(series) == 0 {
		return 0, nil
	}
	forecast := float64(series[0])
	for i := 1; i < len(series); i++ {
		forecast = alpha*float64(series[i-1]) + (1-alpha)*forecast
	}
	forecast = alpha*float64(series[len(series)-1]) + (1-alpha)*forecast
	return forecast, nil
}

// EconomicOrderQuantity computes the classic EOQ. Non-positive demand or
// holding cost, or a negative ordering cost, yields zero: reordering is not
// sensible with such inputs.
func EconomicOrderQuantity(annualDemand, orderingCostPerOrder, annualHoldingCostPerUnit float64) float64 {
	if annualDemand <= 0 || orderingCostPerOrder < 0 || annualHoldingCostPerUnit <= 0 {
		return 0
	}
	return math.Sqrt((2 * annualDemand * orderingCostPerOrder) / annualHoldingCostPerUnit)
}

// ReorderPoint is lead-time demand plus safety stock. Any negative input
// yields zero.
func ReorderPoint(averageDailyDemand float64, leadTimeDays int, safetyStock float64) float64 {
	if averageDailyDemand < 0 || leadTimeDays < 0 || safetyStock < 0 {
		return 0
	}
	return averageDailyDemand*float64(leadTimeDays) + safetyStock
}
