// Package scoring computes the stability score applied to each task.
//
// The score is an iterative trigonometric recurrence: pure, deterministic,
// and CPU-bound. The pipeline consumes it through the Func type so tests can
// substitute any deterministic function with the same signature.
package scoring

import "math"

// DefaultIterations matches the peer's calibration of the recurrence.
const DefaultIterations = 600_000

// DefaultThreshold gates which results are forwarded downstream.
const DefaultThreshold = 50.0

// Func scores one task. Implementations must be pure and deterministic:
// identical arguments yield bit-identical results.
type Func func(load float32, uptime int32, id int32) float64

// New returns the stability scorer with the given iteration count.
func New(iterations int) Func {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return func(load float32, uptime int32, id int32) float64 {
		return stability(load, uptime, id, iterations)
	}
}

func stability(load float32, uptime int32, id int32, iterations int) float64 {
	score := 0.5 + float64(((id%10)+10)%10)*0.01

	loadFactor := float64(load) * 0.001
	uptimeFactor := float64(uptime) / 10000.0

	for i := 0; i < iterations; i++ {
		factor1 := math.Cos(loadFactor * float64(i))
		factor2 := math.Sin(uptimeFactor * float64(i))
		factor3 := 0.0
		if math.Abs(score) < 100 {
			factor3 = math.Tan(score * 0.01)
		}
		score = math.Abs(math.Sin(score + factor1*factor2 - factor3*0.001))
	}

	return score * 100.0
}
