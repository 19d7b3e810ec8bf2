package wheel

import "time"

// Cruise phase: constant speed.
const (
	CruiseSteps = 20
	CruiseDelta = 15.0
	CruiseWait  = 30 * time.Millisecond
)

// Decay phase: speed drops linearly while the wait between frames grows.
const (
	DecaySteps    = 30
	DecayDelta    = 15.0
	DecayRate     = 0.4
	DecayWait     = 50 * time.Millisecond
	DecayWaitStep = 5 * time.Millisecond
)

// SettleDelay is the pause between the last frame and the winner announcement.
const SettleDelay = 500 * time.Millisecond

// Step is one animation frame: rotate by Delta degrees, then wait.
type Step struct {
	Delta float64
	Wait  time.Duration
}

// BuildSchedule returns the fixed spin animation. It does not depend on state.
func BuildSchedule() []Step {
	steps := make([]Step, 0, CruiseSteps+DecaySteps)
	for i := 0; i < CruiseSteps; i++ {
		steps = append(steps, Step{Delta: CruiseDelta, Wait: CruiseWait})
	}
	for i := 0; i < DecaySteps; i++ {
		steps = append(steps, Step{
			Delta: DecayDelta - DecayRate*float64(i),
			Wait:  DecayWait + time.Duration(i)*DecayWaitStep,
		})
	}
	return steps
}

// TotalRotation sums the deltas of a schedule.
func TotalRotation(steps []Step) float64 {
	var total float64
	for _, s := range steps {
		total += s.Delta
	}
	return total
}

// TotalDuration sums the waits of a schedule, excluding SettleDelay.
func TotalDuration(steps []Step) time.Duration {
	var total time.Duration
	for _, s := range steps {
		total += s.Wait
	}
	return total
}
