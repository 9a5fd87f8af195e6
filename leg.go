package tkep

import (
	"fmt"
	"sync"
)

/* Low-thrust trajectory leg bookkeeping built atop the Taylor propagator. */

// LegState is one sampled state of a leg propagation.
type LegState struct {
	T     float64 // seconds elapsed since the leg departure
	Step  float64 // step length which produced this sample
	State State
}

// Leg is a single low-thrust phase flown at a constant throttle between a
// departure and an arrival state. The leg is feasible whenever Mismatch
// returns all zeros and ThrottleCon is not positive.
type Leg struct {
	SC                 *Spacecraft
	Body               CelestialObject
	Throttle           [3]float64 // cartesian components of the normalized thrust, |Throttle| ≤ 1
	Departure, Arrival State

	fwd, bwd *Propagator
	histChan chan LegState
	wg       sync.WaitGroup
}

// NewLeg returns a leg ready for mismatch evaluations. The ExportConfig may
// be useless, in which case no state is streamed.
func NewLeg(sc *Spacecraft, body CelestialObject, throttle [3]float64, departure, arrival State, cfg PropConfig, conf ExportConfig) *Leg {
	if body.GM() <= 0 {
		panic(fmt.Errorf("gravity parameter of %s must be positive (forgot to set it?)", body.Name))
	}
	if departure.Mass <= 0 || arrival.Mass <= 0 {
		panic("spacecraft mass must be positive (forgot to set it?)")
	}
	l := &Leg{SC: sc, Body: body, Throttle: throttle, Departure: departure, Arrival: arrival,
		fwd: NewPropagator(cfg), bwd: NewPropagator(cfg)}
	if !conf.IsUseless() {
		l.histChan = make(chan LegState, 1000) // a 1k entry buffer
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			StreamStates(conf, l.histChan)
		}()
	}
	return l
}

// ThrottleCon returns the throttle magnitude constraint |u|²-1, which must
// not be positive for the leg to be flyable.
func (l *Leg) ThrottleCon() float64 {
	return l.Throttle[0]*l.Throttle[0] + l.Throttle[1]*l.Throttle[1] + l.Throttle[2]*l.Throttle[2] - 1
}

// Forward propagates a copy of the departure state to the midpoint of the
// leg and returns it.
func (l *Leg) Forward(duration float64) (State, error) {
	s := l.Departure
	l.fwd.OnStep = func(elapsed, step float64, cur State) {
		if l.histChan != nil {
			l.histChan <- LegState{elapsed, step, cur}
		}
		if cur.Mass < l.SC.DryMass {
			l.SC.logger.Log("level", "critical", "subsys", "leg", "fuel(kg)", cur.Mass-l.SC.DryMass)
		}
	}
	_, err := l.fwd.Propagate(&s, l.SC.Dynamics(l.Throttle, l.Body), duration/2)
	if err != nil {
		l.SC.logger.Log("level", "error", "subsys", "leg", "dir", "forward", "err", err)
	}
	return s, err
}

// Backward propagates a copy of the arrival state back to the midpoint of
// the leg and returns it.
func (l *Leg) Backward(duration float64) (State, error) {
	s := l.Arrival
	l.bwd.OnStep = func(elapsed, step float64, cur State) {
		if l.histChan != nil {
			// elapsed runs negative from the arrival epoch.
			l.histChan <- LegState{duration + elapsed, step, cur}
		}
	}
	_, err := l.bwd.Propagate(&s, l.SC.Dynamics(l.Throttle, l.Body), -duration/2)
	if err != nil {
		l.SC.logger.Log("level", "error", "subsys", "leg", "dir", "backward", "err", err)
	}
	return s, err
}

// Mismatch performs a forward and a backward shoot over the leg duration and
// returns the seven-component midpoint mismatch (position, velocity, mass).
// A feasible leg has a zero mismatch.
func (l *Leg) Mismatch(duration float64) (con [7]float64, err error) {
	fwd, err := l.Forward(duration)
	if err != nil {
		return con, err
	}
	bwd, err := l.Backward(duration)
	if err != nil {
		return con, err
	}
	for i := 0; i < 3; i++ {
		con[i] = fwd.R[i] - bwd.R[i]
		con[i+3] = fwd.V[i] - bwd.V[i]
	}
	con[6] = fwd.Mass - bwd.Mass
	return con, nil
}

// Close flushes and closes the state stream, if any. The leg may not be
// propagated afterwards.
func (l *Leg) Close() {
	if l.histChan != nil {
		close(l.histChan)
		l.histChan = nil
	}
	l.wg.Wait()
}
