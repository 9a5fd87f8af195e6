package tkep

import (
	"fmt"
	"math"
)

/* Taylor-series propagation of a constant-thrust trajectory about an oblate body.

The equations of motion (two-body gravity + J2 + constant inertial thrust +
mass flow) are differentiated order by order via recurrence relations, cf.
Jorba & Zou, "A software package for the numerical integration of ODEs by
means of high-order Taylor methods". Both the expansion order and the step
size are chosen adaptively at every step. */

// Dynamics holds the constant parameters of one propagation: the inertial
// thrust vector, the central body gravitational parameter μ, the effective
// exhaust velocity and the J2·R² oblateness coefficient. Units must be
// consistent (e.g. km, kg, s and km³/s²).
type Dynamics struct {
	Thrust [3]float64
	Mu     float64
	VEff   float64
	J2RG2  float64
}

// State is the 7-component propagation state: position, velocity and mass.
// It is mutated in place by Propagate and owned by the caller.
type State struct {
	R    [3]float64
	V    [3]float64
	Mass float64
}

// infNorm returns the largest magnitude component of the state.
func (s State) infNorm() float64 {
	m := math.Abs(s.Mass)
	for i := 0; i < 3; i++ {
		m = math.Max(m, math.Abs(s.R[i]))
		m = math.Max(m, math.Abs(s.V[i]))
	}
	return m
}

func (s State) String() string {
	return fmt.Sprintf("R=%+v km\tV=%+v km/s\tm=%f kg", s.R, s.V, s.Mass)
}

// OrderError is returned when the tolerance-driven order selection requires
// more Taylor coefficients than MaxOrder permits. Raise MaxOrder or loosen
// the tolerances and retry.
type OrderError struct {
	Order, MaxOrder int
}

func (e OrderError) Error() string {
	return fmt.Sprintf("polynomial order %d exceeds maximum order %d", e.Order, e.MaxOrder)
}

// IterError is returned when the requested duration was not consumed within
// MaxIter steps, e.g. on step-size collapse near a singularity. Remaining
// holds the unconsumed duration.
type IterError struct {
	MaxIter   int
	Remaining float64
}

func (e IterError) Error() string {
	return fmt.Sprintf("maximum number of iterations reached (%d), %f s remaining", e.MaxIter, e.Remaining)
}

// auxVars holds the automatic differentiation scratch quantities of a single
// order. Each field of order n is derived only from fields of orders ≤ n.
// The field order matches the computation order.
type auxVars struct {
	x, y, z, vx, vy, vz, m float64 // state copy
	x2, y2, z2             float64 // squared coordinates
	s2, r2                 float64 // x²+y², r²
	r3i                    float64 // (r²)^(-3/2)
	gmr3                   float64 // -μ/r³
	gx, gy, gz             float64 // -μ{x,y,z}/r³
	mi                     float64 // 1/m
	one                    float64 // the constant 1
	r2i                    float64 // 1/r²
	j2f                    float64 // 3/2 J2R²/r²
	z2r2                   float64 // z²/r²
	w1, w3                 float64 // 1-5z²/r², 3-5z²/r²
	j2xy, j2z              float64 // j2f·w1, j2f·w3
	kxy, kz                float64 // 1+j2xy, 1+j2z
	ax, ay, az             float64 // gravity × J2 correction
	fx, fy, fz             float64 // acceleration incl. thrust
}

// Propagator holds the accuracy configuration and the coefficient arenas
// reused across steps and calls. A Propagator is not safe for concurrent
// use; propagate independent states with independent Propagators.
type Propagator struct {
	cfg PropConfig
	x   [][7]float64 // Taylor coefficients, one row per order 0..N
	u   []auxVars    // scratch table, one row per order 0..N-1

	lastStep float64

	// OnStep, if set, is called after every accepted step with the elapsed
	// time since the call to Propagate, the step just taken and the updated
	// state.
	OnStep func(elapsed, step float64, s State)
}

// NewPropagator returns a Taylor propagator with the provided configuration.
func NewPropagator(cfg PropConfig) *Propagator {
	if cfg.MaxOrder < 1 || cfg.MaxIter < 1 {
		panic("config MaxOrder and MaxIter must be positive")
	}
	return &Propagator{cfg: cfg}
}

// LastStep returns the length of the last step taken, signed like the
// requested duration.
func (p *Propagator) LastStep() float64 {
	return p.lastStep
}

// taylorOrder returns the expansion order needed to meet the target
// truncation error εm. Do not re-derive this formula: the step-size safety
// margin depends on it (Jorba).
func taylorOrder(εm float64) int {
	return int(math.Ceil(-0.5*math.Log(εm) + 1))
}

// resize grows the coefficient arenas to the given order. Capacity is kept
// across calls so the hot loop does not reallocate.
func (p *Propagator) resize(order int) {
	if cap(p.x) <= order {
		p.x = make([][7]float64, order+1)
		p.u = make([]auxVars, order)
	}
	p.x = p.x[:order+1]
	p.u = p.u[:order]
}

// Propagate advances s by the requested signed duration under dyn, mutating
// it in place. It returns the last step taken. On failure (OrderError,
// IterError) s holds the state at the last completed step.
func (p *Propagator) Propagate(s *State, dyn Dynamics, duration float64) (float64, error) {
	p.lastStep = 0
	if duration == 0 {
		return 0, nil
	}
	εa := math.Pow(10, p.cfg.LogTol)
	εr := math.Pow(10, p.cfg.LogRelTol)
	remaining := duration
	for i := 0; i < p.cfg.MaxIter; i++ {
		// Jorba's method: the target truncation error selects the order.
		xm := s.infNorm()
		εm := εr
		absTol := εr*xm < εa
		if absTol {
			εm = εa
		}
		order := taylorOrder(εm)
		if order > p.cfg.MaxOrder {
			return p.lastStep, OrderError{order, p.cfg.MaxOrder}
		}
		p.resize(order)
		h := p.step(s, dyn, remaining, order, xm, absTol)
		p.lastStep = h
		if p.OnStep != nil {
			p.OnStep(duration-remaining+h, h, *s)
		}
		if math.Abs(h) >= math.Abs(remaining) {
			return h, nil
		}
		remaining -= h
	}
	return p.lastStep, IterError{p.cfg.MaxIter, remaining}
}

// step fills the coefficient tables at the given order, estimates the safe
// step from the two highest-order coefficients, clamps it to the remaining
// duration h and sums the truncated series into s. Returns the step taken.
func (p *Propagator) step(s *State, dyn Dynamics, h float64, order int, xm float64, absTol bool) float64 {
	p.x[0] = [7]float64{s.R[0], s.R[1], s.R[2], s.V[0], s.V[1], s.V[2], s.Mass}
	p.coefficients(dyn, order)

	// Infinity norms of the two highest-order coefficient rows.
	var xmN, xmN1 float64
	for i := 0; i < 7; i++ {
		xmN = math.Max(xmN, math.Abs(p.x[order][i]))
		xmN1 = math.Max(xmN1, math.Abs(p.x[order-1][i]))
	}

	// Estimate of the series convergence radius, with a guaranteed e²
	// safety margin (do not re-derive these constants).
	num := xm
	if absTol {
		num = 1
	}
	ρm := math.Min(math.Pow(num/xmN, 1/float64(order)), math.Pow(num/xmN1, 1/float64(order-1)))
	step := ρm / (math.E * math.E)

	if h < 0 {
		step = -step
	}
	if math.Abs(step) > math.Abs(h) {
		step = h
	}

	// Sum the series in increasing powers of the step.
	steppow := step
	for j := 1; j <= order; j++ {
		for i := 0; i < 3; i++ {
			s.R[i] += p.x[j][i] * steppow
			s.V[i] += p.x[j][i+3] * steppow
		}
		steppow *= step
	}
	// Thrust is constant so all mass coefficients above order 1 vanish.
	s.Mass += p.x[1][6] * step
	return step
}

// coefficients fills x[1..order] with the Taylor coefficients of the state
// derivatives by automatic differentiation of the equations of motion,
// using Cauchy-product recurrences on the scratch table u. x[0] must hold
// the current state.
func (p *Propagator) coefficients(dyn Dynamics, order int) {
	const (
		α = -1.5 // exponent of r² in r^-3
		β = -1.  // exponent of m and r² in their inverses
	)
	x, u := p.x, p.u
	sqrtT := math.Sqrt(dyn.Thrust[0]*dyn.Thrust[0] + dyn.Thrust[1]*dyn.Thrust[1] + dyn.Thrust[2]*dyn.Thrust[2])
	for n := 0; n < order; n++ {
		fn := float64(n)
		u[n] = auxVars{
			x: x[n][0], y: x[n][1], z: x[n][2],
			vx: x[n][3], vy: x[n][4], vz: x[n][5],
			m: x[n][6],
		}
		for j := 0; j <= n; j++ {
			u[n].x2 += u[j].x * u[n-j].x
			u[n].y2 += u[j].y * u[n-j].y
			u[n].z2 += u[j].z * u[n-j].z
		}
		u[n].s2 = u[n].x2 + u[n].y2
		u[n].r2 = u[n].s2 + u[n].z2

		// (r²)^(-3/2) via the generalized Leibniz rule for fractional
		// powers, seeded analytically at order zero.
		if n == 0 {
			u[0].r3i = math.Sqrt(1 / (u[0].r2 * u[0].r2 * u[0].r2))
		} else {
			for j := 0; j < n; j++ {
				u[n].r3i += (α*fn - float64(j)*(α+1)) * u[n-j].r2 * u[j].r3i
			}
			u[n].r3i /= fn * u[0].r2
		}

		u[n].gmr3 = -u[n].r3i * dyn.Mu
		for j := 0; j <= n; j++ {
			u[n].gx += u[j].x * u[n-j].gmr3
			u[n].gy += u[j].y * u[n-j].gmr3
			u[n].gz += u[j].z * u[n-j].gmr3
		}

		// 1/m, same quotient recurrence with β=-1.
		if n == 0 {
			u[0].mi = 1 / u[0].m
		} else {
			for j := 0; j < n; j++ {
				u[n].mi += (β*fn - float64(j)*(β+1)) * u[n-j].m * u[j].mi
			}
			u[n].mi /= fn * u[0].m
		}

		// J2 correction terms.
		if n == 0 {
			u[0].one = 1
			u[0].r2i = 1 / u[0].r2
		} else {
			for j := 0; j < n; j++ {
				u[n].r2i += (β*fn - float64(j)*(β+1)) * u[n-j].r2 * u[j].r2i
			}
			u[n].r2i /= fn * u[0].r2
		}
		u[n].j2f = 3. / 2. * dyn.J2RG2 * u[n].r2i
		for j := 0; j <= n; j++ {
			u[n].z2r2 += u[j].z2 * u[n-j].r2i
		}
		u[n].w1 = u[n].one - 5*u[n].z2r2
		u[n].w3 = 3*u[n].one - 5*u[n].z2r2
		for j := 0; j <= n; j++ {
			u[n].j2xy += u[j].j2f * u[n-j].w1
			u[n].j2z += u[j].j2f * u[n-j].w3
		}
		u[n].kxy = u[n].one + u[n].j2xy
		u[n].kz = u[n].one + u[n].j2z
		for j := 0; j <= n; j++ {
			u[n].ax += u[j].gx * u[n-j].kxy
			u[n].ay += u[j].gy * u[n-j].kxy
			u[n].az += u[j].gz * u[n-j].kz
		}

		u[n].fx = u[n].ax + u[n].mi*dyn.Thrust[0]
		u[n].fy = u[n].ay + u[n].mi*dyn.Thrust[1]
		u[n].fz = u[n].az + u[n].mi*dyn.Thrust[2]

		x[n+1][0] = u[n].vx / (fn + 1)
		x[n+1][1] = u[n].vy / (fn + 1)
		x[n+1][2] = u[n].vz / (fn + 1)
		x[n+1][3] = u[n].fx / (fn + 1)
		x[n+1][4] = u[n].fy / (fn + 1)
		x[n+1][5] = u[n].fz / (fn + 1)
		if n == 0 {
			x[1][6] = -sqrtT / dyn.VEff
		} else {
			x[n+1][6] = 0
		}
	}
}
