package tkep

import (
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
)

// Hohmann computes an Hohmann transfer. It returns the departure and arrival
// velocities, and the time of flight.
// To get final computations:
// ΔvInit = vDeparture - vI
// ΔvFinal = vArrival - vF
func Hohmann(rI, vI, rF, vF float64, body CelestialObject) (vDeparture, vArrival float64, tof time.Duration) {
	aTransfer := 0.5 * (rI + rF)
	vDeparture = math.Sqrt((2 * body.GM() / rI) - (body.GM() / aTransfer))
	vArrival = math.Sqrt((2 * body.GM() / rF) - (body.GM() / aTransfer))
	tof = time.Duration(math.Pi*math.Sqrt(math.Pow(aTransfer, 3)/body.GM())) * time.Second
	return
}

// FlybyΔv evaluates the feasibility of a fly-by described by the relative
// planetary velocities before and after. It returns the Δv thrust magnitude
// needed to make the fly-by possible: a ballistic fly-by needs none. The
// safe radius is the lowest admissible periapsis about the body.
func FlybyΔv(vRelIn, vRelOut *mat64.Vector, safeRadius float64, body CelestialObject) float64 {
	vIn2 := math.Pow(mat64.Norm(vRelIn, 2), 2)
	vOut2 := math.Pow(mat64.Norm(vRelOut, 2), 2)
	eMin := 1 + safeRadius/body.GM()*vIn2
	α := math.Acos(mat64.Dot(vRelIn, vRelOut) / math.Sqrt(vIn2*vOut2))
	// Maximum turn angle achievable at the minimum eccentricity.
	ineqΔ := α - 2*math.Asin(1/eMin)
	if ineqΔ > 0 {
		return math.Sqrt(vOut2 + vIn2 - 2.0*math.Sqrt(vOut2*vIn2)*math.Cos(ineqΔ))
	}
	return math.Abs(math.Sqrt(vOut2) - math.Sqrt(vIn2))
}
