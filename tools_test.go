package tkep

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestHohmann(t *testing.T) {
	// LEO to GEO, Vallado example 6-1 (scaled to km).
	rI := 6569.48
	rF := 42159.48
	vI := math.Sqrt(Earth.GM() / rI)
	vF := math.Sqrt(Earth.GM() / rF)
	vDeparture, vArrival, tof := Hohmann(rI, vI, rF, vF, Earth)
	aTransfer := 0.5 * (rI + rF)
	// Both transfer velocities satisfy the vis-viva equation.
	ξ := vDeparture*vDeparture/2 - Earth.GM()/rI
	if !floats.EqualWithinAbs(ξ, -Earth.GM()/(2*aTransfer), 1e-6) {
		t.Fatalf("departure velocity off the transfer ellipse: ξ = %f", ξ)
	}
	ξ = vArrival*vArrival/2 - Earth.GM()/rF
	if !floats.EqualWithinAbs(ξ, -Earth.GM()/(2*aTransfer), 1e-6) {
		t.Fatalf("arrival velocity off the transfer ellipse: ξ = %f", ξ)
	}
	if vDeparture < vI || vArrival > vF {
		t.Fatal("raising transfer must speed up at departure and arrive slow")
	}
	expTOF := math.Pi * math.Sqrt(math.Pow(aTransfer, 3)/Earth.GM())
	if !floats.EqualWithinAbs(tof.Seconds(), expTOF, 1) {
		t.Fatalf("time of flight is %s", tof)
	}
}

func TestFlybyΔvBallistic(t *testing.T) {
	// Same magnitude, small turn angle: no thrust needed.
	vIn := mat64.NewVector(3, []float64{5, 0, 0})
	vOut := mat64.NewVector(3, []float64{5 * math.Cos(0.05), 5 * math.Sin(0.05), 0})
	safeRadius := Earth.Radius + 300
	if Δv := FlybyΔv(vIn, vOut, safeRadius, Earth); !floats.EqualWithinAbs(Δv, 0, 1e-10) {
		t.Fatalf("ballistic fly-by needs %f km/s", Δv)
	}
}

func TestFlybyΔvMagnitude(t *testing.T) {
	// No turn but a 1 km/s magnitude change must be thrusted.
	vIn := mat64.NewVector(3, []float64{6, 0, 0})
	vOut := mat64.NewVector(3, []float64{5, 0, 0})
	safeRadius := Earth.Radius + 300
	if Δv := FlybyΔv(vIn, vOut, safeRadius, Earth); !floats.EqualWithinAbs(Δv, 1, 1e-10) {
		t.Fatalf("magnitude change costs %f km/s", Δv)
	}
}

func TestFlybyΔvTurnLimit(t *testing.T) {
	// A turn angle beyond what the minimum periapsis allows needs thrust.
	vIn := mat64.NewVector(3, []float64{5, 0, 0})
	vOut := mat64.NewVector(3, []float64{5 * math.Cos(2.5), 5 * math.Sin(2.5), 0})
	safeRadius := Earth.Radius + 300
	Δv := FlybyΔv(vIn, vOut, safeRadius, Earth)
	if Δv <= 0 {
		t.Fatalf("excessive turn reported as free: %f km/s", Δv)
	}
	// A higher admissible periapsis makes the same turn more expensive.
	if worse := FlybyΔv(vIn, vOut, safeRadius+5000, Earth); worse <= Δv {
		t.Fatalf("tighter fly-by constraint got cheaper: %f vs %f", worse, Δv)
	}
}
