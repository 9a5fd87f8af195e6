package tkep

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestOrbitRVRoundTrip(t *testing.T) {
	o := NewOrbitFromOE(7000, 0.1, 30, 80, 40, 65, Earth)
	o1 := NewOrbitFromRV(o.R(), o.V(), Earth)
	if ok, err := o.StrictlyEquals(*o1); !ok {
		t.Fatalf("OE -> RV -> OE round trip failed: %s\no:  %s\no1: %s", err, o, o1)
	}
}

func TestOrbitNorms(t *testing.T) {
	o := NewOrbitFromOE(26600, 0.75, 63.4, 90, 270, 10, Earth)
	if !floats.EqualWithinAbs(o.RNorm(), norm(o.R()), 1e-8) {
		t.Fatalf("RNorm = %f but norm(R) = %f", o.RNorm(), norm(o.R()))
	}
	if !floats.EqualWithinAbs(o.VNorm(), norm(o.V()), 1e-8) {
		t.Fatalf("VNorm = %f but norm(V) = %f", o.VNorm(), norm(o.V()))
	}
	if o.Energyξ() >= 0 {
		t.Fatal("closed orbit has a non-negative specific energy")
	}
}

func TestOrbitPeriod(t *testing.T) {
	// A GEO orbit has a period of about one sidereal day.
	o := NewOrbitFromOE(42164.0, 0, 0, 0, 0, 0, Earth)
	sidereal := 23*time.Hour + 56*time.Minute + 4*time.Second
	if diff := o.Period() - sidereal; diff > 15*time.Second || diff < -15*time.Second {
		t.Fatalf("GEO period off by %s", diff)
	}
}

func TestOrbitEquality(t *testing.T) {
	o := NewOrbitFromOE(7000, 0.1, 30, 80, 40, 65, Earth)
	if ok, err := o.Equals(*NewOrbitFromOE(7000, 0.1, 30, 80, 40, 300, Earth)); !ok {
		t.Fatalf("free true anomaly equality failed: %s", err)
	}
	if ok, _ := o.StrictlyEquals(*NewOrbitFromOE(7000, 0.1, 30, 80, 40, 300, Earth)); ok {
		t.Fatal("strict equality ignored the true anomaly")
	}
	if ok, _ := o.Equals(*NewOrbitFromOE(8000, 0.1, 30, 80, 40, 65, Earth)); ok {
		t.Fatal("equality ignored the semi major axis")
	}
	if ok, _ := o.Equals(*NewOrbitFromOE(7000, 0.1, 30, 80, 40, 65, Mars)); ok {
		t.Fatal("equality ignored the origin")
	}
}

func TestOrbitStateRoundTrip(t *testing.T) {
	o := NewOrbitFromOE(7000, 0.1, 30, 80, 40, 65, Earth)
	s := NewState(o, 1500)
	if s.Mass != 1500 {
		t.Fatalf("state mass is %f", s.Mass)
	}
	if ok, err := o.StrictlyEquals(*s.Orbit(Earth)); !ok {
		t.Fatalf("orbit -> state -> orbit round trip failed: %s", err)
	}
	if !floats.EqualWithinAbs(norm(s.R[:]), o.RNorm(), 1e-8) {
		t.Fatalf("state radius is %f, expected %f", norm(s.R[:]), o.RNorm())
	}
}

func TestOrbitCircularEquatorial(t *testing.T) {
	o := NewOrbitFromOE(42164, 0, 0, 0, 0, 120, Earth)
	R := o.R()
	if !floats.EqualWithinAbs(norm(R), 42164, distanceε) {
		t.Fatalf("circular equatorial radius is %f", norm(R))
	}
	if !floats.EqualWithinAbs(R[2], 0, 1e2) {
		t.Fatalf("equatorial orbit has an out of plane component of %f", R[2])
	}
	λ := math.Atan2(R[1], R[0])
	if !floats.EqualWithinAbs(λ, Deg2rad(120), 1e-3) {
		t.Fatalf("true longitude is %f rad", λ)
	}
}
