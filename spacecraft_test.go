package tkep

import (
	"testing"

	"github.com/gonum/floats"
)

func TestThrusters(t *testing.T) {
	for _, thruster := range []EPThruster{new(PPS1350), new(HERMeS), NewGenericEP(1, 1000)} {
		voltage, power := thruster.Max()
		thrust, isp := thruster.Thrust(voltage, power)
		if thrust <= 0 || isp <= 0 {
			t.Fatalf("invalid thrust %f or isp %f at max power", thrust, isp)
		}
		minV, minP := thruster.Min()
		if minV > voltage || minP > power {
			t.Fatal("min requirements exceed max requirements")
		}
	}
	assertPanic(t, "invalid PPS1350 power", func() {
		new(PPS1350).Thrust(10, 10)
	})
}

func TestSpacecraftMaxThrust(t *testing.T) {
	sc := NewSpacecraft("SMART-1", 287, 82, []EPThruster{new(PPS1350)})
	if sc.Mass() != 369 {
		t.Fatalf("total mass is %f kg", sc.Mass())
	}
	thrust, veff := sc.MaxThrust()
	if !floats.EqualWithinAbs(thrust, 89e-6, 1e-12) {
		t.Fatalf("max thrust is %e kg·km/s²", thrust)
	}
	// A single thruster spacecraft has veff = isp·g0.
	if !floats.EqualWithinAbs(veff, 1650*g0, 1e-9) {
		t.Fatalf("veff is %f km/s", veff)
	}
	sc.LogInfo()
}

func TestSpacecraftCoastDynamics(t *testing.T) {
	sc := NewEmptySC("coast", 1500)
	dyn := sc.Dynamics([3]float64{0, 1, 0}, Earth)
	if dyn.Thrust != [3]float64{} {
		t.Fatalf("thrusterless spacecraft thrusts: %+v", dyn.Thrust)
	}
	if dyn.VEff != 1 {
		t.Fatalf("coasting veff must default to 1, got %f", dyn.VEff)
	}
	if dyn.Mu != Earth.GM() || dyn.J2RG2 != Earth.J2RG2() {
		t.Fatal("dynamics does not carry the body parameters")
	}
}

func TestSpacecraftThrustDynamics(t *testing.T) {
	sc := NewSpacecraft("twin", 500, 100, []EPThruster{NewGenericEP(0.5, 2000), NewGenericEP(0.5, 2000)})
	thrust, veff := sc.MaxThrust()
	if !floats.EqualWithinAbs(thrust, 1e-3, 1e-12) {
		t.Fatalf("combined thrust is %e kg·km/s²", thrust)
	}
	if !floats.EqualWithinAbs(veff, 2000*g0, 1e-9) {
		t.Fatalf("identical thrusters must keep veff = isp·g0, got %f", veff)
	}
	dyn := sc.Dynamics([3]float64{0, 0.5, 0}, Earth)
	if !floats.EqualWithinAbs(dyn.Thrust[1], 0.5e-3, 1e-12) {
		t.Fatalf("throttled thrust is %e", dyn.Thrust[1])
	}
}
