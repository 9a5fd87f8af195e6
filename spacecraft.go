package tkep

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// g0 is the standard gravity in km/s².
	g0 = 9.80665e-3
)

// EPThruster defines a EPThruster interface.
type EPThruster interface {
	// Returns the minimum power and voltage requirements for this EPThruster.
	Min() (voltage, power uint)
	// Returns the max power and voltage requirements for this EPThruster.
	Max() (voltage, power uint)
	// Returns the thrust in Newtons and isp consumed in seconds.
	Thrust(voltage, power uint) (thrust, isp float64)
}

/* Available EPThrusters */

// PPS1350 is the Snecma EPThruster used on SMART-1.
type PPS1350 struct{}

// Min implements the EPThruster interface.
func (t *PPS1350) Min() (voltage, power uint) {
	return t.Max()
}

// Max implements the EPThruster interface.
func (t *PPS1350) Max() (voltage, power uint) {
	return 350, 2500
}

// Thrust implements the EPThruster interface.
func (t *PPS1350) Thrust(voltage, power uint) (thrust, isp float64) {
	if voltage == 350 && power == 2500 {
		return 89e-3, 1650
	}
	panic("unsupported voltage or power provided")
}

// HERMeS is based on the NASA & Rocketdyne 12.5kW demo
type HERMeS struct{}

// Min implements the EPThruster interface.
func (t *HERMeS) Min() (voltage, power uint) {
	return t.Max()
}

// Max implements the EPThruster interface.
func (t *HERMeS) Max() (voltage, power uint) {
	return 800, 12500
}

// Thrust implements the EPThruster interface.
func (t *HERMeS) Thrust(voltage, power uint) (thrust, isp float64) {
	if voltage == 800 && power == 12500 {
		return 0.680, 2960
	}
	panic("unsupported voltage or power provided")
}

// GenericEP is a generic EP EPThruster.
type GenericEP struct {
	thrust float64
	isp    float64
}

// Min implements the EPThruster interface.
func (t *GenericEP) Min() (voltage, power uint) {
	return 0, 0
}

// Max implements the EPThruster interface.
func (t *GenericEP) Max() (voltage, power uint) {
	return 0, 0
}

// Thrust implements the EPThruster interface.
func (t *GenericEP) Thrust(voltage, power uint) (thrust, isp float64) {
	return t.thrust, t.isp
}

// NewGenericEP returns a generic electric prop EPThruster.
func NewGenericEP(thrust, isp float64) *GenericEP {
	return &GenericEP{thrust, isp}
}

// Spacecraft defines a new spacecraft.
type Spacecraft struct {
	Name      string       // Name of spacecraft
	DryMass   float64      // DryMass of spacecraft (in kg)
	FuelMass  float64      // FuelMass of spacecraft (in kg) (will panic if runs out of fuel)
	Thrusters []EPThruster // All available thrusters
	logger    kitlog.Logger
}

// Mass returns the total mass of the spacecraft.
func (sc *Spacecraft) Mass() float64 {
	return sc.DryMass + sc.FuelMass
}

// MaxThrust returns the maximum thrust in kg·km/s² of all thrusters at full
// power along with the combined effective exhaust velocity in km/s.
func (sc *Spacecraft) MaxThrust() (thrust, veff float64) {
	var flow float64
	for _, t := range sc.Thrusters {
		voltage, power := t.Max()
		tN, isp := t.Thrust(voltage, power)
		thrust += tN * 1e-3 // N to kg·km/s²
		flow += tN * 1e-3 / (isp * g0)
	}
	if flow == 0 {
		return 0, 0
	}
	veff = thrust / flow
	return
}

// Dynamics returns the propagation dynamics of this spacecraft thrusting
// along the provided throttle vector (|throttle| ≤ 1) about the given body.
func (sc *Spacecraft) Dynamics(throttle [3]float64, body CelestialObject) Dynamics {
	thrust, veff := sc.MaxThrust()
	if veff == 0 {
		veff = 1 // Coasting: the mass flow is zero regardless.
	}
	return Dynamics{
		Thrust: [3]float64{throttle[0] * thrust, throttle[1] * thrust, throttle[2] * thrust},
		Mu:     body.GM(),
		VEff:   veff,
		J2RG2:  body.J2RG2(),
	}
}

// LogInfo logs the information of this spacecraft.
func (sc *Spacecraft) LogInfo() {
	thrust, veff := sc.MaxThrust()
	sc.logger.Log("level", "info", "subsys", "sc", "dryMass(kg)", sc.DryMass, "fuel(kg)", sc.FuelMass, "thrust(N)", thrust*1e3, "veff(km/s)", veff)
}

// NewSpacecraft returns a spacecraft with the provided thrusters and a
// dedicated logger.
func NewSpacecraft(name string, dryMass, fuelMass float64, thrusters []EPThruster) *Spacecraft {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "spacecraft", name)
	return &Spacecraft{name, dryMass, fuelMass, thrusters, klog}
}

// NewEmptySC returns a spacecraft without any thrusters.
func NewEmptySC(name string, mass uint) *Spacecraft {
	return NewSpacecraft(name, float64(mass), 0, []EPThruster{})
}
