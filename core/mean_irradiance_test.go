package core

import (
	"math"
	"testing"
)

func referenceBeamParams(t *testing.T) SignalParameters {
	t.Helper()
	p, err := NewSignalParameters(847e-9, 49.3724e6)
	if err != nil {
		t.Fatalf("NewSignalParameters: %v", err)
	}
	p.PowerDBm = -3
	p.TxBeamwidthM = 0.06
	p.TxPhaseFrontRadiusM = 707000
	return p
}

func TestMeanIrradianceReferenceGeometry(t *testing.T) {
	m := &MeanIrradianceModel{}
	p := referenceBeamParams(t)

	out := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	if !out.HasMeanIrradiance() {
		t.Fatalf("mean irradiance not attached")
	}
	// At the phase-front-radius distance the beam is purely diffractive:
	// W = W0·Λ0, Λ0 = 2L/(kW0²), and Ī = 2P/(πW²).
	k := 2 * math.Pi / p.WavelengthM
	w := p.TxBeamwidthM * (2 * 707000 / (k * p.TxBeamwidthM * p.TxBeamwidthM))
	want := 2 * p.PowerW() / (math.Pi * w * w)
	if got := out.MeanIrradiance(); math.Abs(got-want)/want > 1e-9 {
		t.Errorf("mean irradiance = %v, want %v", got, want)
	}
}

func TestMeanIrradianceDecreasesWithDistance(t *testing.T) {
	m := &MeanIrradianceModel{}
	p := referenceBeamParams(t)
	p.TxPhaseFrontRadiusM = 0 // collimated

	near := m.Apply(p, Vec3{Z: 100000}, Vec3{}).MeanIrradiance()
	far := m.Apply(p, Vec3{Z: 1000000}, Vec3{}).MeanIrradiance()
	if far >= near {
		t.Errorf("irradiance should fall with distance: near=%v far=%v", near, far)
	}
}

func TestMeanIrradianceUsesChainAdjustedPower(t *testing.T) {
	m := &MeanIrradianceModel{}
	p := referenceBeamParams(t)

	strong := m.Apply(p, Vec3{Z: 707000}, Vec3{}).MeanIrradiance()
	p.PowerDBm -= 10
	weak := m.Apply(p, Vec3{Z: 707000}, Vec3{}).MeanIrradiance()
	if ratio := strong / weak; math.Abs(ratio-10) > 1e-6 {
		t.Errorf("10 dB of power should be a 10x irradiance ratio, got %v", ratio)
	}
}

func TestMeanIrradianceOrderSensitivity(t *testing.T) {
	// When the scintillation index is already attached, the beam widens by
	// the long-term turbulent spread, so swapping scintillation and mean
	// irradiance in the chain changes the result.
	m := &MeanIrradianceModel{}
	p := referenceBeamParams(t)

	without := m.Apply(p, Vec3{Z: 707000}, Vec3{}).MeanIrradiance()

	p.SetScintillationIndex(0.3)
	with := m.Apply(p, Vec3{Z: 707000}, Vec3{}).MeanIrradiance()

	if with >= without {
		t.Errorf("turbulent spread should reduce mean irradiance: with=%v without=%v", with, without)
	}
}

func TestMeanIrradianceZeroDistance(t *testing.T) {
	m := &MeanIrradianceModel{}
	p := referenceBeamParams(t)
	p.TxPhaseFrontRadiusM = 0

	out := m.Apply(p, Vec3{}, Vec3{})
	// At zero distance the spot is the transmit beam itself.
	want := 2 * p.PowerW() / (math.Pi * p.TxBeamwidthM * p.TxBeamwidthM)
	if got := out.MeanIrradiance(); math.Abs(got-want)/want > 1e-9 {
		t.Errorf("zero-distance irradiance = %v, want %v", got, want)
	}
}

func TestMeanIrradianceSkipsWithoutBeamwidth(t *testing.T) {
	m := &MeanIrradianceModel{}
	p, _ := NewSignalParameters(847e-9, 50e6)

	out := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	if out.HasMeanIrradiance() {
		t.Errorf("model should tolerate a missing beamwidth by leaving the signal untouched")
	}
}
