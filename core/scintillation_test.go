package core

import (
	"math"
	"testing"
)

func hv57Model() *DownLinkScintillationIndexModel {
	return &DownLinkScintillationIndexModel{
		RmsWindSpeedMPerS: 21.0,
		GndRefractiveIdx:  1.7e-13,
	}
}

func TestScintillationIndexReferenceDownlink(t *testing.T) {
	m := hv57Model()
	p, _ := NewSignalParameters(847e-9, 50e6)

	out := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	if !out.HasScintillationIndex() {
		t.Fatalf("scintillation index not attached")
	}
	si := out.ScintillationIndex()
	// Weak-turbulence downlink at zenith: the index should land well under 1.
	if si <= 0 || si >= 1 {
		t.Errorf("scintillation index = %v, want in (0, 1) for weak turbulence", si)
	}
}

func TestScintillationIndexDeterministic(t *testing.T) {
	m := hv57Model()
	p, _ := NewSignalParameters(847e-9, 50e6)

	a := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	b := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	if a.ScintillationIndex() != b.ScintillationIndex() {
		t.Errorf("index must be a pure function of geometry: %v != %v",
			a.ScintillationIndex(), b.ScintillationIndex())
	}
}

func TestScintillationIndexGrowsOffZenith(t *testing.T) {
	m := hv57Model()
	p, _ := NewSignalParameters(847e-9, 50e6)

	zenith := m.Apply(p, Vec3{Z: 707000}, Vec3{}).ScintillationIndex()
	// Same altitude, but slanted: sec(ζ) > 1 must increase the index.
	slant := m.Apply(p, Vec3{X: 500000, Z: 707000}, Vec3{}).ScintillationIndex()
	if slant <= zenith {
		t.Errorf("slant-path index %v should exceed zenith index %v", slant, zenith)
	}
}

func TestScintillationIndexDegenerateGeometry(t *testing.T) {
	m := hv57Model()
	p, _ := NewSignalParameters(847e-9, 50e6)

	// Transmitter at or below the receiver altitude: no turbulent path.
	out := m.Apply(p, Vec3{}, Vec3{Z: 707000})
	if !out.HasScintillationIndex() || out.ScintillationIndex() != 0 {
		t.Errorf("degenerate geometry should record a zero index, got %v", out.ScintillationIndex())
	}
}

func TestScintillationDoesNotTouchPower(t *testing.T) {
	m := hv57Model()
	p, _ := NewSignalParameters(847e-9, 50e6)
	p.PowerDBm = 17.5

	out := m.Apply(p, Vec3{Z: 707000}, Vec3{})
	if out.PowerDBm != 17.5 {
		t.Errorf("scintillation model altered power: %v", out.PowerDBm)
	}
}

func TestHufnagelValleyProfileShape(t *testing.T) {
	m := hv57Model()

	ground := m.cn2(0)
	if math.Abs(ground-(1.7e-13+2.7e-16)) > 1e-16 {
		t.Errorf("Cn²(0) = %v, want ground constant plus mid-altitude term", ground)
	}
	// Turbulence decays with altitude apart from the upper-atmosphere bump.
	if m.cn2(20000) >= m.cn2(100) {
		t.Errorf("Cn² at 20 km should be far below Cn² at 100 m")
	}
	if m.cn2(100000) >= m.cn2(10000) {
		t.Errorf("Cn² should keep decaying into space")
	}
}
