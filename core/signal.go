package core

import (
	"fmt"
	"math"
)

// SpeedOfLightMPerS is the propagation speed used for the derived frequency
// and the constant-speed delay model.
const SpeedOfLightMPerS = 3e8

// SignalParameters describes one optical transmission as it travels from the
// transmitter through the loss-model chain to a receiver. It is a value type:
// every hop through the chain copies it, so a model can only affect the
// receivers downstream of it.
//
// Wavelength and the antenna/phy references identify the signal and must not
// be rewritten by loss models; the power and the chain-output fields
// (scintillation index, mean irradiance) are theirs to update.
type SignalParameters struct {
	WavelengthM   float64
	FrequencyHz   float64
	SymbolPeriodS float64
	PowerDBm      float64

	TxPhy     *Phy
	TxAntenna *LaserAntenna

	// TxBeamwidthM is the beam radius at the transmitter; the laser antenna
	// stores the diameter.
	TxBeamwidthM        float64
	TxPhaseFrontRadiusM float64

	scintillationIndex    float64
	hasScintillationIndex bool
	meanIrradianceWPerM2  float64
	hasMeanIrradiance     bool
}

// NewSignalParameters derives frequency and symbol period from the carrier
// wavelength and the link bit rate. A non-positive bit rate leaves the symbol
// period at zero rather than dividing by it.
func NewSignalParameters(wavelengthM, bitRateBitPerS float64) (SignalParameters, error) {
	if wavelengthM <= 0 {
		return SignalParameters{}, fmt.Errorf("wavelength must be positive, got %g", wavelengthM)
	}
	p := SignalParameters{
		WavelengthM: wavelengthM,
		FrequencyHz: SpeedOfLightMPerS / wavelengthM,
	}
	if bitRateBitPerS > 0 {
		p.SymbolPeriodS = 1 / bitRateBitPerS
	}
	return p, nil
}

// SetScintillationIndex records the turbulence statistic computed by the
// scintillation model.
func (p *SignalParameters) SetScintillationIndex(v float64) {
	p.scintillationIndex = v
	p.hasScintillationIndex = true
}

// ScintillationIndex returns the recorded scintillation index; zero if unset.
func (p SignalParameters) ScintillationIndex() float64 { return p.scintillationIndex }

// HasScintillationIndex reports whether a scintillation model has run.
func (p SignalParameters) HasScintillationIndex() bool { return p.hasScintillationIndex }

// SetMeanIrradiance records the expected receiver-plane irradiance in W/m².
func (p *SignalParameters) SetMeanIrradiance(v float64) {
	p.meanIrradianceWPerM2 = v
	p.hasMeanIrradiance = true
}

// MeanIrradiance returns the recorded mean irradiance in W/m²; zero if unset.
func (p SignalParameters) MeanIrradiance() float64 { return p.meanIrradianceWPerM2 }

// HasMeanIrradiance reports whether a mean-irradiance model has run.
func (p SignalParameters) HasMeanIrradiance() bool { return p.hasMeanIrradiance }

// PowerW returns the signal power in watts.
func (p SignalParameters) PowerW() float64 { return DBmToW(p.PowerDBm) }

// DBmToW converts dBm to watts.
func DBmToW(dbm float64) float64 {
	return math.Pow(10, dbm/10) / 1000
}

// WToDBm converts watts to dBm. Non-positive power maps to -Inf.
func WToDBm(w float64) float64 {
	if w <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(w*1000)
}
