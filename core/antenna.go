package core

import "math"

// LaserAntenna models the transmit side of an FSO terminal: a laser with a
// Gaussian beam. BeamwidthM is the beam diameter at the transmitter; the
// phase-front radius controls divergence (a radius roughly equal to the link
// distance approximates a collimated beam at long range).
type LaserAntenna struct {
	BeamwidthM        float64
	PhaseFrontRadiusM float64
	OrientationRad    float64
	TxPowerW          float64
	GainDB            float64
}

// Gain returns the transmit antenna gain in dB.
func (a *LaserAntenna) Gain() float64 { return a.GainDB }

// Orientation returns the boresight orientation in radians.
func (a *LaserAntenna) Orientation() float64 { return a.OrientationRad }

// BeamRadiusM returns the beam radius at the transmitter (half the
// configured beamwidth diameter).
func (a *LaserAntenna) BeamRadiusM() float64 { return a.BeamwidthM / 2 }

// TxPowerDBm returns the configured laser power in dBm.
func (a *LaserAntenna) TxPowerDBm() float64 { return WToDBm(a.TxPowerW) }

// OpticalRxAntenna models the receive telescope of an optical ground
// station.
type OpticalRxAntenna struct {
	ApertureDiameterM float64
	GainDB            float64
	OrientationRad    float64
}

// Gain returns the receive antenna gain in dB.
func (a *OpticalRxAntenna) Gain() float64 { return a.GainDB }

// Orientation returns the boresight orientation in radians.
func (a *OpticalRxAntenna) Orientation() float64 { return a.OrientationRad }

// ApertureAreaM2 returns the collecting area of the telescope aperture.
func (a *OpticalRxAntenna) ApertureAreaM2() float64 {
	r := a.ApertureDiameterM / 2
	return math.Pi * r * r
}
