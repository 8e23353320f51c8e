package core

import (
	"context"
	"math"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
)

// MeanIrradianceModel converts the propagated signal power into the expected
// irradiance at the receiver plane, accounting for diffractive growth of the
// Gaussian beam with distance and phase-front curvature.
//
// When a scintillation index has already been attached by an upstream model,
// the beam is additionally widened by the long-term turbulent spread, so the
// position of this model in the chain is observable in its output.
type MeanIrradianceModel struct {
	Log logging.Logger
}

// Apply writes the mean irradiance in W/m² derived from the current
// (free-space-adjusted) power and the beam geometry. A signal without a
// transmit beamwidth is passed through untouched.
func (m *MeanIrradianceModel) Apply(p SignalParameters, txPos, rxPos Vec3) SignalParameters {
	w0 := p.TxBeamwidthM
	if w0 <= 0 || p.WavelengthM <= 0 {
		if m.Log != nil {
			m.Log.Warn(context.Background(), "mean irradiance skipped: no transmit beamwidth on signal")
		}
		return p
	}

	l := txPos.DistanceTo(rxPos)
	k := 2 * math.Pi / p.WavelengthM

	// Gaussian-beam diffractive spot radius at distance l:
	// W = W0 sqrt(Θ0² + Λ0²), Θ0 = 1 - l/F0, Λ0 = 2l/(k W0²).
	theta0 := 1.0
	if f0 := p.TxPhaseFrontRadiusM; f0 > 0 {
		theta0 = 1 - l/f0
	}
	lambda0 := 2 * l / (k * w0 * w0)
	w := w0 * math.Sqrt(theta0*theta0+lambda0*lambda0)
	if w <= 0 {
		w = w0
	}

	if p.HasScintillationIndex() {
		if si := p.ScintillationIndex(); si > 0 {
			// Long-term turbulent beam spread:
			// W_LT² = W² (1 + 1.33 σ² Λ^(5/6)), Λ = 2l/(k W²).
			lambda := 2 * l / (k * w * w)
			w *= math.Sqrt(1 + 1.33*si*math.Pow(lambda, 5.0/6.0))
		}
	}

	meanIrr := 2 * p.PowerW() / (math.Pi * w * w)
	p.SetMeanIrradiance(meanIrr)

	if m.Log != nil {
		m.Log.Debug(context.Background(), "mean irradiance computed",
			logging.Any("beam_radius_m", w),
			logging.Any("mean_irradiance_w_per_m2", meanIrr),
		)
	}
	return p
}
