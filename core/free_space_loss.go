package core

import (
	"context"
	"math"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
)

// FreeSpaceLossModel applies the geometric inverse-square attenuation of the
// raw transmit power plus the transmit antenna gain. It depends only on
// distance and wavelength, never on atmospheric state, so it belongs at the
// head of the chain.
type FreeSpaceLossModel struct {
	// MinDistanceM floors the path distance so that co-located endpoints do
	// not blow up the 1/d² term. Defaults to 1 m.
	MinDistanceM float64

	Log logging.Logger
}

// NewFreeSpaceLossModel returns a model with the default distance floor and
// no logging.
func NewFreeSpaceLossModel() *FreeSpaceLossModel {
	return &FreeSpaceLossModel{MinDistanceM: 1, Log: logging.Noop()}
}

// Apply subtracts the free-space path loss 20·log10(4πd/λ) from the signal
// power and adds the transmit antenna gain when one is attached. Receive-side
// gain is accounted for at detection, not here.
func (m *FreeSpaceLossModel) Apply(p SignalParameters, txPos, rxPos Vec3) SignalParameters {
	d := txPos.DistanceTo(rxPos)
	floor := m.MinDistanceM
	if floor <= 0 {
		floor = 1
	}
	if d < floor {
		d = floor
	}
	if p.WavelengthM <= 0 {
		// Identity fields missing; nothing sane to compute.
		return p
	}

	lossDB := 20 * math.Log10(4*math.Pi*d/p.WavelengthM)
	p.PowerDBm -= lossDB
	if p.TxAntenna != nil {
		p.PowerDBm += p.TxAntenna.GainDB
	}

	if m.Log != nil {
		m.Log.Debug(context.Background(), "free-space loss applied",
			logging.Any("distance_m", d),
			logging.Any("loss_db", lossDB),
			logging.Any("power_dbm", p.PowerDBm),
		)
	}
	return p
}
