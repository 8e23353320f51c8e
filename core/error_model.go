package core

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
)

// DefaultSensitivityDBm is the detection threshold used when a scenario does
// not configure one. It sits a few dB under the mean received power of the
// reference downlink, so corruption is rare but not negligible.
const DefaultSensitivityDBm = -30.0

// DownLinkErrorModel decides whether an arrival is corrupted. It samples an
// instantaneous irradiance from a log-normal fluctuation distribution whose
// variance comes from the scintillation index, converts it to detected power
// through the receive aperture and antenna gain, and compares against the
// sensitivity threshold.
//
// The model owns its random source, so two models with the same seed replay
// the same draw sequence; beyond that it is stateless.
type DownLinkErrorModel struct {
	// SensitivityDBm is the minimum detectable power at the aperture
	// output. The receive antenna enters through its collecting area and
	// its gain.
	SensitivityDBm float64

	phy *Phy
	src rand.Source
	log logging.Logger
}

// NewDownLinkErrorModel constructs an error model with its own seeded
// random source.
func NewDownLinkErrorModel(seed uint64, log logging.Logger) *DownLinkErrorModel {
	if log == nil {
		log = logging.Noop()
	}
	return &DownLinkErrorModel{
		SensitivityDBm: DefaultSensitivityDBm,
		src:            rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		log:            log,
	}
}

// AttachPhy binds the model to the receive phy it evaluates arrivals for.
// The binding is permanent; a second call is a configuration error.
func (em *DownLinkErrorModel) AttachPhy(p *Phy) error {
	if em.phy != nil && em.phy != p {
		return fmt.Errorf("error model already attached to a phy")
	}
	if p == nil {
		return fmt.Errorf("cannot attach error model to a nil phy")
	}
	em.phy = p
	return nil
}

// Phy returns the receive phy this model is bound to.
func (em *DownLinkErrorModel) Phy() *Phy { return em.phy }

// IsCorrupted draws an instantaneous irradiance and reports whether the
// detected power falls below the sensitivity threshold. Each call draws
// independently. Missing chain outputs mean the loss-model chain was
// misconfigured and are returned as errors, never defaulted.
func (em *DownLinkErrorModel) IsCorrupted(params SignalParameters) (bool, error) {
	if !params.HasScintillationIndex() {
		return false, fmt.Errorf("no scintillation index on signal: loss-model chain is missing a scintillation model")
	}
	if !params.HasMeanIrradiance() {
		return false, fmt.Errorf("no mean irradiance on signal: loss-model chain is missing a mean-irradiance model")
	}
	if em.phy == nil || em.phy.rxAntenna == nil {
		return false, fmt.Errorf("error model is not attached to a receive phy")
	}

	mean := params.MeanIrradiance()
	if mean <= 0 {
		return true, nil
	}

	irradiance := em.sampleIrradiance(mean, params.ScintillationIndex())
	detectedW := irradiance * em.phy.rxAntenna.ApertureAreaM2()
	detectedDBm := WToDBm(detectedW) + em.phy.rxAntenna.GainDB
	corrupted := detectedDBm < em.SensitivityDBm

	em.log.Debug(context.Background(), "corruption decision",
		logging.Any("irradiance_w_per_m2", irradiance),
		logging.Any("detected_dbm", detectedDBm),
		logging.Any("threshold_dbm", em.SensitivityDBm),
		logging.Any("corrupted", corrupted),
	)
	return corrupted, nil
}

// sampleIrradiance draws from a mean-preserving log-normal: for a
// scintillation index σ_I², the log variance is ln(1+σ_I²) and the log mean
// is shifted by -σ²/2 so the expectation stays at mean.
func (em *DownLinkErrorModel) sampleIrradiance(mean, scintIndex float64) float64 {
	if scintIndex <= 0 {
		return mean
	}
	sigma2 := math.Log(1 + scintIndex)
	dist := distuv.LogNormal{
		Mu:    math.Log(mean) - sigma2/2,
		Sigma: math.Sqrt(sigma2),
		Src:   em.src,
	}
	return dist.Rand()
}
