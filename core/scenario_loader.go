package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
)

// Scenario is a fully assembled point-to-point link: two phys attached to a
// channel with the canonical loss-model chain, plus the template signal
// parameters and packet size for transmissions.
type Scenario struct {
	Channel    *Channel
	TxPhy      *Phy
	RxPhy      *Phy
	ErrorModel *DownLinkErrorModel

	Params          SignalParameters
	PacketSizeBytes int
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type scenarioJSON struct {
	TxPosition positionJSON   `json:"tx_position"`
	RxPosition positionJSON   `json:"rx_position"`
	Laser      laserJSON      `json:"laser"`
	Receiver   receiverJSON   `json:"receiver"`
	Turbulence turbulenceJSON `json:"turbulence"`
	Link       linkJSON       `json:"link"`
	Seed       uint64         `json:"seed"`
}

type positionJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type laserJSON struct {
	BeamwidthM        float64 `json:"beamwidth_m"`
	PhaseFrontRadiusM float64 `json:"phase_front_radius_m"`
	OrientationRad    float64 `json:"orientation_rad"`
	TxPowerW          float64 `json:"tx_power_w"`
	GainDB            float64 `json:"gain_db"`
}

type receiverJSON struct {
	ApertureDiameterM float64  `json:"aperture_diameter_m"`
	GainDB            float64  `json:"gain_db"`
	OrientationRad    float64  `json:"orientation_rad"`
	SensitivityDBm    *float64 `json:"sensitivity_dbm"` // optional; defaults applied
}

type turbulenceJSON struct {
	RmsWindSpeedMPerS float64 `json:"rms_wind_speed_mps"`
	GndRefractiveIdx  float64 `json:"gnd_refractive_idx"`
}

type linkJSON struct {
	BitRateBitPerS  float64 `json:"bit_rate_bps"`
	WavelengthM     float64 `json:"wavelength_m"`
	PacketSizeBytes int     `json:"packet_size_bytes"`
}

// LoadScenario reads a JSON scenario from r and builds the channel, phys,
// loss-model chain (free-space loss, scintillation, mean irradiance, in that
// order), and error model on the given scheduler. Configuration problems are
// returned as errors; nothing is silently defaulted except the receiver
// sensitivity.
func LoadScenario(r io.Reader, sched EventScheduler, log logging.Logger) (*Scenario, error) {
	if sched == nil {
		return nil, fmt.Errorf("LoadScenario: scheduler is nil")
	}
	if log == nil {
		log = logging.Noop()
	}

	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	if payload.Link.WavelengthM <= 0 {
		return nil, fmt.Errorf("LoadScenario: link.wavelength_m must be positive")
	}
	if payload.Link.BitRateBitPerS <= 0 {
		return nil, fmt.Errorf("LoadScenario: link.bit_rate_bps must be positive")
	}
	if payload.Link.PacketSizeBytes <= 0 {
		return nil, fmt.Errorf("LoadScenario: link.packet_size_bytes must be positive")
	}
	if payload.Laser.TxPowerW <= 0 {
		return nil, fmt.Errorf("LoadScenario: laser.tx_power_w must be positive")
	}
	if payload.Receiver.ApertureDiameterM <= 0 {
		return nil, fmt.Errorf("LoadScenario: receiver.aperture_diameter_m must be positive")
	}

	txMobility := &ConstantPositionMobilityModel{Position: Vec3(payload.TxPosition)}
	rxMobility := &ConstantPositionMobilityModel{Position: Vec3(payload.RxPosition)}

	laser := &LaserAntenna{
		BeamwidthM:        payload.Laser.BeamwidthM,
		PhaseFrontRadiusM: payload.Laser.PhaseFrontRadiusM,
		OrientationRad:    payload.Laser.OrientationRad,
		TxPowerW:          payload.Laser.TxPowerW,
		GainDB:            payload.Laser.GainDB,
	}
	receiver := &OpticalRxAntenna{
		ApertureDiameterM: payload.Receiver.ApertureDiameterM,
		GainDB:            payload.Receiver.GainDB,
		OrientationRad:    payload.Receiver.OrientationRad,
	}

	errorModel := NewDownLinkErrorModel(payload.Seed, log)
	if payload.Receiver.SensitivityDBm != nil {
		errorModel.SensitivityDBm = *payload.Receiver.SensitivityDBm
	}

	channel := NewChannel(sched, &ConstantSpeedPropagationDelayModel{}, log)
	channel.AddPropagationLossModel(&FreeSpaceLossModel{MinDistanceM: 1, Log: log})
	channel.AddPropagationLossModel(&DownLinkScintillationIndexModel{
		RmsWindSpeedMPerS: payload.Turbulence.RmsWindSpeedMPerS,
		GndRefractiveIdx:  payload.Turbulence.GndRefractiveIdx,
		Log:               log,
	})
	channel.AddPropagationLossModel(&MeanIrradianceModel{Log: log})

	txPhy := NewTxPhy(txMobility, laser, payload.Link.BitRateBitPerS, log)
	rxPhy, err := NewRxPhy(rxMobility, receiver, errorModel, payload.Link.BitRateBitPerS, log)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: %w", err)
	}

	channel.Attach(txPhy)
	channel.Attach(rxPhy)

	params, err := NewSignalParameters(payload.Link.WavelengthM, payload.Link.BitRateBitPerS)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: %w", err)
	}

	return &Scenario{
		Channel:         channel,
		TxPhy:           txPhy,
		RxPhy:           rxPhy,
		ErrorModel:      errorModel,
		Params:          params,
		PacketSizeBytes: payload.Link.PacketSizeBytes,
	}, nil
}
