package core

import (
	"context"
	"fmt"
	"time"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
)

// RxOkCallback is invoked when a packet survives the error model.
type RxOkCallback func(*Packet, SignalParameters)

// RxErrorCallback is invoked when a packet arrives corrupted.
type RxErrorCallback func(*Packet, SignalParameters)

// Phy bridges packets and the physical signal model. Its role is fixed at
// construction: a transmit phy carries a laser antenna and no error model, a
// receive phy carries a telescope antenna and must have an error model.
// A phy attaches to exactly one channel.
type Phy struct {
	mobility   MobilityModel
	channel    *Channel
	txAntenna  *LaserAntenna
	rxAntenna  *OpticalRxAntenna
	errorModel *DownLinkErrorModel
	bitRate    float64
	log        logging.Logger

	rxOk  RxOkCallback
	rxErr RxErrorCallback
}

// NewTxPhy constructs a transmit-only phy.
func NewTxPhy(mobility MobilityModel, antenna *LaserAntenna, bitRateBitPerS float64, log logging.Logger) *Phy {
	if log == nil {
		log = logging.Noop()
	}
	return &Phy{
		mobility:  mobility,
		txAntenna: antenna,
		bitRate:   bitRateBitPerS,
		log:       log,
	}
}

// NewRxPhy constructs a receive-capable phy. The error model is mandatory
// and is bound to this phy; binding it twice is a configuration error.
func NewRxPhy(mobility MobilityModel, antenna *OpticalRxAntenna, errorModel *DownLinkErrorModel, bitRateBitPerS float64, log logging.Logger) (*Phy, error) {
	if errorModel == nil {
		return nil, fmt.Errorf("receive phy requires an error model")
	}
	if antenna == nil {
		return nil, fmt.Errorf("receive phy requires a receive antenna")
	}
	if log == nil {
		log = logging.Noop()
	}
	p := &Phy{
		mobility:   mobility,
		rxAntenna:  antenna,
		errorModel: errorModel,
		bitRate:    bitRateBitPerS,
		log:        log,
	}
	if err := errorModel.AttachPhy(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Mobility returns the phy's mobility model.
func (p *Phy) Mobility() MobilityModel { return p.mobility }

// Channel returns the channel this phy is attached to, or nil.
func (p *Phy) Channel() *Channel { return p.channel }

// TxAntenna returns the laser antenna of a transmit phy, or nil.
func (p *Phy) TxAntenna() *LaserAntenna { return p.txAntenna }

// RxAntenna returns the telescope antenna of a receive phy, or nil.
func (p *Phy) RxAntenna() *OpticalRxAntenna { return p.rxAntenna }

// BitRate returns the configured bit rate in bit/s.
func (p *Phy) BitRate() float64 { return p.bitRate }

// SetReceiveOkCallback registers the handler for intact arrivals.
func (p *Phy) SetReceiveOkCallback(cb RxOkCallback) { p.rxOk = cb }

// SetReceiveErrorCallback registers the handler for corrupted arrivals.
func (p *Phy) SetReceiveErrorCallback(cb RxErrorCallback) { p.rxErr = cb }

// SendPacket stamps the signal with this phy's identity and hands it to the
// channel. The laser antenna is authoritative for the transmit power and for
// any beam-geometry fields left unset on the parameters; the power field the
// caller passed in is never trusted.
func (p *Phy) SendPacket(packet *Packet, params SignalParameters) error {
	if p.channel == nil {
		return fmt.Errorf("phy has no channel attached")
	}

	params.TxPhy = p
	params.TxAntenna = p.txAntenna
	if p.txAntenna != nil {
		params.PowerDBm = p.txAntenna.TxPowerDBm()
		if params.TxBeamwidthM <= 0 {
			params.TxBeamwidthM = p.txAntenna.BeamRadiusM()
		}
		if params.TxPhaseFrontRadiusM <= 0 {
			params.TxPhaseFrontRadiusM = p.txAntenna.PhaseFrontRadiusM
		}
	}

	p.log.Info(context.Background(), "sending packet",
		logging.Int("size_bytes", packet.SizeBytes()),
		logging.Any("power_dbm", params.PowerDBm),
	)
	return p.channel.Send(p, packet, params)
}

// Receive handles an arrival scheduled by the channel. A phy without an
// error model delivers every packet intact; a receive phy asks its error
// model and marks the packet before delivering it upward.
func (p *Phy) Receive(packet *Packet, params SignalParameters) {
	if p.errorModel == nil {
		p.deliverOk(packet, params)
		return
	}

	corrupted, err := p.errorModel.IsCorrupted(params)
	if err != nil {
		// A missing chain output is a configuration error, not a stochastic
		// outcome. Surface it loudly and refuse to deliver the packet intact.
		p.log.Error(context.Background(), "error model rejected arrival",
			logging.String("error", err.Error()),
		)
		packet.MarkCorrupted()
		p.deliverError(packet, params)
		return
	}

	if corrupted {
		packet.MarkCorrupted()
		p.deliverError(packet, params)
		return
	}
	p.deliverOk(packet, params)
}

// CalculateTxDuration returns how long a payload of the given size occupies
// the link: bits times the symbol period.
func (p *Phy) CalculateTxDuration(sizeBytes int, params SignalParameters) time.Duration {
	seconds := float64(sizeBytes*8) * params.SymbolPeriodS
	return time.Duration(seconds * float64(time.Second))
}

func (p *Phy) deliverOk(packet *Packet, params SignalParameters) {
	p.log.Info(context.Background(), "packet delivered",
		logging.Int("size_bytes", packet.SizeBytes()),
	)
	if p.rxOk != nil {
		p.rxOk(packet, params)
	}
}

func (p *Phy) deliverError(packet *Packet, params SignalParameters) {
	p.log.Info(context.Background(), "packet corrupted",
		logging.Int("size_bytes", packet.SizeBytes()),
	)
	if p.rxErr != nil {
		p.rxErr(packet, params)
	}
}
