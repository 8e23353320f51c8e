package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/fso-simulator/timectrl"
)

func TestSendPacketWithoutChannelFails(t *testing.T) {
	tx := NewTxPhy(&ConstantPositionMobilityModel{}, &LaserAntenna{TxPowerW: 0.1}, 50e6, nil)
	p, _ := NewSignalParameters(847e-9, 50e6)
	if err := tx.SendPacket(NewPacket(1024), p); err == nil {
		t.Fatalf("expected error for phy with no channel")
	}
}

func TestSendPacketStampsIdentityAndPower(t *testing.T) {
	sched := timectrl.NewScheduler(time.Unix(0, 0))
	ch := NewChannel(sched, &ConstantSpeedPropagationDelayModel{}, nil)

	laser := &LaserAntenna{BeamwidthM: 0.12, PhaseFrontRadiusM: 707000, TxPowerW: 0.1, GainDB: 116}
	tx := NewTxPhy(&ConstantPositionMobilityModel{Position: Vec3{Z: 707000}}, laser, 49.3724e6, nil)
	rx := NewTxPhy(&ConstantPositionMobilityModel{}, nil, 49.3724e6, nil)
	ch.Attach(tx)
	ch.Attach(rx)

	var got SignalParameters
	rx.SetReceiveOkCallback(func(pkt *Packet, params SignalParameters) { got = params })

	p, _ := NewSignalParameters(847e-9, 49.3724e6)
	p.PowerDBm = 99 // must be overridden: the antenna is authoritative
	if err := tx.SendPacket(NewPacket(1024), p); err != nil {
		t.Fatalf("SendPacket: %v", err)
	}
	sched.Run()

	if got.TxPhy != tx {
		t.Errorf("TxPhy not stamped with the sender")
	}
	if got.TxAntenna != laser {
		t.Errorf("TxAntenna not stamped with the laser")
	}
	// No loss models attached, so the delivered power is the stamped one.
	if want := WToDBm(0.1); math.Abs(got.PowerDBm-want) > 1e-9 {
		t.Errorf("power = %v dBm, want laser power %v dBm", got.PowerDBm, want)
	}
	if want := laser.BeamRadiusM(); got.TxBeamwidthM != want {
		t.Errorf("beamwidth = %v, want stamped radius %v", got.TxBeamwidthM, want)
	}
	if got.TxPhaseFrontRadiusM != laser.PhaseFrontRadiusM {
		t.Errorf("phase front radius = %v, want %v", got.TxPhaseFrontRadiusM, laser.PhaseFrontRadiusM)
	}
}

func TestNewRxPhyRequiresErrorModel(t *testing.T) {
	if _, err := NewRxPhy(&ConstantPositionMobilityModel{}, &OpticalRxAntenna{ApertureDiameterM: 0.318}, nil, 50e6, nil); err == nil {
		t.Errorf("expected error for receive phy without error model")
	}
}

func TestNewRxPhyRequiresAntenna(t *testing.T) {
	em := NewDownLinkErrorModel(1, nil)
	if _, err := NewRxPhy(&ConstantPositionMobilityModel{}, nil, em, 50e6, nil); err == nil {
		t.Errorf("expected error for receive phy without antenna")
	}
}

func TestReceiveWithoutErrorModelDeliversIntact(t *testing.T) {
	rx := NewTxPhy(&ConstantPositionMobilityModel{}, nil, 50e6, nil)

	var okCalls, errCalls int
	rx.SetReceiveOkCallback(func(*Packet, SignalParameters) { okCalls++ })
	rx.SetReceiveErrorCallback(func(*Packet, SignalParameters) { errCalls++ })

	pkt := NewPacket(512)
	p, _ := NewSignalParameters(847e-9, 50e6)
	rx.Receive(pkt, p)

	if okCalls != 1 || errCalls != 0 {
		t.Errorf("ok=%d err=%d, want 1/0", okCalls, errCalls)
	}
	if pkt.Corrupted() {
		t.Errorf("packet should be intact without an error model")
	}
}

func TestReceiveSurfacesMisconfiguredChain(t *testing.T) {
	em := NewDownLinkErrorModel(1, nil)
	rx, err := NewRxPhy(&ConstantPositionMobilityModel{}, &OpticalRxAntenna{ApertureDiameterM: 0.318}, em, 50e6, nil)
	if err != nil {
		t.Fatalf("NewRxPhy: %v", err)
	}

	var okCalls, errCalls int
	rx.SetReceiveOkCallback(func(*Packet, SignalParameters) { okCalls++ })
	rx.SetReceiveErrorCallback(func(*Packet, SignalParameters) { errCalls++ })

	// No chain outputs on the signal: a configuration error, and the packet
	// must not be delivered intact.
	pkt := NewPacket(512)
	p, _ := NewSignalParameters(847e-9, 50e6)
	rx.Receive(pkt, p)

	if okCalls != 0 || errCalls != 1 {
		t.Errorf("ok=%d err=%d, want 0/1", okCalls, errCalls)
	}
	if !pkt.Corrupted() {
		t.Errorf("packet from a misconfigured chain should be marked corrupted")
	}
}

func TestCalculateTxDuration(t *testing.T) {
	tx := NewTxPhy(&ConstantPositionMobilityModel{}, nil, 49.3724e6, nil)
	p, _ := NewSignalParameters(847e-9, 49.3724e6)

	got := tx.CalculateTxDuration(1024, p)
	seconds := float64(1024*8) / 49.3724e6
	want := time.Duration(seconds * float64(time.Second))
	if got != want {
		t.Errorf("tx duration = %v, want %v", got, want)
	}
}
