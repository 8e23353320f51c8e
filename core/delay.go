package core

import "time"

// PropagationDelayModel converts a pair of endpoint positions into the
// virtual-time delay between transmission and arrival.
type PropagationDelayModel interface {
	Delay(txPos, rxPos Vec3) time.Duration
}

// ConstantSpeedPropagationDelayModel divides straight-line distance by a
// fixed propagation speed. A zero SpeedMPerS means the speed of light.
// Zero distance is legal and yields zero delay.
type ConstantSpeedPropagationDelayModel struct {
	SpeedMPerS float64
}

// Delay returns distance / speed as a duration.
func (m *ConstantSpeedPropagationDelayModel) Delay(txPos, rxPos Vec3) time.Duration {
	speed := m.SpeedMPerS
	if speed <= 0 {
		speed = SpeedOfLightMPerS
	}
	seconds := txPos.DistanceTo(rxPos) / speed
	return time.Duration(seconds * float64(time.Second))
}
