package core

import (
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/fso-simulator/timectrl"
)

// MobilityModel exposes the current 3D position of an endpoint in metres.
// Loss models and the delay model query it once per send.
type MobilityModel interface {
	GetPosition() Vec3
}

// ConstantPositionMobilityModel pins an endpoint to a fixed position.
type ConstantPositionMobilityModel struct {
	Position Vec3
}

// GetPosition returns the configured position.
func (m *ConstantPositionMobilityModel) GetPosition() Vec3 {
	return m.Position
}

// SGP4MobilityModel propagates a satellite from a TLE at the current
// simulation time. Positions are ECEF in metres.
type SGP4MobilityModel struct {
	sat   satellite.Satellite
	clock timectrl.SimClock
}

// NewSGP4MobilityModel constructs an orbital mobility model from TLE lines.
func NewSGP4MobilityModel(tle1, tle2 string, clock timectrl.SimClock) *SGP4MobilityModel {
	return &SGP4MobilityModel{
		sat:   satellite.TLEToSat(tle1, tle2, satellite.GravityWGS72),
		clock: clock,
	}
}

// GetPosition propagates the satellite to the clock's current time.
// go-satellite works in kilometres; positions here are metres.
func (m *SGP4MobilityModel) GetPosition() Vec3 {
	simTime := m.clock.Now()
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	const kmToM = 1000.0
	return Vec3{
		X: posECEF.X * kmToM,
		Y: posECEF.Y * kmToM,
		Z: posECEF.Z * kmToM,
	}
}
