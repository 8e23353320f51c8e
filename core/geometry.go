package core

import "math"

// EarthRadiusM is the mean Earth radius in metres, used to recover altitudes
// from ECEF coordinates.
const EarthRadiusM = 6371000.0

// Vec3 is a position vector in metres. Scenarios may use either a local
// frame (ground at the origin, +Z up) or ECEF; see AltitudeM.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// AltitudeM returns the height of p above ground. Positions with a magnitude
// of at least half the Earth radius are treated as ECEF; anything smaller is
// a local frame where Z is the height.
func AltitudeM(p Vec3) float64 {
	n := p.Norm()
	if n >= EarthRadiusM/2 {
		return n - EarthRadiusM
	}
	return p.Z
}

// ZenithAngleRadians returns the angle between the observer's local zenith
// and the direction to the target. 0 = directly overhead, π/2 = on the
// horizon. An observer at the origin of a local frame uses +Z as zenith.
func ZenithAngleRadians(observer, target Vec3) float64 {
	v := target.Sub(observer)
	vNorm := v.Norm()
	if vNorm == 0 {
		return 0
	}

	zenith := Vec3{Z: 1}
	if r := observer.Norm(); r != 0 {
		zenith = Vec3{X: observer.X / r, Y: observer.Y / r, Z: observer.Z / r}
	}

	cosZeta := v.Dot(zenith) / vNorm
	if cosZeta > 1 {
		cosZeta = 1
	} else if cosZeta < -1 {
		cosZeta = -1
	}
	return math.Acos(cosZeta)
}
