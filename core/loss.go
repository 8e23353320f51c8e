package core

// PropagationLossModel adjusts a signal for one physical propagation effect.
// Models are chained on the channel in attachment order; each receives the
// output of the previous one plus the endpoint positions for this hop.
//
// A model must tolerate fields it depends on being unset (a chain configured
// without its upstream models), and must not rewrite the signal's identity
// fields (wavelength, antenna references).
type PropagationLossModel interface {
	Apply(p SignalParameters, txPos, rxPos Vec3) SignalParameters
}
