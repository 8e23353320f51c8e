package core

import (
	"context"
	"fmt"
	"time"

	"github.com/signalsfoundry/fso-simulator/internal/logging"
	"github.com/signalsfoundry/fso-simulator/timectrl"
)

// EventScheduler is the slice of the discrete-event scheduler the channel
// needs: a clock and deferred callbacks. timectrl.Scheduler satisfies it.
type EventScheduler interface {
	Now() time.Time
	ScheduleAfter(d time.Duration, fn func()) timectrl.EventID
}

// LinkMetricsRecorder receives link activity from the channel so the
// observability layer can count it without the physics core importing it.
type LinkMetricsRecorder interface {
	RecordTransmission()
	RecordDelivery(corrupted bool)
}

// Channel connects the attached phys and owns the ordered loss-model chain
// plus the propagation-delay model. Attachment and chain configuration
// happen at setup, before the first Send; the simulation itself is
// single-threaded, so no locking is needed.
type Channel struct {
	phys       []*Phy
	lossModels []PropagationLossModel
	delay      PropagationDelayModel
	sched      EventScheduler
	log        logging.Logger
	metrics    LinkMetricsRecorder
}

// NewChannel constructs a channel over the given scheduler and delay model.
func NewChannel(sched EventScheduler, delay PropagationDelayModel, log logging.Logger) *Channel {
	if log == nil {
		log = logging.Noop()
	}
	return &Channel{
		sched: sched,
		delay: delay,
		log:   log,
	}
}

// SetMetricsRecorder attaches an optional recorder for link activity.
func (c *Channel) SetMetricsRecorder(r LinkMetricsRecorder) {
	c.metrics = r
}

// AddPropagationLossModel appends a model to the chain. Call order is
// evaluation order; the caller is responsible for matching the physical
// dependency order (free-space loss, then scintillation, then mean
// irradiance).
func (c *Channel) AddPropagationLossModel(m PropagationLossModel) {
	c.lossModels = append(c.lossModels, m)
}

// Attach registers a phy as a participant and points it back at the channel.
func (c *Channel) Attach(p *Phy) {
	c.phys = append(c.phys, p)
	p.channel = c
}

// NAttached returns the number of attached phys.
func (c *Channel) NAttached() int { return len(c.phys) }

// Send runs the loss-model chain for every attached phy other than from and
// schedules that phy's Receive at now + propagation delay. It never blocks
// and never delivers back to the sender; a channel with fewer than two phys
// delivers nothing.
func (c *Channel) Send(from *Phy, packet *Packet, params SignalParameters) error {
	if from == nil || from.mobility == nil {
		return fmt.Errorf("channel send: transmitting phy has no mobility model")
	}
	// Validate every receiver up front so a configuration error schedules
	// nothing at all.
	for _, other := range c.phys {
		if other != from && other.mobility == nil {
			return fmt.Errorf("channel send: attached phy has no mobility model")
		}
	}
	txPos := from.mobility.GetPosition()

	for _, other := range c.phys {
		if other == from {
			continue
		}
		rxPos := other.mobility.GetPosition()

		adjusted := params
		for _, lm := range c.lossModels {
			adjusted = lm.Apply(adjusted, txPos, rxPos)
		}

		delay := time.Duration(0)
		if c.delay != nil {
			delay = c.delay.Delay(txPos, rxPos)
		}

		rx := other
		pkt := packet
		final := adjusted
		c.sched.ScheduleAfter(delay, func() {
			rx.Receive(pkt, final)
			if c.metrics != nil {
				c.metrics.RecordDelivery(pkt.Corrupted())
			}
		})

		c.log.Debug(context.Background(), "delivery scheduled",
			logging.Any("distance_m", txPos.DistanceTo(rxPos)),
			logging.Any("delay", delay),
			logging.Any("power_dbm", final.PowerDBm),
		)
	}

	if c.metrics != nil {
		c.metrics.RecordTransmission()
	}
	return nil
}
