package core

// Packet is an opaque fixed-size payload. The physics layer never mutates
// its contents; a receiver either delivers it intact or marks it corrupted.
type Packet struct {
	sizeBytes int
	corrupted bool
}

// NewPacket creates a packet of the given payload size.
func NewPacket(sizeBytes int) *Packet {
	return &Packet{sizeBytes: sizeBytes}
}

// SizeBytes returns the payload size.
func (p *Packet) SizeBytes() int { return p.sizeBytes }

// SizeBits returns the payload size in bits.
func (p *Packet) SizeBits() int { return p.sizeBytes * 8 }

// MarkCorrupted flags the packet as corrupted. There is no way back; a
// corrupted packet stays corrupted.
func (p *Packet) MarkCorrupted() { p.corrupted = true }

// Corrupted reports whether the packet was corrupted in flight.
func (p *Packet) Corrupted() bool { return p.corrupted }
