package hif

// ChecksumSeed is the initial accumulator value.
const ChecksumSeed uint16 = 0x1234

// Checksum is a running additive sum of payload bytes modulo 65536.
type Checksum uint16

// NewChecksum returns a seeded accumulator.
func NewChecksum() Checksum {
	return Checksum(ChecksumSeed)
}

// Update adds one byte.
func (c Checksum) Update(b byte) Checksum {
	return c + Checksum(b)
}

// Add adds all bytes in p.
func (c Checksum) Add(p []byte) Checksum {
	for _, b := range p {
		c += Checksum(b)
	}
	return c
}

// Sum returns the value sent on the wire.
func (c Checksum) Sum() uint16 {
	return uint16(c)
}

// ChecksumOf computes the checksum of a complete payload.
func ChecksumOf(p []byte) uint16 {
	return NewChecksum().Add(p).Sum()
}
