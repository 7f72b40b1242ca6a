package ecc

// C3 code parameters: a (46,44) code, two parity symbols. DDS only.
const (
	C3N    = 46
	C3TwoT = 2
)

// hi is the Reed-Solomon check matrix for DDS's final correction level,
// ECC3.
var hi = [][]byte{
	{
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	},
	{
		0xc1, 0xee, 0x77, 0xb5, 0xd4, 0x6a, 0x35, 0x94,
		0x4a, 0x25, 0x9c, 0x4e, 0x27, 0x9d, 0xc0, 0x60,
		0x30, 0x18, 0x0c, 0x06, 0x03, 0x8f, 0xc9, 0xea,
		0x75, 0xb4, 0x5a, 0x2d, 0x98, 0x4c, 0x26, 0x13,
		0x87, 0xcd, 0xe8, 0x74, 0x3a, 0x1d, 0x80, 0x40,
		0x20, 0x10, 0x08, 0x04, 0x02, 0x01,
	},
}

// NewC3 returns a corrector for the DDS third-level code, run in
// erasures-only mode across the accumulated basic group.
func NewC3() *Code {
	return newCode(C3N, C3TwoT, hi, true)
}
