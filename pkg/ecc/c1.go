package ecc

// C1 code parameters: a (32,28) code, four parity symbols.
const (
	C1N    = 32
	C1TwoT = 4
)

// hp is the Reed-Solomon check matrix for the DAT/DDS C1 code. Multiplying
// it by the 32-byte vector under test yields the four-element syndrome.
var hp = [][]byte{
	{
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	},
	{
		0xc0, 0x60, 0x30, 0x18, 0x0c, 0x06, 0x03, 0x8f,
		0xc9, 0xea, 0x75, 0xb4, 0x5a, 0x2d, 0x98, 0x4c,
		0x26, 0x13, 0x87, 0xcd, 0xe8, 0x74, 0x3a, 0x1d,
		0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01,
	},
	{
		0xde, 0xb9, 0x69, 0x5d, 0x50, 0x14, 0x05, 0x46,
		0x9f, 0xee, 0xb5, 0x6a, 0x94, 0x25, 0x4e, 0x9d,
		0x60, 0x18, 0x06, 0x8f, 0xea, 0xb4, 0x2d, 0x4c,
		0x13, 0xcd, 0x74, 0x1d, 0x40, 0x10, 0x04, 0x01,
	},
	{
		0xb6, 0xdf, 0x7f, 0x6b, 0xe7, 0x78, 0x0f, 0x65,
		0x2f, 0x61, 0xa1, 0xb9, 0xba, 0x50, 0x0a, 0x46,
		0xc1, 0xb5, 0x35, 0x25, 0x27, 0x60, 0x0c, 0x8f,
		0x75, 0x2d, 0x26, 0xcd, 0x3a, 0x40, 0x08, 0x01,
	},
}

// NewC1 returns a corrector for the first-level C1 code.
//
// C1 runs in detection-first mode: known erasure locations count against
// its budget but are not handed to the solver, so the code keeps its full
// error-detection capability for the benefit of the erasures-only C2 pass
// that follows.
func NewC1() *Code {
	return newCode(C1N, C1TwoT, hp, false)
}
