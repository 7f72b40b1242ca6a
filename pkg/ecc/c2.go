package ecc

// C2 code parameters: a (32,26) code, six parity symbols.
const (
	C2N    = 32
	C2TwoT = 6
)

// hq is the Reed-Solomon check matrix for the DAT/DDS C2 code.
var hq = [][]byte{
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
	{
		0x97, 0x3b, 0xf8, 0x81, 0xd0, 0x0d, 0x11, 0xd9,
		0x5b, 0xfe, 0x6b, 0xfd, 0x1e, 0x65, 0x99, 0x5f,
		0xb9, 0x5d, 0x14, 0x46, 0xee, 0x6a, 0x25, 0x9d,
		0x18, 0x8f, 0xb4, 0x4c, 0xcd, 0x1d, 0x10, 0x01,
	},
	{
		0x72, 0x55, 0x4d, 0x84, 0xa9, 0x2e, 0x33, 0x3b,
		0x7c, 0x67, 0x1a, 0x11, 0xe2, 0xdf, 0xd6, 0xfd,
		0x0f, 0x5e, 0xbe, 0xb9, 0xa0, 0x05, 0xc1, 0x6a,
		0x9c, 0x60, 0x03, 0xb4, 0x26, 0x74, 0x20, 0x01,
	},
}

// NewC2 returns a corrector for the second-level C2 code.
//
// C2 runs in erasures-only mode: every byte it sees has either been vouched
// for by C1 or is definitely bad, so all six parity symbols go toward
// repairing known locations.
func NewC2() *Code {
	return newCode(C2N, C2TwoT, hq, true)
}
