package dds

// Group1Size is the payload of one logical frame: 1439 rows of 4 bytes.
const Group1Size = 1439 * 4

// The DDS whitening sequence is produced by a 15-bit linear feedback shift
// register whose feedback tap is the XOR of bits 0 and 1 (section 9.3.2 of
// the ECMA DDS standard). The register starts at 1 for each frame; after
// every payload byte it is cranked eight times.

func lfsrCrank(v uint16) uint16 {
	feedback := (v & 1) ^ ((v >> 1) & 1)
	v >>= 1
	if feedback != 0 {
		v |= 0x4000
	}
	return v
}

func lfsrCrank8(v uint16) uint16 {
	for i := 0; i < 8; i++ {
		v = lfsrCrank(v)
	}
	return v
}

// Group1 is the de-whitened view of a data-area group-3 payload: the 5756
// bytes as the host wrote them, before the recording randomizer. This is
// the only granularity at which bytes are placed into a basic group.
//
// XOR with a fixed sequence cannot change known-ness, so the validity
// flags pass through the derivation unchanged.
type Group1 struct {
	data  [Group1Size]byte
	valid [Group1Size]bool

	basicGroupID uint32
	subFrameID   byte
	isLastFrame  bool
	isECCFrame   bool
}

// NewGroup1 derives the de-whitened group from a decoded data-area
// group-3.
func NewGroup1(g3 *Group3) *Group1 {
	g1 := &Group1{
		basicGroupID: g3.BasicGroupID(),
		subFrameID:   g3.LogicalFrameID(),
		isLastFrame:  g3.IsLastLogicalFrame(),
		isECCFrame:   g3.IsECC3Frame(),
	}

	data := g3.Frame().Data()
	valid := g3.Frame().Valid()

	lfsr := uint16(1)
	for i := 0; i < Group1Size; i++ {
		g1.data[i] = di(data, i) ^ byte(lfsr&0xff)
		g1.valid[i] = valid[i/4+1][i%4]
		lfsr = lfsrCrank8(lfsr)
	}

	return g1
}

// Data exposes the de-whitened payload.
func (g *Group1) Data() *[Group1Size]byte { return &g.data }

// Valid exposes the per-byte validity flags.
func (g *Group1) Valid() *[Group1Size]bool { return &g.valid }

// BasicGroupID returns the basic group this frame belongs to.
func (g *Group1) BasicGroupID() uint32 { return g.basicGroupID }

// SubFrameID returns the frame's slot (1-22) within the basic group.
func (g *Group1) SubFrameID() byte { return g.subFrameID }

// IsLastFrame reports whether this frame closes the basic group.
func (g *Group1) IsLastFrame() bool { return g.isLastFrame }

// IsECCFrame reports whether this frame carries the group's ECC3 parity.
func (g *Group1) IsECCFrame() bool { return g.isECCFrame }
