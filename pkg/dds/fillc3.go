package dds

// C3Fill walks a basic group's ECC3 codeword vectors (section 14.5.3 of
// the ECMA DDS standard).
//
// The 46-byte vectors interleave across all 23 G1 groups: codeword
// position p draws from G1 group p/2, which for group 22 means the
// separate ECC sub-group buffer. Advancement order, least significant
// first: interleave set (even/odd), track pair (0-1), byte slice (0-719);
// the final byte slice has a single track pair.
type C3Fill struct {
	group *BasicGroup

	byteSlice  int
	trackPair  int
	interleave int
}

const (
	c3ByteSlices  = 720
	c3Interleaves = 2
)

// NewC3Fill returns an iterator positioned at the first vector.
func NewC3Fill(group *BasicGroup) *C3Fill {
	return &C3Fill{group: group}
}

// Next advances to the next vector in the group.
func (f *C3Fill) Next() bool {
	if f.End() {
		return false
	}

	// Every byte slice except the last spans two track pairs.
	maxTrackPair := 2
	if f.byteSlice == c3ByteSlices-1 {
		maxTrackPair = 1
	}

	if f.interleave == c3Interleaves-1 {
		if f.trackPair == maxTrackPair-1 {
			f.byteSlice++
			f.trackPair = 0
		} else {
			f.trackPair++
		}
		f.interleave = 0
	} else {
		f.interleave++
	}

	return !f.End()
}

// End reports whether all vectors have been processed.
func (f *C3Fill) End() bool {
	return f.byteSlice >= c3ByteSlices
}

// offset maps a codeword position to a byte offset, either within the
// main payload or, for G1 group 22, within the ECC sub-group buffer.
func (f *C3Fill) offset(position int) (off int, isECC bool) {
	g1Group := position / 2

	var g1Offset int
	if g1Group == 22 {
		isECC = true
	} else {
		g1Offset = g1Group * Group1Size
	}

	if position&1 == 0 {
		off = 8*f.byteSlice + 2*(f.trackPair+1) + f.interleave + g1Offset
	} else {
		off = 8*f.byteSlice + 6*f.trackPair + f.interleave + g1Offset
	}
	return
}

// Data implements ecc.Fill.
func (f *C3Fill) Data(position int) byte {
	off, isECC := f.offset(position)
	if isECC {
		return f.group.eccData[off]
	}
	return f.group.data[off]
}

// SetData implements ecc.Fill.
func (f *C3Fill) SetData(position int, v byte) {
	off, isECC := f.offset(position)
	if isECC {
		f.group.eccData[off] = v
	} else {
		f.group.data[off] = v
	}
}

// Valid implements ecc.Fill.
func (f *C3Fill) Valid(position int) bool {
	off, isECC := f.offset(position)
	if isECC {
		return f.group.eccValid[off]
	}
	return f.group.valid[off]
}

// SetValid implements ecc.Fill.
func (f *C3Fill) SetValid(position int, v bool) {
	off, isECC := f.offset(position)
	if isECC {
		f.group.eccValid[off] = v
	} else {
		f.group.valid[off] = v
	}
}
