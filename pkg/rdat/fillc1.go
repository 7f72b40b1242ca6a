package rdat

// C1Fill walks a track's C1 codeword vectors: one vector per block pair
// per interleave set.
//
// The bytes of a block pair are evaluated in an interleaved fashion: the
// even bytes of both blocks make up one vector, the odd bytes the other.
// Positions 0-15 draw from the lower block of the pair, 16-31 from the
// upper; the last four bytes in each vector are the P parity.
type C1Fill struct {
	data  *[TrackBlocks][TrackBlockSize]byte
	valid *[TrackBlocks][TrackBlockSize]bool

	blockPairStart int
	interleave     int
}

// NewC1Fill returns an iterator positioned at the first vector: pair
// (0,1), even interleave.
func NewC1Fill(track *Track) *C1Fill {
	return &C1Fill{
		data:  track.Data(),
		valid: track.DataValid(),
	}
}

// CurrentPosition reports the block pair and interleave being evaluated.
func (f *C1Fill) CurrentPosition() (block, offset int, ok bool) {
	if f.End() {
		return 0, 0, false
	}
	return f.blockPairStart, f.interleave, true
}

// Next advances to the next vector in the track.
func (f *C1Fill) Next() bool {
	if f.End() {
		return false
	}

	if f.interleave == 1 {
		// Done with the odd set of this pair; move to the even set
		// of the next one.
		f.blockPairStart += 2
		f.interleave = 0
	} else {
		f.interleave = 1
	}

	return !f.End()
}

// End reports whether all vectors have been processed.
func (f *C1Fill) End() bool {
	return f.blockPairStart >= TrackBlocks
}

// offsets maps a codeword position 0-31 to the block and byte offset the
// byte comes from.
func (f *C1Fill) offsets(position int) (block, off int) {
	block = f.blockPairStart + position/16
	off = (position%16)*2 + f.interleave
	return
}

// Data implements ecc.Fill.
func (f *C1Fill) Data(position int) byte {
	block, off := f.offsets(position)
	return f.data[block][off]
}

// SetData implements ecc.Fill.
func (f *C1Fill) SetData(position int, v byte) {
	block, off := f.offsets(position)
	f.data[block][off] = v
}

// Valid implements ecc.Fill.
func (f *C1Fill) Valid(position int) bool {
	block, off := f.offsets(position)
	return f.valid[block][off]
}

// SetValid implements ecc.Fill.
func (f *C1Fill) SetValid(position int, v bool) {
	block, off := f.offsets(position)
	f.valid[block][off] = v
}
