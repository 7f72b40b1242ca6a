package rdat

// C2Fill walks a track's C2 codeword vectors.
//
// A C2 vector is a vertical stripe of bytes taken from every fourth block
// of the track. There are four such block groups. Groups 0 and 2 slice
// through all 32 bytes of their blocks; groups 1 and 3 only through 24,
// because their last eight bytes are the C1 P parity, already spent.
//
// This slicing puts the Q parity bytes of the C2 code directly in the
// middle of the vector, a consequence of the Q bytes living in the middle
// blocks of the track layout.
type C2Fill struct {
	data  *[TrackBlocks][TrackBlockSize]byte
	valid *[TrackBlocks][TrackBlockSize]bool

	byteSlice int
	group     int
}

const (
	c2BytesEvenGroup = 32
	c2BytesOddGroup  = 24
	c2Groups         = 4
)

// NewC2Fill returns an iterator positioned at group 0, slice 0.
func NewC2Fill(track *Track) *C2Fill {
	return &C2Fill{
		data:  track.Data(),
		valid: track.DataValid(),
	}
}

// CurrentPosition reports the group and byte slice being evaluated.
func (f *C2Fill) CurrentPosition() (group, slice int, ok bool) {
	if f.End() {
		return 0, 0, false
	}
	return f.group, f.byteSlice, true
}

// Next advances to the next vector in the track.
func (f *C2Fill) Next() bool {
	if f.End() {
		return false
	}

	maxSlice := c2BytesEvenGroup
	if f.group&1 == 1 {
		maxSlice = c2BytesOddGroup
	}

	if f.byteSlice == maxSlice-1 {
		f.byteSlice = 0
		f.group++
	} else {
		f.byteSlice++
	}

	return !f.End()
}

// End reports whether all vectors have been processed.
func (f *C2Fill) End() bool {
	return f.group >= c2Groups
}

// Data implements ecc.Fill.
func (f *C2Fill) Data(position int) byte {
	return f.data[position*4+f.group][f.byteSlice]
}

// SetData implements ecc.Fill.
func (f *C2Fill) SetData(position int, v byte) {
	f.data[position*4+f.group][f.byteSlice] = v
}

// Valid implements ecc.Fill.
func (f *C2Fill) Valid(position int) bool {
	return f.valid[position*4+f.group][f.byteSlice]
}

// SetValid implements ecc.Fill.
func (f *C2Fill) SetValid(position int, v bool) {
	f.valid[position*4+f.group][f.byteSlice] = v
}
