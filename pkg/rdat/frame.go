package rdat

import "github.com/rs/zerolog/log"

// Frame geometry: 1440 user-data rows plus 16 parity rows of 4 bytes each.
const (
	FrameUserDataRows = 1440
	FrameParityRows   = 16
	FrameBytesPerRow  = 4
	FrameRows         = FrameUserDataRows + FrameParityRows
)

// Frame is a pair of tracks -- one from each head -- demultiplexed into a
// single logical unit. Both DAT audio and DDS use the same interleave
// pattern and correction scheme, so it is centralized here.
type Frame struct {
	data  [FrameRows][FrameBytesPerRow]byte
	valid [FrameRows][FrameBytesPerRow]bool

	c1Errors        int
	c1Uncorrectable int
	c2Uncorrectable int
}

// FillFromTrackPair demultiplexes the payloads of the A and B tracks into
// the frame.
//
// The byte placement comes from the DDS specification, section 9.3.4 "G4
// Sub-Group"; the DAT Conference Standard specifies the same interleave.
func (f *Frame) FillFromTrackPair(a, b *Track) {
	aBytes := a.Data()
	bBytes := b.Data()
	aValid := a.DataValid()
	bValid := b.DataValid()

	everythingOK := true

	for column := 0; column < 2; column++ {
		for word := 0; word < FrameRows; word++ {
			sourceBlock := (word % 52) +
				75*(word%2) +
				(word / 832)
			u := (column + 1) % 2
			sourceByte := 2*(u+word/52) -
				(word/52)%2 -
				32*(word/832)

			if word%2 == 0 {
				f.data[word][column] = aBytes[sourceBlock][sourceByte]
				f.data[word][column+2] = bBytes[sourceBlock][sourceByte]
				f.valid[word][column] = aValid[sourceBlock][sourceByte]
				f.valid[word][column+2] = bValid[sourceBlock][sourceByte]
			} else {
				f.data[word][column] = bBytes[sourceBlock][sourceByte]
				f.data[word][column+2] = aBytes[sourceBlock][sourceByte]
				f.valid[word][column] = bValid[sourceBlock][sourceByte]
				f.valid[word][column+2] = aValid[sourceBlock][sourceByte]
			}
			everythingOK = everythingOK &&
				f.valid[word][column] && f.valid[word][column+2]
		}
	}

	f.c1Errors = a.C1Errors() + b.C1Errors()
	f.c1Uncorrectable = a.C1UncorrectableErrors() + b.C1UncorrectableErrors()
	f.c2Uncorrectable = a.C2UncorrectableErrors() + b.C2UncorrectableErrors()

	if f.c2Uncorrectable > 0 && everythingOK {
		// This is supposed to be impossible.
		log.Warn().Msg("inconsistency in C2 errors and erasures")
	}
}

// Data exposes the demultiplexed byte matrix.
func (f *Frame) Data() *[FrameRows][FrameBytesPerRow]byte { return &f.data }

// Valid exposes the per-cell validity matrix.
func (f *Frame) Valid() *[FrameRows][FrameBytesPerRow]bool { return &f.valid }

// OK reports whether the frame carries no unfixable corruption.
func (f *Frame) OK() bool { return f.c2Uncorrectable == 0 }

// C1Errors returns the summed C1 error count of both tracks.
func (f *Frame) C1Errors() int { return f.c1Errors }

// C1UncorrectableErrors returns the summed C1 uncorrectable count.
func (f *Frame) C1UncorrectableErrors() int { return f.c1Uncorrectable }

// C2UncorrectableErrors returns the summed C2 uncorrectable count.
func (f *Frame) C2UncorrectableErrors() int { return f.c2Uncorrectable }
