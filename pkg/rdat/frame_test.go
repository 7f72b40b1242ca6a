package rdat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// demuxSource restates the interleave expressions used by Frame, so the
// tests can check where each frame cell was taken from.
func demuxSource(word, column int) (block, byteOffset int) {
	block = (word % 52) + 75*(word%2) + word/832
	u := (column + 1) % 2
	byteOffset = 2*(u+word/52) - (word/52)%2 - 32*(word/832)
	return
}

func TestDemuxGeometryInBounds(t *testing.T) {
	for column := 0; column < 2; column++ {
		for word := 0; word < FrameRows; word++ {
			block, byteOffset := demuxSource(word, column)
			assert.GreaterOrEqual(t, block, 0)
			assert.Less(t, block, TrackBlocks)
			assert.GreaterOrEqual(t, byteOffset, 0)
			assert.Less(t, byteOffset, TrackBlockSize)
		}
	}
}

func TestFillFromTrackPair(t *testing.T) {
	a := NewTrack(HeadA)
	b := NewTrack(HeadB)

	// Tag every byte of each track with a value derived from its
	// coordinates so misplacements are visible.
	aData := a.Data()
	bData := b.Data()
	aValid := a.DataValid()
	bValid := b.DataValid()
	for i := 0; i < TrackBlocks; i++ {
		for j := 0; j < TrackBlockSize; j++ {
			aData[i][j] = byte(i ^ j)
			bData[i][j] = byte(i ^ j ^ 0xff)
			aValid[i][j] = true
			bValid[i][j] = true
		}
	}

	var frame Frame
	frame.FillFromTrackPair(a, b)
	data := frame.Data()
	valid := frame.Valid()

	for column := 0; column < 2; column++ {
		for word := 0; word < FrameRows; word++ {
			block, byteOffset := demuxSource(word, column)

			want := byte(block ^ byteOffset)
			wantMirror := want ^ 0xff

			if word%2 == 0 {
				// Even rows: the A track feeds the low column
				// pair, B the high.
				assert.Equal(t, want, data[word][column],
					"word %d column %d", word, column)
				assert.Equal(t, wantMirror, data[word][column+2],
					"word %d column %d", word, column+2)
			} else {
				assert.Equal(t, wantMirror, data[word][column],
					"word %d column %d", word, column)
				assert.Equal(t, want, data[word][column+2],
					"word %d column %d", word, column+2)
			}
			assert.True(t, valid[word][column])
		}
	}

	assert.True(t, frame.OK())
}

func TestFillFromTrackPairValidityFollowsData(t *testing.T) {
	a := NewTrack(HeadA)
	b := NewTrack(HeadB)

	aValid := a.DataValid()
	bValid := b.DataValid()
	for i := 0; i < TrackBlocks; i++ {
		for j := 0; j < TrackBlockSize; j++ {
			aValid[i][j] = true
			bValid[i][j] = true
		}
	}

	// Poison one cell of the A track and find it again in the frame.
	block, byteOffset := demuxSource(100, 1)
	aValid[block][byteOffset] = false

	var frame Frame
	frame.FillFromTrackPair(a, b)

	// Word 100 is even, so column 1 comes from A.
	assert.False(t, frame.Valid()[100][1])
	assert.True(t, frame.Valid()[100][3])
}

func TestFrameErrorCountsAreSummed(t *testing.T) {
	a := NewTrack(HeadA)
	b := NewTrack(HeadB)

	a.c1Errors = 3
	a.c1Uncorrectable = 1
	b.c1Errors = 2
	b.c2Uncorrectable = 1

	// Mark a cell invalid so the error/erasure consistency check stays
	// quiet.
	b.DataValid()[0][0] = false

	var frame Frame
	frame.FillFromTrackPair(a, b)

	assert.Equal(t, 5, frame.C1Errors())
	assert.Equal(t, 1, frame.C1UncorrectableErrors())
	assert.Equal(t, 1, frame.C2UncorrectableErrors())
	assert.False(t, frame.OK())
}
