package rdat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockRecorder snapshots every delivered block.
type blockRecorder struct {
	sizes   []int
	bytes   [][]uint16
	track   []bool
	stopped bool
}

func (r *blockRecorder) ReceiveBlock(block *Block) {
	r.sizes = append(r.sizes, block.Size())
	snapshot := make([]uint16, block.Size())
	copy(snapshot, block.FlaggedBytes())
	r.bytes = append(r.bytes, snapshot)
}

func (r *blockRecorder) TrackDetected(start bool) { r.track = append(r.track, start) }
func (r *blockRecorder) Stop()                    { r.stopped = true }

func TestWordReceiverAssemblesBlock(t *testing.T) {
	recorder := &blockRecorder{}
	w := NewWordReceiver(recorder, false)

	w.ReceiveWord(SyncWord)
	for i := 0; i < BlockWords-1; i++ {
		w.ReceiveWord(int(EncodeByte(byte(i))))
	}

	require.Len(t, recorder.sizes, 1)
	assert.Equal(t, BlockWords, recorder.sizes[0])

	// The sync word is not a data word; it decodes flagged invalid.
	assert.NotZero(t, recorder.bytes[0][0]&InvalidFlag)

	// Payload words decode to their bytes.
	assert.Equal(t, uint16(0), recorder.bytes[0][1])
	assert.Equal(t, uint16(5), recorder.bytes[0][6])
}

func TestWordReceiverPartialBlockOnResync(t *testing.T) {
	recorder := &blockRecorder{}
	w := NewWordReceiver(recorder, false)

	// Ten words in, another sync word arrives: the cut-short block is
	// delivered as is and a fresh one begins.
	w.ReceiveWord(SyncWord)
	for i := 0; i < 9; i++ {
		w.ReceiveWord(int(EncodeByte(0x42)))
	}
	w.ReceiveWord(SyncWord)

	require.Len(t, recorder.sizes, 1)
	assert.Equal(t, 10, recorder.sizes[0])

	// The new block is under construction with the new sync word.
	for i := 0; i < BlockWords-1; i++ {
		w.ReceiveWord(int(EncodeByte(0x17)))
	}
	require.Len(t, recorder.sizes, 2)
	assert.Equal(t, BlockWords, recorder.sizes[1])
}

func TestWordReceiverFlushesOnTrackBoundary(t *testing.T) {
	recorder := &blockRecorder{}
	w := NewWordReceiver(recorder, false)

	w.ReceiveWord(SyncWord)
	w.ReceiveWord(int(EncodeByte(1)))

	w.TrackDetected(false)

	require.Len(t, recorder.sizes, 1)
	assert.Equal(t, 2, recorder.sizes[0])
	assert.Equal(t, []bool{false}, recorder.track)
}

func TestWordReceiverStopForwards(t *testing.T) {
	recorder := &blockRecorder{}
	w := NewWordReceiver(recorder, false)

	w.Stop()
	assert.True(t, recorder.stopped)
}
