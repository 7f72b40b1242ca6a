package rdat

// Deframer turns the demodulator's bit stream into 10-bit line words,
// synchronizing on the R-DAT 0100010001 pattern.
//
// Preamble detection runs in parallel with word framing whenever no track
// is in progress: every ten bits the shift register is compared against the
// all-ones preamble word, and a long enough run of hits arms the track
// start timer in the demodulator.
type Deframer struct {
	receiver WordSink

	trackDetected bool

	// frame is the 10-bit accumulating shift register.
	frame int

	// syncBitCount counts bits received since the last word boundary.
	syncBitCount int

	synced bool

	preambleSymbolCount int
	preambleCheck       int
}

// NewDeframer returns a deframer feeding the given word sink.
func NewDeframer(receiver WordSink) *Deframer {
	d := &Deframer{receiver: receiver}
	d.Reset()
	return d
}

// Reset dumps any accumulated bits and reverts to sync search state.
func (d *Deframer) Reset() {
	d.synced = false
	d.frame = 0
	d.preambleCheck = 0
	d.preambleSymbolCount = 0
	d.trackDetected = false
}

// ClockDetected implements SymbolSink. When the clock is dropped the
// deframer resets itself.
func (d *Deframer) ClockDetected(detected bool) {
	if !detected {
		d.Reset()
	}
}

// ReceiveBit implements SymbolSink. It may cause a word to be delivered
// downstream.
func (d *Deframer) ReceiveBit(bit bool) {
	d.frame &= 0x1ff
	d.frame <<= 1
	if bit {
		d.frame |= 1
	}

	if !d.trackDetected {
		// Check for preamble words every ten symbols; a run of them
		// is the signature of a track about to start.
		d.preambleCheck++
		if d.preambleCheck == 10 {
			d.preambleCheck = 0
			if d.frame == PreambleWord {
				d.preambleSymbolCount++
			} else {
				d.preambleSymbolCount = 0
			}
		}
	}

	if d.frame&0x1ff == SyncWord {
		// Found a sync pattern. Re-anchor the word boundary here,
		// whether or not we were already in sync.
		d.syncBitCount = 0
		d.synced = true
		d.receiver.ReceiveWord(d.frame)
	} else if d.synced {
		d.syncBitCount++
		if d.syncBitCount == 10 {
			d.syncBitCount = 0
			d.receiver.ReceiveWord(d.frame)
		}
	}
}

// PreambleDetected implements SymbolSink.
func (d *Deframer) PreambleDetected() bool {
	return d.preambleSymbolCount > 10
}

// TrackDetected implements SymbolSink.
func (d *Deframer) TrackDetected(start bool) {
	d.trackDetected = start

	// When a track stops, reset the preamble logic so it is ready to
	// spot the next one.
	if !start {
		d.preambleSymbolCount = 0
		d.preambleCheck = 0
	}

	d.receiver.TrackDetected(start)
}

// Stop implements SymbolSink.
func (d *Deframer) Stop() {
	d.receiver.Stop()
}
