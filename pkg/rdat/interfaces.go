package rdat

// SymbolSink receives decoded bits and clock state from the demodulator.
// The NRZI deframer implements it.
type SymbolSink interface {
	// ReceiveBit delivers one decoded channel bit.
	ReceiveBit(bit bool)

	// ClockDetected notifies the sink that the symbol clock has been
	// acquired or lost. The deframer resets itself on loss.
	ClockDetected(detected bool)

	// PreambleDetected reports whether there is sufficient evidence
	// that a track preamble is being received right now.
	PreambleDetected() bool

	// TrackDetected notifies the sink that a track has started or
	// completed.
	TrackDetected(start bool)

	// Stop notifies the sink that no more input is available.
	Stop()
}

// WordSink consumes 10-bit line words from the deframer. The block
// assembler implements it.
type WordSink interface {
	ReceiveWord(word int)
	TrackDetected(start bool)
	Stop()
}

// BlockReceiver consumes assembled blocks. The track framer implements it.
type BlockReceiver interface {
	ReceiveBlock(block *Block)
	TrackDetected(start bool)
	Stop()
}

// FrameReceiver consumes completed track pairs. The DAT audio sink and the
// DDS group decoder implement it; which one also decides what makes two
// tracks a pair.
type FrameReceiver interface {
	// IsFrame reports whether the two completed tracks form a frame.
	IsFrame(last, current *Track) bool

	// ReceiveFrame delivers a paired frame. The tracks are read-only
	// from this point on.
	ReceiveFrame(a, b *Track)

	// Stop flushes any in-flight state; no more frames will arrive.
	Stop()
}

// ATFToneReceiver consumes out-of-band automatic-track-finding tone events
// the demodulator raises when it observes the low-frequency servo pilots.
type ATFToneReceiver interface {
	ReceiveATFTone(tone int)
}
