package rdat

import "github.com/rs/zerolog/log"

// TrackFramer collects completed tracks and pairs them into frames.
//
// It holds at most one pending track. When a new track completes, the
// downstream frame receiver judges whether the pending track and the new
// one form a pair; on a mismatch the older track is dropped and the newer
// kept as the new pending candidate. Pairing failure is not an error --
// the transport regularly delivers partial revolutions.
type TrackFramer struct {
	receiver FrameReceiver

	lastTrack    *Track
	currentTrack *Track
	tracking     bool

	atf2Count     int
	atf3Count     int
	atf3Threshold int
}

// NewTrackFramer returns a framer delivering to the given receiver.
func NewTrackFramer(receiver FrameReceiver) *TrackFramer {
	return &TrackFramer{
		receiver:      receiver,
		currentTrack:  NewTrack(HeadUnknown),
		atf3Threshold: 10,
	}
}

// SetATF3Threshold overrides the tone count above which a track is tagged
// as read by head A.
func (f *TrackFramer) SetATF3Threshold(threshold int) {
	f.atf3Threshold = threshold
}

// ReceiveBlock implements BlockReceiver.
func (f *TrackFramer) ReceiveBlock(block *Block) {
	if !f.tracking {
		// This shouldn't happen.
		return
	}

	f.currentTrack.AddBlock(block)
}

// TrackDetected implements BlockReceiver. A falling edge seals the current
// track and attempts to pair it with the pending one.
func (f *TrackFramer) TrackDetected(start bool) {
	f.tracking = start

	if start {
		return
	}

	// The current track is complete. Let it run all of its error
	// correction.
	f.currentTrack.Complete()

	// Use the ATF tone tallies to judge azimuth. Only ATF3, the
	// negative-azimuth signal, is likely to be detected; a high enough
	// count marks the track as an A track. HEAD_B is never positively
	// identified, only ruled out by the pairing test.
	log.Debug().Int("atf3", f.atf3Count).Msg("track ATF3 count")
	if f.atf3Count > f.atf3Threshold {
		f.currentTrack.SetHead(HeadA)
	}

	if f.lastTrack == nil {
		f.lastTrack = f.currentTrack
	} else if f.receiver.IsFrame(f.lastTrack, f.currentTrack) {
		f.receiver.ReceiveFrame(f.lastTrack, f.currentTrack)
		f.lastTrack = nil
	} else {
		// These two don't pair. Dump the older one and keep
		// searching.
		f.lastTrack = f.currentTrack
	}

	f.atf2Count = 0
	f.atf3Count = 0

	f.currentTrack = NewTrack(HeadUnknown)
}

// ReceiveATFTone implements ATFToneReceiver.
func (f *TrackFramer) ReceiveATFTone(tone int) {
	switch tone {
	case 2:
		f.atf2Count++
	case 3:
		f.atf3Count++
	}
}

// Stop implements BlockReceiver. An in-progress track is sealed first.
func (f *TrackFramer) Stop() {
	if f.tracking {
		f.TrackDetected(false)
	}

	f.receiver.Stop()
}
