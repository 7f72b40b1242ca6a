package dds

import (
	"github.com/rs/zerolog/log"

	"github.com/tapeworks/rdattools/pkg/rdat"
)

// sessionState tracks where the stream stands relative to end-of-data
// markers. A tape can hold several sessions, each terminated by an EOD
// area; data written after an EOD belongs to the next session.
type sessionState int

const (
	stateData sessionState = iota
	stateEOT
)

// FrameReceiver is the DDS end of the pipeline: it pairs tracks by
// absolute frame number, decodes group-3 frames, and accumulates basic
// groups, persisting each one to sidecar files as it completes.
type FrameReceiver struct {
	outputDir string
	haveDir   bool

	group       *BasicGroup
	haveGroup   bool
	groupNumber uint32

	state          sessionState
	dumpSession    uint
	currentSession uint
}

// NewFrameReceiver returns a receiver with no output directory; frames
// are decoded and reported but nothing is persisted until
// DumpToDirectory is called.
func NewFrameReceiver() *FrameReceiver {
	return &FrameReceiver{}
}

// DumpToDirectory makes the receiver persist recovered basic groups under
// the given directory.
func (r *FrameReceiver) DumpToDirectory(dir string) {
	r.outputDir = dir
	r.haveDir = true
}

// DumpSession selects which session to dump. Groups outside the selected
// session are reported but not accumulated.
func (r *FrameReceiver) DumpSession(n uint) {
	r.dumpSession = n
}

// CurrentSession returns the session counter: the number of end-of-data
// marks crossed into new data so far.
func (r *FrameReceiver) CurrentSession() uint {
	return r.currentSession
}

// IsFrame implements rdat.FrameReceiver: two tracks pair if both carry
// sub-code pack 3 and all seven pack-3 bytes are identical.
func (r *FrameReceiver) IsFrame(a, b *rdat.Track) bool {
	aFrame, aOK := a.GetSubcode(3)
	bFrame, bOK := b.GetSubcode(3)

	if !aOK || !bOK {
		return false
	}

	for i := 0; i < 7; i++ {
		if aFrame[i] != bFrame[i] {
			return false
		}
	}
	return true
}

// ReceiveFrame implements rdat.FrameReceiver.
func (r *FrameReceiver) ReceiveFrame(a, b *rdat.Track) {
	var frame Group3

	result := frame.DecodeFrame(a, b)

	if result != DecodeOK {
		log.Warn().Str("error", result.String()).Msg("group 3 decode")
	}

	c1Errors := frame.Frame().C1Errors()
	c1Uncorrectable := frame.Frame().C1UncorrectableErrors()
	c2Uncorrectable := frame.Frame().C2UncorrectableErrors()

	event := log.Info().
		Str("area", frame.Area().String()).
		Uint32("absolute_frame", frame.AbsoluteFrameID()).
		Uint32("basic_group", frame.BasicGroupID()).
		Uint8("sub_frame", frame.LogicalFrameID()).
		Bool("last_of_group", frame.IsLastLogicalFrame()).
		Bool("ecc3", frame.IsECC3Frame()).
		Uint32("file", frame.Separator1Count()).
		Uint32("record", frame.RecordCount()).
		Int("c1_corrected", c1Errors-c1Uncorrectable).
		Int("c2_corrected", c1Uncorrectable-c2Uncorrectable)
	if c2Uncorrectable > 0 {
		event = event.Int("uncorrected", c2Uncorrectable)
	}
	event.Msg("frame")

	if !frame.ChecksumsOK() && frame.Area() == DataArea && result == DecodeOK {
		log.Debug().Msg("half-column checksum mismatch")
	}

	switch r.state {
	case stateData:
		// In data state until an end-of-data marker shows up.
		if frame.Area() == EODArea {
			r.state = stateEOT
		}
	case stateEOT:
		// In EOT state until another area begins a new session.
		if frame.Area() != EODArea {
			r.currentSession++
			r.state = stateData
			log.Info().Uint("session", r.currentSession).Msg("start of session")
		}
	}

	// Past an end-of-data mark the tape may reuse group identifiers, so
	// a group in flight must be flushed before any such data arrives.
	if r.haveDir && r.currentSession == r.dumpSession {
		if frame.Area() == EODArea {
			if r.haveGroup {
				r.dumpGroup()
			}
		} else if frame.Area() == DataArea {
			r.addFrame(&frame)
		}
	}
}

// Stop implements rdat.FrameReceiver: the in-flight group, if any, is
// finalized.
func (r *FrameReceiver) Stop() {
	if r.haveGroup && r.haveDir {
		r.dumpGroup()
	}
}

func (r *FrameReceiver) addFrame(frame *Group3) {
	// A frame outside the current group finalizes it.
	if r.haveGroup && r.groupNumber != frame.BasicGroupID() {
		r.dumpGroup()
	}

	if !r.haveGroup {
		r.newGroup(frame.BasicGroupID())
	}

	g1 := NewGroup1(frame)

	r.group.AddSubFrame(g1)

	if frame.IsLastLogicalFrame() {
		r.dumpGroup()
	}
}

// newGroup starts accumulation of the given basic group, loading whatever
// a previous decoding pass already recovered for it.
func (r *FrameReceiver) newGroup(id uint32) {
	r.group = NewBasicGroup(id)

	data, valid, eccData, eccValid := SidecarPaths(r.outputDir, id)
	if r.group.LoadFromFiles(data, valid, eccData, eccValid) {
		log.Debug().Uint32("group", id).Msg("loaded previous pass")
	}

	r.haveGroup = true
	r.groupNumber = id
}

// dumpGroup runs the final ECC3 correction over the accumulated group and
// persists it.
func (r *FrameReceiver) dumpGroup() {
	clean := r.group.Correct()
	id := r.group.BasicGroupID()

	log.Info().Uint32("group", id).Bool("ecc3_clean", clean).Msg("group finalized")

	data, valid, eccData, eccValid := SidecarPaths(r.outputDir, id)
	if err := r.group.DumpToFiles(data, valid, eccData, eccValid); err != nil {
		// Write failures are advisory; the run continues for other
		// groups.
		log.Error().Err(err).Uint32("group", id).Msg("failed to persist group")
	}

	r.haveGroup = false
	r.group = nil
}
