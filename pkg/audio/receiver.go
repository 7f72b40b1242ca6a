package audio

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tapeworks/rdattools/pkg/rdat"
)

// unknownAbsoluteFrame is 100h-100m-100s-100f, the universal "I don't
// know" time a machine writes when it has no clock.
const unknownAbsoluteFrame = 12203433

// FrameReceiver is the DAT audio end of the pipeline. It pairs tracks by
// absolute time, reports the sub-code contents of every frame, demuxes the
// 1440 stereo samples and streams them to a WAV file.
type FrameReceiver struct {
	writer *WAVWriter
	frame  rdat.Frame

	// Wall-clock synchronization state. DAT stamps frames with whole
	// seconds only; millisecond precision comes from watching the
	// 34/33/33 frames-per-second cadence.
	haveLastDateTime    bool
	lastDateTimeSeconds uint64
	haveDateTimeSync    bool
	currentSeconds      uint64
	currentMilliseconds int
	haveLastChangeFrame bool
	lastChangeFrame     uint32

	haveLastAbsoluteFrame   bool
	lastAbsoluteFrameNumber uint32
	nextSessionFrameNumber  uint32
}

// NewFrameReceiver returns a receiver with no output file; frames are
// decoded and reported but no audio is written until SetDumpFile.
func NewFrameReceiver() *FrameReceiver {
	return &FrameReceiver{}
}

// SetDumpFile opens the WAV output file.
func (r *FrameReceiver) SetDumpFile(path string) error {
	w, err := CreateWAV(path)
	if err != nil {
		return err
	}
	r.writer = w
	return nil
}

// IsFrame implements rdat.FrameReceiver: two tracks pair if both carry an
// identical absolute time (sub-code pack 2) and neither sits in the wrong
// head slot. Head B is never positively identified, so the rule only
// rejects the combinations azimuth evidence has ruled out.
func (r *FrameReceiver) IsFrame(a, b *rdat.Track) bool {
	aTime, aOK := a.GetSubcode(2)
	bTime, bOK := b.GetSubcode(2)

	timeGood := aOK && bOK
	if timeGood {
		for i := 0; i < 7; i++ {
			if aTime[i] != bTime[i] {
				timeGood = false
				break
			}
		}
	}

	log.Debug().
		Bool("times_match", timeGood).
		Str("head_a", a.GetHead().String()).
		Str("head_b", b.GetHead().String()).
		Msg("pairing check")

	return timeGood &&
		a.GetHead() != rdat.HeadB &&
		b.GetHead() != rdat.HeadA
}

// ReceiveFrame implements rdat.FrameReceiver.
func (r *FrameReceiver) ReceiveFrame(a, b *rdat.Track) {
	var absoluteFrame uint32

	// Absolute time, sub-code pack 2.
	if item, ok := a.GetSubcode(2); ok {
		tc := rdat.NewTimeCode(item)
		absoluteFrame = tc.AbsoluteFrame()
		log.Info().
			Str("absolute_time", formatTime(tc)).
			Uint32("frame", absoluteFrame).
			Msg("frame")
		reportProgramIndex(tc, "")
	}

	// A corrupted or unset absolute frame number gets a session-pseudo
	// time instead, so the operator still sees progress.
	if absoluteFrame == 0 || absoluteFrame == unknownAbsoluteFrame {
		tc := rdat.TimeCodeFromAbsoluteFrame(r.nextSessionFrameNumber)
		log.Info().
			Str("pseudo_time", formatTime(tc)).
			Uint32("frame", r.nextSessionFrameNumber).
			Msg("frame")
		absoluteFrame = r.nextSessionFrameNumber
	}

	if controlID, ok := a.GetControlID(); ok && controlID != 0 {
		log.Info().
			Bool("toc", controlID&0x1 != 0).
			Bool("skip", controlID&0x2 != 0).
			Bool("start", controlID&0x4 != 0).
			Bool("priority", controlID&0x8 != 0).
			Msg("control")
	}

	// Program time, pack 1.
	if item, ok := a.GetSubcode(1); ok {
		log.Info().Str("program_time", formatTime(rdat.NewTimeCode(item))).Msg("subcode")
	}

	// Running time or Pro R time, pack 3.
	if item, ok := a.GetSubcode(3); ok {
		reportPack3(item)
	}

	// Table of contents, pack 4.
	if item, ok := a.GetSubcode(4); ok {
		tc := rdat.NewTimeCode(item)
		log.Info().Str("toc_time", formatTime(tc)).Msg("table of contents")
		reportProgramIndex(tc, "toc_")
	}

	// Date and time, pack 5.
	if item, ok := a.GetSubcode(5); ok {
		r.handleDateTime(item, absoluteFrame)
	} else {
		r.handleDateTime(nil, absoluteFrame)
	}

	if _, ok := a.GetSubcode(7); ok {
		log.Debug().Msg("ISRC pack present")
	}
	if _, ok := a.GetSubcode(8); ok {
		log.Debug().Msg("Pro Binary pack present")
	}

	signature := a.SubcodeSignature()
	log.Info().
		Str("subcode_packs", fmt.Sprintf("%d %d %d %d %d %d %d",
			signature[0], signature[1], signature[2], signature[3],
			signature[4], signature[5], signature[6])).
		Msg("signature")

	// Demultiplex the track pair and report error statistics.
	r.frame.FillFromTrackPair(a, b)
	data := r.frame.Data()

	c1Errors := r.frame.C1Errors()
	c1Uncorrectable := r.frame.C1UncorrectableErrors()
	c2Uncorrectable := r.frame.C2UncorrectableErrors()

	event := log.Info().
		Int("c1_corrected", c1Errors-c1Uncorrectable).
		Int("c2_corrected", c1Uncorrectable-c2Uncorrectable)
	if c2Uncorrectable > 0 {
		event = event.Int("uncorrected", c2Uncorrectable)
	}
	event.Msg("errors")

	if r.writer != nil {
		for i := 0; i < rdat.FrameUserDataRows; i++ {
			if err := r.writer.WriteFrame(data[i][:]); err != nil {
				log.Error().Err(err).Msg("audio write failed")
				break
			}
		}
	}

	r.haveLastAbsoluteFrame = true
	r.lastAbsoluteFrameNumber = absoluteFrame
	r.nextSessionFrameNumber++
}

// Stop implements rdat.FrameReceiver: the WAV header is patched with the
// final counts and the file closed.
func (r *FrameReceiver) Stop() {
	if r.writer != nil {
		if err := r.writer.Close(); err != nil {
			log.Error().Err(err).Msg("failed to finalize WAV file")
		}
		r.writer = nil
	}
}

func formatTime(tc rdat.TimeCode) string {
	return fmt.Sprintf("%02dh-%02dm-%02ds-%02df",
		tc.Hour(), tc.Minute(), tc.Second(), tc.Frame())
}

func reportProgramIndex(tc rdat.TimeCode, prefix string) {
	switch program := tc.Program(); program {
	case rdat.ProgramNotValid:
	case rdat.ProgramLeadIn:
		log.Info().Str(prefix+"program", "LEAD IN").Msg("program id")
	case rdat.ProgramLeadOut:
		log.Info().Str(prefix+"program", "LEAD OUT").Msg("program id")
	default:
		log.Info().Uint16(prefix+"program", program).Msg("program id")
	}

	if index := tc.Index(); index != rdat.IndexNotValid {
		log.Info().Uint8(prefix+"index", index).Msg("index id")
	}
}

var proRCodeTypes = [4]string{
	"IEC/SMPTE",
	"Pro DIO; sample address",
	"Pro DIO; Time-of-day",
	"Reserved-3",
}

var proRFrequencies = [4]string{"48 kHz", "44.1 kHz", "32 kHz", "Reserved-3"}

var smpteRates = [8]string{
	"30 Hz", "29.97 Hz NDF", "29.97 Hz DF", "25 Hz",
	"24 Hz", "Reserved-5", "Reserved-6", "Reserved-7",
}

// reportPack3 interprets pack 3 as either a running time or a Pro R time,
// depending on its mode bit.
func reportPack3(item []byte) {
	tc := rdat.NewTimeCode(item)

	if item[0]&0x4 != 0 {
		log.Info().Str("running_time", formatTime(tc)).Msg("subcode")
		return
	}

	sid := item[0] & 3
	freq := (item[1] & 0xc0) >> 6
	xrate := (item[1] & 0x38) >> 3

	log.Info().
		Str("pro_r_time", formatTime(tc)).
		Str("code_type", proRCodeTypes[sid]).
		Str("frequency", proRFrequencies[freq]).
		Str("smpte_rate", smpteRates[xrate]).
		Msg("subcode")
}
