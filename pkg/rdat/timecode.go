package rdat

// TimeCode decodes the BCD-coded time sub-code packs used by DAT audio:
// program time, absolute time, running time and the table of contents all
// share this layout.
//
// DAT timecode ticks 100 frames every three seconds: the first two seconds
// of each group carry 33 frames and the third 34.
type TimeCode struct {
	programID uint16
	indexID   byte

	hour   byte
	minute byte
	second byte
	frame  byte
}

// Special program and index identifier values.
const (
	ProgramNotValid = 0x80aa
	ProgramLeadIn   = 0x80bb
	ProgramLeadOut  = 0x80ee

	IndexNotValid = 0xaa
)

// NewTimeCode decodes a 7-byte sub-code pack item.
func NewTimeCode(item []byte) TimeCode {
	var tc TimeCode

	pno1 := item[0] & 0x7
	pno23 := item[1]

	switch pno23 {
	case 0xaa:
		tc.programID = ProgramNotValid
	case 0xbb:
		tc.programID = ProgramLeadIn
	case 0xee:
		tc.programID = ProgramLeadOut
	default:
		tc.programID = uint16(BCDDecode(pno23)) + 100*uint16(pno1)
	}

	if item[2] == 0xaa {
		tc.indexID = IndexNotValid
	} else {
		tc.indexID = BCDDecode(item[2])
	}

	tc.hour = BCDDecode(item[3])
	tc.minute = BCDDecode(item[4])
	tc.second = BCDDecode(item[5])
	tc.frame = BCDDecode(item[6])

	return tc
}

// TimeCodeFromAbsoluteFrame builds a timecode from an absolute frame
// count.
func TimeCodeFromAbsoluteFrame(absoluteFrame uint32) TimeCode {
	tc := TimeCode{
		programID: ProgramNotValid,
		indexID:   IndexNotValid,
	}

	// 120000 frames an hour.
	tc.hour = byte(absoluteFrame / 120000)
	absoluteFrame %= 120000

	// 2000 frames every minute.
	tc.minute = byte(absoluteFrame / 2000)
	absoluteFrame %= 2000

	// 100 frames every three seconds; the 34-frame second closes each
	// group.
	second := byte(absoluteFrame/100) * 3
	absoluteFrame %= 100
	second += byte(absoluteFrame / 33)
	frame := byte(absoluteFrame % 33)
	second -= byte(absoluteFrame / 99)
	frame += byte(absoluteFrame/99) * 33
	tc.second = second
	tc.frame = frame

	return tc
}

// Program returns the program identifier, possibly one of the special
// Program* values.
func (t TimeCode) Program() uint16 { return t.programID }

// Index returns the index identifier.
func (t TimeCode) Index() byte { return t.indexID }

// Hour returns the hour field.
func (t TimeCode) Hour() byte { return t.hour }

// Minute returns the minute field.
func (t TimeCode) Minute() byte { return t.minute }

// Second returns the second field.
func (t TimeCode) Second() byte { return t.second }

// Frame returns the frame-within-second field.
func (t TimeCode) Frame() byte { return t.frame }

// AbsoluteFrame converts the timecode back to an absolute frame count.
func (t TimeCode) AbsoluteFrame() uint32 {
	// First count whole 3-second groups of 100 frames.
	frames := uint32(t.second/3)*100 + uint32(t.frame)

	// Within a group, the first two seconds carry 33 frames each.
	frames += uint32(t.second%3) * 33

	frames += uint32(t.minute) * 2000
	frames += uint32(t.hour) * 120000

	return frames
}
