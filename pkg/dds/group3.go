package dds

import "github.com/tapeworks/rdattools/pkg/rdat"

// AreaID identifies the region of the tape a frame belongs to.
type AreaID int

// Tape areas, as encoded in sub-code pack 3.
const (
	DeviceArea    AreaID = 0
	ReferenceArea AreaID = 1
	SystemArea    AreaID = 2
	DataArea      AreaID = 4
	EODArea       AreaID = 5
)

func (a AreaID) String() string {
	switch a {
	case DeviceArea:
		return "DEVICE"
	case ReferenceArea:
		return "REFERENCE"
	case SystemArea:
		return "SYSTEM"
	case DataArea:
		return "DATA"
	case EODArea:
		return "END-OF-DATA"
	default:
		return "?"
	}
}

// PartitionID identifies the tape partition.
type PartitionID int

// Tape partitions.
const (
	PartitionZero PartitionID = 0
	PartitionOne  PartitionID = 1
)

// DecodeError enumerates the ways a group-3 decode can go wrong. A frame
// that fails with C2ErrorsPresent is still delivered downstream; the C3
// layer may yet recover it.
type DecodeError int

// Group-3 decode outcomes.
const (
	DecodeOK DecodeError = iota
	AMissingSubcode3
	BMissingSubcode3
	MissingSubcode1
	MissingSubcode2
	MissingSubcode4
	AbsoluteFrameMismatch
	LogicalFrameMismatch
	UnknownAreaID
	C2ErrorsPresent
	InvalidHeader
	ECC4Error
)

func (e DecodeError) String() string {
	switch e {
	case DecodeOK:
		return "DECODE_OK"
	case AMissingSubcode3:
		return "A_MISSING_SUBCODE_3"
	case BMissingSubcode3:
		return "B_MISSING_SUBCODE_3"
	case MissingSubcode1:
		return "MISSING_SUBCODE_1"
	case MissingSubcode2:
		return "MISSING_SUBCODE_2"
	case MissingSubcode4:
		return "MISSING_SUBCODE_4"
	case AbsoluteFrameMismatch:
		return "ABSOLUTE_FRAME_MISMATCH"
	case LogicalFrameMismatch:
		return "LOGICAL_FRAME_MISMATCH"
	case UnknownAreaID:
		return "UNKNOWN_AREA_ID"
	case C2ErrorsPresent:
		return "C2_ERRORS_PRESENT"
	case InvalidHeader:
		return "INVALID_HEADER"
	case ECC4Error:
		return "ECC4_ERROR"
	default:
		return "?"
	}
}

// Group3 is a DAT frame interpreted as a DDS logical sub-group, one of the
// 22 pieces that together make up a basic group (section 9.3.3 of the
// ECMA DDS standard).
type Group3 struct {
	frame rdat.Frame

	areaID          AreaID
	partitionID     PartitionID
	absoluteFrameID uint32

	// Data-area fields.
	basicGroupID       uint32
	logicalFrameID     byte
	isLastLogicalFrame bool
	isECC3Frame        bool
	separator1Count    uint32
	separator2Count    uint32
	recordCount        uint32

	// checksumsOK records whether the four half-column checksums from
	// packs 3 and 4 matched the demultiplexed payload. A mismatch does
	// not fail the frame; whether it should is a policy question the
	// tape itself cannot answer.
	checksumsOK bool
}

// di locates data byte number i ("Di") inside the demultiplexed frame. A
// group-3 payload occupies rows 1-1439; row 0 is the header row.
func di(data *[rdat.FrameRows][rdat.FrameBytesPerRow]byte, i int) byte {
	return data[i/4+1][i%4]
}

// Frame returns the underlying demultiplexed frame.
func (g *Group3) Frame() *rdat.Frame { return &g.frame }

// Area returns the tape area this frame purports to belong to.
func (g *Group3) Area() AreaID { return g.areaID }

// Partition returns the partition this frame purports to belong to.
func (g *Group3) Partition() PartitionID { return g.partitionID }

// AbsoluteFrameID returns the frame's id relative to the entire tape.
func (g *Group3) AbsoluteFrameID() uint32 { return g.absoluteFrameID }

// BasicGroupID returns the running basic group count (data area only).
func (g *Group3) BasicGroupID() uint32 { return g.basicGroupID }

// LogicalFrameID returns the frame's position within its basic group.
func (g *Group3) LogicalFrameID() byte { return g.logicalFrameID }

// IsLastLogicalFrame reports whether this frame closes its basic group.
func (g *Group3) IsLastLogicalFrame() bool { return g.isLastLogicalFrame }

// IsECC3Frame reports whether this frame carries the group's ECC3 parity.
// When true, IsLastLogicalFrame should generally be true as well.
func (g *Group3) IsECC3Frame() bool { return g.isECC3Frame }

// Separator1Count returns the running file count.
func (g *Group3) Separator1Count() uint32 { return g.separator1Count }

// Separator2Count returns the running set-mark count.
func (g *Group3) Separator2Count() uint32 { return g.separator2Count }

// RecordCount returns the running record count.
func (g *Group3) RecordCount() uint32 { return g.recordCount }

// ChecksumsOK reports whether the half-column checksums matched.
func (g *Group3) ChecksumsOK() bool { return g.checksumsOK }

// getSubcodePack fetches the first valid copy of the given pack from
// either track.
func getSubcodePack(id int, a, b *rdat.Track) ([]byte, bool) {
	if item, ok := a.GetSubcode(id); ok {
		return item, true
	}
	return b.GetSubcode(id)
}

// DecodeFrame constructs the group from a received track pair (also called
// a G4 group pair).
func (g *Group3) DecodeFrame(a, b *rdat.Track) DecodeError {
	aItem, ok := a.GetSubcode(3)
	if !ok {
		return AMissingSubcode3
	}
	bItem, ok := b.GetSubcode(3)
	if !ok {
		return BMissingSubcode3
	}

	// Every track carries a pack 3. Both copies must agree on the
	// absolute frame number. (The pairing protocol should have checked
	// this already, but trust has limits.)
	var a3, b3 Pack3
	a3.Decode(aItem)
	b3.Decode(bItem)

	if a3.AbsoluteFrameID != b3.AbsoluteFrameID {
		return AbsoluteFrameMismatch
	}

	g.partitionID = PartitionID(a3.PartitionID)
	g.areaID = AreaID(a3.AreaID)
	g.absoluteFrameID = a3.AbsoluteFrameID

	switch g.areaID {
	case DeviceArea, ReferenceArea, SystemArea, EODArea:
		// These areas decode only down to their identifier.
		return DecodeOK
	case DataArea:
		// Data area frames must also agree on their position within
		// the basic group.
		if a3.LogicalFrameID != b3.LogicalFrameID {
			return LogicalFrameMismatch
		}
		return g.handleDataAreaFrame(&a3, a, b)
	default:
		return UnknownAreaID
	}
}

func (g *Group3) handleDataAreaFrame(sub3 *Pack3, a, b *rdat.Track) DecodeError {
	g.logicalFrameID = sub3.LogicalFrameID
	g.isLastLogicalFrame = sub3.IsLastLogicalFrame
	g.isECC3Frame = sub3.IsECC3Frame

	item, ok := getSubcodePack(1, a, b)
	if !ok {
		return MissingSubcode1
	}
	var sub1 Pack1
	sub1.Decode(item)
	g.basicGroupID = uint32(sub1.Group)
	g.separator1Count = sub1.Separator1Count

	item, ok = getSubcodePack(2, a, b)
	if !ok {
		return MissingSubcode2
	}
	var sub2 Pack2
	sub2.Decode(item)
	g.separator2Count = uint32(sub2.Separator2Count)
	g.recordCount = sub2.RecordCount

	// Recreate the LFID byte from the logical frame id and the two flag
	// bits; the header row and two of the checksums repeat it.
	originalLFID := g.logicalFrameID
	if g.isECC3Frame {
		originalLFID |= 0x40
	}
	if g.isLastLogicalFrame {
		originalLFID |= 0x80
	}

	item, ok = getSubcodePack(4, a, b)
	if !ok {
		return MissingSubcode4
	}
	var sub4 Pack4
	sub4.Decode(item)

	g.frame.FillFromTrackPair(a, b)

	if !g.frame.OK() {
		return C2ErrorsPresent
	}

	// The logical frame id is repeated in bytes 1 and 3 of the header
	// row, and the format id bytes 0 and 2 must be zero.
	data := g.frame.Data()

	if data[0][1] != originalLFID ||
		data[0][3] != originalLFID ||
		data[0][0] != 0 ||
		data[0][2] != 0 {
		return InvalidHeader
	}

	// Half-column checksums, from packs 3 and 4.
	c1 := sub3.Checksum1
	c2 := sub3.Checksum2
	c3 := sub4.Checksum3
	c4 := sub4.Checksum4

	var rc1, rc2, rc3, rc4 byte

	// Checksums 1 and 3 fold in the recreated LFID byte.
	rc1 = originalLFID
	rc3 = originalLFID

	// 9.4.3.3.1.1 and 9.4.3.3.1.2 with i in [0,718];
	// 9.4.4.3.1.1 and 9.4.4.3.1.2 with i in [1,719].
	for i := 0; i < 719; i++ {
		rc1 ^= di(data, 8*i+3) ^
			di(data, 8*i+5) ^
			di(data, 5755)

		rc2 ^= di(data, 8*i+2) ^
			di(data, 8*i+4) ^
			di(data, 5754)

		rc3 ^= di(data, 1) ^
			di(data, 8*(i+1)-1) ^
			di(data, 8*(i+1)+1)

		rc4 ^= di(data, 0) ^
			di(data, 8*(i+1)-2) ^
			di(data, 8*(i+1))
	}

	// The comparison is recorded but does not fail the frame.
	g.checksumsOK = rc1 == c1 && rc2 == c2 && rc3 == c3 && rc4 == c4

	return DecodeOK
}
