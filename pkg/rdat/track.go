package rdat

import (
	"github.com/rs/zerolog/log"

	"github.com/tapeworks/rdattools/pkg/ecc"
)

// Head identifies which helical head read a track. There are two heads in
// an R-DAT mechanism; each best reads the tracks it wrote, and nothing in
// the logical track data distinguishes them, so the collector must tag the
// track when it is instantiated.
type Head int

const (
	// HeadA is the negative azimuth head.
	HeadA Head = iota
	// HeadB is the positive azimuth head.
	HeadB
	// HeadUnknown is used until azimuth evidence arrives.
	HeadUnknown
)

func (h Head) String() string {
	switch h {
	case HeadA:
		return "A"
	case HeadB:
		return "B"
	default:
		return "?"
	}
}

// Track geometry. A track carries 144 blocks of 32 payload bytes each plus
// a header byte per block. Blocks 0-127 are data blocks; blocks 128-143
// (0x80-0x8f) are sub-code blocks. The DDS specification calls tracks
// "channels".
const (
	TrackBlocks    = 144
	TrackBlockSize = 32
)

// Track is the contents of one head pass. It accumulates blocks as they
// arrive, then a single Complete step runs C1 and C2 error correction and
// parses the sub-code area, after which the track is read-only.
type Track struct {
	head Head

	// subcode holds the first good observation of each sub-code pack,
	// indexed by pack identifier, filled in during Complete.
	subcode      [16][7]byte
	subcodeValid [16]bool

	controlID     byte
	haveControlID bool
	dataID        byte
	haveDataID    bool

	// signature lists the pack identifiers found in the sub-code area
	// in slot order. Useful for identifying the machine that made the
	// recording.
	signature [7]byte

	data    [TrackBlocks][TrackBlockSize]byte
	valid   [TrackBlocks][TrackBlockSize]bool
	header  [TrackBlocks]byte
	hdrOK   [TrackBlocks]bool

	haveLastBlock   bool
	lastBlockNumber byte

	c1Errors        int
	c1Uncorrectable int
	c2Uncorrectable int
}

// NewTrack returns an empty track tagged with the given head.
func NewTrack(head Head) *Track {
	return &Track{head: head}
}

// GetHead returns the head this track was read from, if known.
func (t *Track) GetHead() Head { return t.head }

// SetHead updates the head tag.
func (t *Track) SetHead(head Head) { t.head = head }

// AddBlock incorporates a received block into the track.
//
// A block whose header survives its XOR parity check is placed at the
// block number it declares. A block with a broken header can still be
// accepted: if the previously accepted block number k has k and k+1 both
// inside a legal run, the new block is slotted at k+1 with its header
// marked invalid but its payload bytes kept with their own flags.
func (t *Track) AddBlock(block *Block) {
	if !blockHeaderValid(block) {
		if t.haveLastBlock && block.Size() == BlockWords {
			last := t.lastBlockNumber
			if last < 0x7f ||
				(last >= 0x88 && last < 0x8f) ||
				(last >= 0x80 && last < 0x88) {
				t.addGuessedBlock(last+1, block)
				t.lastBlockNumber++
			}
		}
		return
	}

	t.addVerifiedBlock(block)
}

func (t *Track) addVerifiedBlock(block *Block) {
	bytes := block.FlaggedBytes()

	var blockNumber byte
	if bytes[2]&0x80 != 0 {
		// Sub-code block, numbered 0x80-0x8f.
		blockNumber = byte(bytes[2]) & 0x8f
	} else {
		blockNumber = byte(bytes[2])
	}

	t.header[blockNumber] = byte(bytes[1])
	t.hdrOK[blockNumber] = true
	t.haveLastBlock = true
	t.lastBlockNumber = blockNumber

	t.dataFill(blockNumber, block)
}

func (t *Track) addGuessedBlock(blockNumber byte, block *Block) {
	t.hdrOK[blockNumber] = false
	t.dataFill(blockNumber, block)
}

// dataFill copies the payload bytes of a block into the track array along
// with their validity flags. The sync word and three header bytes are
// skipped.
func (t *Track) dataFill(blockNumber byte, block *Block) {
	count := block.Size()
	if count < 4 {
		return
	}
	count -= 4
	if count > TrackBlockSize {
		count = TrackBlockSize
	}

	bytes := block.FlaggedBytes()
	for i := 0; i < count; i++ {
		t.data[blockNumber][i] = byte(bytes[i+4])
		t.valid[blockNumber][i] = bytes[i+4]&InvalidFlag == 0
	}
}

// blockHeaderValid checks the three header bytes that follow the sync
// word: all must have decoded cleanly and their XOR parity must be zero.
func blockHeaderValid(block *Block) bool {
	if block.Size() < 4 {
		return false
	}

	bytes := block.FlaggedBytes()

	if (bytes[1]|bytes[2]|bytes[3])&InvalidFlag != 0 {
		return false
	}

	parity := byte(bytes[1] ^ bytes[2] ^ bytes[3])

	return parity == 0
}

// Complete seals the track: C1 correction over every block pair, C2 over
// every block 4-group, then sub-code extraction. The track is read-only
// afterwards.
func (t *Track) Complete() {
	vp := ecc.NewC1()

	for fill := NewC1Fill(t); !fill.End(); fill.Next() {
		vp.Fill(fill)

		switch vp.Correct() {
		case ecc.NoErrors:
		case ecc.Uncorrectable:
			t.c1Uncorrectable++
			fallthrough
		case ecc.Corrected:
			// Errors were present; either repaired or the whole
			// vector has been marked bad. Either way the result
			// goes back into the track.
			t.c1Errors++
			vp.Dump(fill)
		}
	}

	vq := ecc.NewC2()

	for fill := NewC2Fill(t); !fill.End(); fill.Next() {
		vq.Fill(fill)

		switch vq.Correct() {
		case ecc.NoErrors:
		case ecc.Corrected:
			vq.Dump(fill)
		case ecc.Uncorrectable:
			// Leave the slice as is. The next level of error
			// handling (interpolation for audio, C3 for DDS)
			// will have to deal with it.
			t.c2Uncorrectable++
		}
	}

	t.parseSubcodes()
}

// parseSubcodes walks blocks 0x80-0x8f after error correction, latching
// the first good observation of every pack identifier and building the
// seven-slot sub-code signature.
func (t *Track) parseSubcodes() {
	var haveSlot [7]bool

	for i := 0; i < 16; i++ {
		// Odd-numbered sub-code blocks carry three 8-byte items,
		// even blocks four.
		limit := 4
		slotStart := 0
		if i&1 == 1 {
			limit = 3
			slotStart = 4
		}
		blockNumber := 0x80 + i

		// The Control ID and Data ID ride in the header byte of the
		// first valid even-numbered sub-code block.
		if blockNumber&1 == 0 && !t.haveControlID && t.hdrOK[blockNumber] {
			t.controlID = (t.header[blockNumber] & 0xf0) >> 4
			t.dataID = t.header[blockNumber] & 0x0f
			t.haveControlID = true
			t.haveDataID = true
		}

		for j := 0; j < limit; j++ {
			item := t.data[blockNumber][8*j : 8*j+8]
			validity := t.valid[blockNumber][8*j : 8*j+8]

			if !validity[0] {
				// The pack identifier byte itself is bad.
				continue
			}

			subcodeID := (item[0] & 0xf0) >> 4

			if t.subcodeValid[subcodeID] && haveSlot[slotStart+j] {
				continue
			}

			// Check the item parity over all eight bytes and make
			// sure none of them is an erasure.
			var parity byte
			valid := true
			for k := 0; k < 8; k++ {
				parity ^= item[k]
				valid = valid && validity[k]
			}

			if !valid || parity != 0 {
				continue
			}

			if !t.subcodeValid[subcodeID] {
				copy(t.subcode[subcodeID][:], item[:7])
				t.subcodeValid[subcodeID] = true
			}

			if !haveSlot[slotStart+j] {
				t.signature[slotStart+j] = subcodeID
				haveSlot[slotStart+j] = true
			}
		}
	}

	if t.c2Uncorrectable > 0 {
		log.Debug().
			Int("c1_errors", t.c1Errors).
			Int("c2_uncorrectable", t.c2Uncorrectable).
			Msg("track completed with uncorrectable slices")
	}
}

// GetSubcode returns the 7-byte contents of the given sub-code pack, if it
// was correctly received. Only meaningful after Complete.
func (t *Track) GetSubcode(id int) ([]byte, bool) {
	if id < 0 || id > 15 || !t.subcodeValid[id] {
		return nil, false
	}
	return t.subcode[id][:], true
}

// SubcodeSignature returns the ordered pack identifiers seen in the
// sub-code area.
func (t *Track) SubcodeSignature() [7]byte { return t.signature }

// GetControlID returns the Control ID nibble from the sub-code area.
func (t *Track) GetControlID() (byte, bool) { return t.controlID, t.haveControlID }

// GetDataID returns the Data ID nibble from the sub-code area.
func (t *Track) GetDataID() (byte, bool) { return t.dataID, t.haveDataID }

// Data exposes the payload byte array.
func (t *Track) Data() *[TrackBlocks][TrackBlockSize]byte { return &t.data }

// DataValid exposes the payload validity array.
func (t *Track) DataValid() *[TrackBlocks][TrackBlockSize]bool { return &t.valid }

// Headers exposes the per-block header bytes.
func (t *Track) Headers() *[TrackBlocks]byte { return &t.header }

// HeaderValid exposes the per-block header validity flags.
func (t *Track) HeaderValid() *[TrackBlocks]bool { return &t.hdrOK }

// C1Errors returns the number of C1 vectors that carried errors.
func (t *Track) C1Errors() int { return t.c1Errors }

// C1UncorrectableErrors returns the number of C1 vectors beyond repair.
func (t *Track) C1UncorrectableErrors() int { return t.c1Uncorrectable }

// C2UncorrectableErrors returns the number of C2 slices beyond repair.
// (C2 slices that were repaired are not counted.)
func (t *Track) C2UncorrectableErrors() int { return t.c2Uncorrectable }
