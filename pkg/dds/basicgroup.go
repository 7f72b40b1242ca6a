package dds

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tapeworks/rdattools/pkg/ecc"
)

// BasicGroupSize is 126632 bytes: 22 logical frames of 5756 bytes. The
// basic group is the smallest logical unit a DDS drive writes or reads.
const BasicGroupSize = 22 * Group1Size

// BasicGroup accumulates the logical frames of one basic group across any
// number of passes over the same stretch of tape, together with per-byte
// validity and the optional ECC3 sub-group.
type BasicGroup struct {
	id uint32

	data  [BasicGroupSize]byte
	valid [BasicGroupSize]bool

	eccData  [Group1Size]byte
	eccValid [Group1Size]bool
}

// NewBasicGroup returns an empty basic group with the given id. Every byte
// starts invalid.
func NewBasicGroup(id uint32) *BasicGroup {
	return &BasicGroup{id: id}
}

// BasicGroupID returns the group's id.
func (g *BasicGroup) BasicGroupID() uint32 { return g.id }

// AddSubFrame merges one de-whitened logical frame into the group.
//
// The merge favors information: a valid byte replaces an invalid one; two
// valid bytes that disagree keep the first and log the conflict; two
// invalid bytes adopt the newer value while staying invalid, because an
// invalidated block often still carries mostly correct bytes and the
// validity bitmap preserves the distinction.
func (g *BasicGroup) AddSubFrame(frame *Group1) bool {
	if frame.BasicGroupID() != g.id {
		log.Error().
			Uint32("group", g.id).
			Uint32("frame_group", frame.BasicGroupID()).
			Msg("attempt to add sub-frame to wrong basic group")
		return false
	}

	// Sub-frame zero does not exist; ignore one if it ever shows up.
	if frame.SubFrameID() == 0 {
		return true
	}

	var dst []byte
	var dstValid []bool
	if frame.IsECCFrame() {
		dst = g.eccData[:]
		dstValid = g.eccValid[:]
	} else {
		// Frames are numbered starting at 1.
		pos := Group1Size * (int(frame.SubFrameID()) - 1)
		dst = g.data[pos : pos+Group1Size]
		dstValid = g.valid[pos : pos+Group1Size]
	}

	data := frame.Data()
	valid := frame.Valid()

	for i := 0; i < Group1Size; i++ {
		switch {
		case valid[i] && !dstValid[i]:
			dst[i] = data[i]
			dstValid[i] = true
		case valid[i] && dstValid[i]:
			if data[i] != dst[i] {
				log.Warn().
					Uint32("group", frame.BasicGroupID()).
					Uint8("sub_group", frame.SubFrameID()).
					Int("offset", i).
					Uint8("old", dst[i]).
					Uint8("new", data[i]).
					Msg("reread mismatch, keeping existing data")
			}
		case !valid[i] && !dstValid[i]:
			dst[i] = data[i]
		}
	}

	return true
}

// Correct runs the ECC3 code over every vector of the group, repairing
// what erasures it can. It reports whether the whole group came out clean.
func (g *BasicGroup) Correct() bool {
	c3 := ecc.NewC3()
	uncorrectable := 0

	for fill := NewC3Fill(g); !fill.End(); fill.Next() {
		c3.Fill(fill)

		switch c3.Correct() {
		case ecc.NoErrors:
		case ecc.Corrected:
			c3.Dump(fill)
		case ecc.Uncorrectable:
			// Leave the slice as is; the validity bitmap carries
			// the loss to the output.
			uncorrectable++
		}
	}

	return uncorrectable == 0
}

// Data exposes the payload bytes.
func (g *BasicGroup) Data() *[BasicGroupSize]byte { return &g.data }

// Valid exposes the payload validity flags.
func (g *BasicGroup) Valid() *[BasicGroupSize]bool { return &g.valid }

// ECCData exposes the ECC3 sub-group bytes.
func (g *BasicGroup) ECCData() *[Group1Size]byte { return &g.eccData }

// ECCValid exposes the ECC3 sub-group validity flags.
func (g *BasicGroup) ECCValid() *[Group1Size]bool { return &g.eccValid }

// SidecarPaths returns the four file names a group is persisted under in
// the given directory.
func SidecarPaths(dir string, id uint32) (data, valid, eccData, eccValid string) {
	data = fmt.Sprintf("%s/g%06d.bin", dir, id)
	valid = fmt.Sprintf("%s/g%06d.val", dir, id)
	eccData = fmt.Sprintf("%s/g%06d.ecc.bin", dir, id)
	eccValid = fmt.Sprintf("%s/g%06d.ecc.val", dir, id)
	return
}

// LoadFromFiles restores a previously persisted copy of this group so a
// later pass over the tape can improve on it. Missing or short files leave
// the group untouched.
func (g *BasicGroup) LoadFromFiles(dataPath, validPath, eccPath, eccValidPath string) bool {
	data, err := os.ReadFile(dataPath)
	if err != nil || len(data) < BasicGroupSize {
		return false
	}
	valid, err := os.ReadFile(validPath)
	if err != nil || len(valid) < BasicGroupSize {
		return false
	}
	eccData, err := os.ReadFile(eccPath)
	if err != nil || len(eccData) < Group1Size {
		return false
	}
	eccValid, err := os.ReadFile(eccValidPath)
	if err != nil || len(eccValid) < Group1Size {
		return false
	}

	copy(g.data[:], data)
	for i := range g.valid {
		g.valid[i] = valid[i] != 0
	}
	copy(g.eccData[:], eccData)
	for i := range g.eccValid {
		g.eccValid[i] = eccValid[i] != 0
	}

	return true
}

// DumpToFiles persists the group, rewriting all four sidecar files.
// Validity bitmaps use 0xff for valid and 0x00 for invalid bytes.
func (g *BasicGroup) DumpToFiles(dataPath, validPath, eccPath, eccValidPath string) error {
	valid := make([]byte, BasicGroupSize)
	for i, v := range g.valid {
		if v {
			valid[i] = 0xff
		}
	}

	eccValid := make([]byte, Group1Size)
	for i, v := range g.eccValid {
		if v {
			eccValid[i] = 0xff
		}
	}

	if err := os.WriteFile(dataPath, g.data[:], 0644); err != nil {
		return fmt.Errorf("failed to write group data: %w", err)
	}
	if err := os.WriteFile(validPath, valid, 0644); err != nil {
		return fmt.Errorf("failed to write group validity: %w", err)
	}
	if err := os.WriteFile(eccPath, g.eccData[:], 0644); err != nil {
		return fmt.Errorf("failed to write group ECC: %w", err)
	}
	if err := os.WriteFile(eccValidPath, eccValid, 0644); err != nil {
		return fmt.Errorf("failed to write group ECC validity: %w", err)
	}

	return nil
}
