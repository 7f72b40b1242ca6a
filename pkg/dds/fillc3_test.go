package dds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapeworks/rdattools/pkg/ecc"
)

func TestC3FillVectorCount(t *testing.T) {
	group := NewBasicGroup(0)

	count := 1
	for fill := NewC3Fill(group); fill.Next(); {
		count++
	}

	// 719 byte slices with two track pairs and two interleaves, plus
	// the final slice with a single track pair.
	assert.Equal(t, 719*4+2, count)
}

func TestC3FillOffsetsInBounds(t *testing.T) {
	group := NewBasicGroup(0)

	for fill := NewC3Fill(group); !fill.End(); fill.Next() {
		for p := 0; p < ecc.C3N; p++ {
			off, isECC := fill.offset(p)
			if isECC {
				assert.GreaterOrEqual(t, off, 0)
				assert.Less(t, off, Group1Size)
			} else {
				assert.GreaterOrEqual(t, off, 0)
				assert.Less(t, off, BasicGroupSize)
			}
		}
	}
}

func TestC3FillPositionMapping(t *testing.T) {
	group := NewBasicGroup(0)
	fill := NewC3Fill(group)

	// First vector: slice 0, track pair 0, interleave 0. Position 0 is
	// even, so it reads G1 group 0 at 8*0 + 2*(0+1) + 0 = 2; position
	// 1 is odd and reads offset 0.
	group.data[2] = 0xa0
	group.data[0] = 0xa1

	assert.Equal(t, byte(0xa0), fill.Data(0))
	assert.Equal(t, byte(0xa1), fill.Data(1))

	// Positions 44 and 45 select G1 group 22, the ECC sub-group.
	group.eccData[2] = 0xe0
	group.eccData[0] = 0xe1
	assert.Equal(t, byte(0xe0), fill.Data(44))
	assert.Equal(t, byte(0xe1), fill.Data(45))

	// Position 2 reads G1 group 1.
	group.data[Group1Size+2] = 0xb0
	assert.Equal(t, byte(0xb0), fill.Data(2))
}

func TestC3FillEveryCellVisitedAtMostOnce(t *testing.T) {
	group := NewBasicGroup(0)

	type cell struct {
		ecc bool
		off int
	}
	seen := make(map[cell]bool)

	for fill := NewC3Fill(group); !fill.End(); fill.Next() {
		for p := 0; p < ecc.C3N; p++ {
			off, isECC := fill.offset(p)
			c := cell{isECC, off}
			require.False(t, seen[c],
				"cell %+v hit twice (slice %d pair %d il %d pos %d)",
				c, fill.byteSlice, fill.trackPair, fill.interleave, p)
			seen[c] = true
		}
	}
}

func TestC3FillSetters(t *testing.T) {
	group := NewBasicGroup(0)
	fill := NewC3Fill(group)

	fill.SetData(1, 0x42)
	fill.SetValid(1, true)

	assert.Equal(t, byte(0x42), group.data[0])
	assert.True(t, group.valid[0])

	fill.SetData(44, 0x43)
	assert.Equal(t, byte(0x43), group.eccData[2])
}
