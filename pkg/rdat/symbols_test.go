package rdat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		word := EncodeByte(byte(b))
		decoded := DecodeWord(int(word))

		assert.Zero(t, decoded&InvalidFlag, "byte %#02x", b)
		assert.Equal(t, byte(b), byte(decoded), "byte %#02x", b)
	}
}

func TestCodeWordsAreDistinct(t *testing.T) {
	seen := make(map[uint16]bool)
	for b := 0; b < 256; b++ {
		word := EncodeByte(byte(b))
		assert.False(t, seen[word], "word %#03x assigned twice", word)
		seen[word] = true
	}
}

func TestSyncAndPreambleAreNotData(t *testing.T) {
	assert.NotZero(t, DecodeWord(SyncWord)&InvalidFlag)
	assert.NotZero(t, DecodeWord(PreambleWord)&InvalidFlag)
}

func TestInvalidWordKeepsResidualValue(t *testing.T) {
	// An out-of-code word decodes to its low eight bits so downstream
	// layers can still mine it for residual information.
	decoded := DecodeWord(0x3fe)
	assert.NotZero(t, decoded&InvalidFlag)
	assert.Equal(t, byte(0xfe), byte(decoded))
}

func TestCodeWordsNeverAliasSync(t *testing.T) {
	for b := 0; b < 256; b++ {
		word := EncodeByte(byte(b))
		assert.NotEqual(t, uint16(SyncWord), word&0x1ff,
			"byte %#02x encodes to a sync alias", b)
	}
}

func TestCodeWordsKeepRunLengthBound(t *testing.T) {
	for b := 0; b < 256; b++ {
		word := int(EncodeByte(byte(b)))
		run := 0
		for bit := 9; bit >= 0; bit-- {
			if word&(1<<bit) == 0 {
				run++
				assert.LessOrEqual(t, run, 3, "word %#03x", word)
			} else {
				run = 0
			}
		}
	}
}
