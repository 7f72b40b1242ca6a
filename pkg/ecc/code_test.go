package ecc

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// blockPair backs a C1 vector with a pair of 32-byte blocks, mirroring the
// way the track iterator slices real data: codeword position p maps to
// block p/16, byte offset (p%16)*2 plus the interleave offset.
type blockPair struct {
	offset int
	data   [2][32]byte
	valid  [2][32]bool
}

func newBlockPair(t *testing.T, data [2]string, erasures [2]string) *blockPair {
	t.Helper()

	p := &blockPair{}
	for i := 0; i < 2; i++ {
		raw, err := hex.DecodeString(data[i])
		require.NoError(t, err)
		require.Len(t, raw, 32)
		copy(p.data[i][:], raw)

		if erasures[i] == "" {
			for j := range p.valid[i] {
				p.valid[i][j] = true
			}
			continue
		}

		erase, err := hex.DecodeString(erasures[i])
		require.NoError(t, err)
		for j := range p.valid[i] {
			p.valid[i][j] = erase[j] == 0
		}
	}
	return p
}

func (p *blockPair) fillFrom(offset int) { p.offset = offset }

func (p *blockPair) Data(pos int) byte { return p.data[pos/16][(pos%16)*2+p.offset] }

func (p *blockPair) SetData(pos int, v byte) { p.data[pos/16][(pos%16)*2+p.offset] = v }

func (p *blockPair) Valid(pos int) bool { return p.valid[pos/16][(pos%16)*2+p.offset] }

func (p *blockPair) SetValid(pos int, v bool) { p.valid[pos/16][(pos%16)*2+p.offset] = v }

// The fixed C1 vectors below exercise both interleave sets of a block
// pair; each case lists the input blocks, optional erasure masks, the
// expected output blocks (empty when the input must survive unchanged or
// is unrecoverable) and the expected per-interleave statuses.
var c1Cases = []struct {
	name     string
	input    [2]string
	erasures [2]string
	answer   [2]string
	results  [2]Status
}{
	{
		name: "no errors in either vector",
		input: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		results: [2]Status{NoErrors, NoErrors},
	},
	{
		name: "two errors in odd vector at positions 31 and 0",
		input: [2]string{
			"20abaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976e",
		},
		answer: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		results: [2]Status{NoErrors, Corrected},
	},
	{
		name: "three errors in odd vector",
		input: [2]string{
			"20abaa010024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976e",
		},
		results: [2]Status{NoErrors, Uncorrectable},
	},
	{
		name: "two errors in both vectors",
		input: [2]string{
			"20aaFFFF0024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe795FFFF976d",
		},
		answer: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		results: [2]Status{Corrected, Corrected},
	},
	{
		name: "erasure indicator with the correct byte still present",
		input: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		erasures: [2]string{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000011",
		},
		answer: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		results: [2]Status{NoErrors, Corrected},
	},
	{
		name: "erasure indicator with the correct byte gone",
		input: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da97FF",
		},
		erasures: [2]string{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000011",
		},
		answer: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa0000241317abbbe79542da976d",
		},
		results: [2]Status{NoErrors, Corrected},
	},
	{
		// C1 favors error detection over correction and will not
		// feed erasures into the corrector, so eight of them in one
		// block defeat both interleaves.
		name: "eight erasures in a single block's lower half",
		input: [2]string{
			"20aaaa000024131756940729193914d820aaaa000024131720aaaa0000241317",
			"20aaaa000024131756940729193914d820aaaa00002413170000000000000000",
		},
		erasures: [2]string{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000001111111111111111",
		},
		results: [2]Status{Uncorrectable, Uncorrectable},
	},
	{
		// A real-world vector with more errors than the code can
		// correct; a corner case in a naive solver perceives it as
		// correctable and makes the wrong correction.
		name: "overloaded vector must not be miscorrected",
		input: [2]string{
			"b10043005500af00fc00580029009f00d50073004800bd001a002100e5001700",
			"0a00420038009700af00770020000200a8009d00a5006a00670000000e00f100",
		},
		results: [2]Status{Uncorrectable, NoErrors},
	},
}

func TestC1Vectors(t *testing.T) {
	for _, tc := range c1Cases {
		t.Run(tc.name, func(t *testing.T) {
			input := newBlockPair(t, tc.input, tc.erasures)

			var expected *blockPair
			if tc.answer[0] != "" {
				expected = newBlockPair(t, tc.answer, [2]string{})
			}

			vp := NewC1()
			for i := 0; i < 2; i++ {
				input.fillFrom(i)
				vp.Fill(input)
				status := vp.Correct()
				vp.Dump(input)

				assert.Equal(t, tc.results[i], status,
					"interleave %d", i)
			}

			if expected != nil {
				assert.Equal(t, expected.data, input.data)
			}
		})
	}
}

// sliceFill backs a codeword with plain slices.
type sliceFill struct {
	data  []byte
	valid []bool
}

func newSliceFill(n int) *sliceFill {
	f := &sliceFill{data: make([]byte, n), valid: make([]bool, n)}
	for i := range f.valid {
		f.valid[i] = true
	}
	return f
}

func (f *sliceFill) Data(pos int) byte        { return f.data[pos] }
func (f *sliceFill) SetData(pos int, v byte)  { f.data[pos] = v }
func (f *sliceFill) Valid(pos int) bool       { return f.valid[pos] }
func (f *sliceFill) SetValid(pos int, v bool) { f.valid[pos] = v }

// The all-zero vector is a codeword of every linear code, which makes it a
// convenient base for error-injection properties.

func TestC1CorrectsRandomErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := C1N
		count := rapid.IntRange(1, 2).Draw(t, "count")
		positions := rapid.SliceOfNDistinct(rapid.IntRange(0, n-1), count, count,
			rapid.ID).Draw(t, "positions")

		fill := newSliceFill(n)
		for _, p := range positions {
			fill.data[p] = rapid.ByteMin(1).Draw(t, "value")
		}

		code := NewC1()
		code.Fill(fill)
		status := code.Correct()
		code.Dump(fill)

		if status != Corrected {
			t.Fatalf("status = %v, want CORRECTED", status)
		}
		for i, b := range fill.data {
			if b != 0 {
				t.Fatalf("byte %d = %#02x after correction", i, b)
			}
		}
		// Two corrections use up C1's whole budget; the vector's
		// validity then stays cleared.
		wantValid := count < C1TwoT/2
		for i, v := range fill.valid {
			if v != wantValid {
				t.Fatalf("byte %d valid = %v, want %v", i, v, wantValid)
			}
		}
	})
}

func TestC2CorrectsErasures(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := C2N
		count := rapid.IntRange(1, C2TwoT).Draw(t, "count")
		positions := rapid.SliceOfNDistinct(rapid.IntRange(0, n-1), count, count,
			rapid.ID).Draw(t, "positions")

		fill := newSliceFill(n)
		for _, p := range positions {
			fill.data[p] = rapid.Byte().Draw(t, "value")
			fill.valid[p] = false
		}

		code := NewC2()
		code.Fill(fill)
		status := code.Correct()
		code.Dump(fill)

		if status != Corrected {
			t.Fatalf("status = %v, want CORRECTED", status)
		}
		for i, b := range fill.data {
			if b != 0 {
				t.Fatalf("byte %d = %#02x after correction", i, b)
			}
		}
		for i, v := range fill.valid {
			if !v {
				t.Fatalf("byte %d left invalid", i)
			}
		}
	})
}

func TestC2TooManyErasures(t *testing.T) {
	fill := newSliceFill(C2N)
	for p := 0; p < C2TwoT+1; p++ {
		fill.data[p] = 0xff
		fill.valid[p] = false
	}

	before := make([]byte, C2N)
	copy(before, fill.data)

	code := NewC2()
	code.Fill(fill)
	status := code.Correct()
	code.Dump(fill)

	assert.Equal(t, Uncorrectable, status)
	assert.Equal(t, before, fill.data, "uncorrectable vector must not be mutated")
	for i, v := range fill.valid {
		assert.False(t, v, "byte %d should be invalid", i)
	}
}

func TestC3CorrectsErasures(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := C3N
		count := rapid.IntRange(1, C3TwoT).Draw(t, "count")
		positions := rapid.SliceOfNDistinct(rapid.IntRange(0, n-1), count, count,
			rapid.ID).Draw(t, "positions")

		fill := newSliceFill(n)
		for _, p := range positions {
			fill.data[p] = rapid.Byte().Draw(t, "value")
			fill.valid[p] = false
		}

		code := NewC3()
		code.Fill(fill)
		status := code.Correct()
		code.Dump(fill)

		if status != Corrected {
			t.Fatalf("status = %v, want CORRECTED", status)
		}
		for i, b := range fill.data {
			if b != 0 {
				t.Fatalf("byte %d = %#02x after correction", i, b)
			}
		}
	})
}

func TestC3TooManyErasures(t *testing.T) {
	fill := newSliceFill(C3N)
	for p := 0; p < C3TwoT+1; p++ {
		fill.valid[p] = false
	}

	code := NewC3()
	code.Fill(fill)
	assert.Equal(t, Uncorrectable, code.Correct())
}

// randomCodeword draws 28 random data bytes and completes them into a
// valid C1 codeword via the parity encoder.
func randomCodeword(t *rapid.T) *sliceFill {
	fill := newSliceFill(C1N)
	for i := 0; i < C1N-C1TwoT; i++ {
		fill.data[i] = rapid.Byte().Draw(t, "data")
	}

	code := NewC1()
	if !code.EncodeParity(fill, []int{28, 29, 30, 31}) {
		t.Fatalf("parity encode failed")
	}
	return fill
}

func TestEncodeParityProducesCodewords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fill := randomCodeword(t)

		code := NewC1()
		code.Fill(fill)
		if status := code.Correct(); status != NoErrors {
			t.Fatalf("fresh codeword reported %v", status)
		}
	})
}

func TestC1RoundTripOnRandomCodewords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fill := randomCodeword(t)

		original := make([]byte, C1N)
		copy(original, fill.data)

		count := rapid.IntRange(1, 2).Draw(t, "count")
		positions := rapid.SliceOfNDistinct(rapid.IntRange(0, C1N-1), count, count,
			rapid.ID).Draw(t, "positions")
		for _, p := range positions {
			fill.data[p] ^= rapid.ByteMin(1).Draw(t, "flip")
		}

		code := NewC1()
		code.Fill(fill)
		status := code.Correct()
		code.Dump(fill)

		if status != Corrected {
			t.Fatalf("status = %v, want CORRECTED", status)
		}
		for i := range original {
			if fill.data[i] != original[i] {
				t.Fatalf("byte %d not restored", i)
			}
		}
	})
}

func TestCleanVectorWithErasureFlagsIsRevalidated(t *testing.T) {
	// A vector whose bytes are all correct but arrive flagged invalid
	// comes back CORRECTED with every flag set: the syndrome vouches
	// for the values.
	fill := newSliceFill(C2N)
	fill.valid[5] = false
	fill.valid[17] = false

	code := NewC2()
	code.Fill(fill)
	status := code.Correct()
	code.Dump(fill)

	assert.Equal(t, Corrected, status)
	for i, v := range fill.valid {
		assert.True(t, v, "byte %d", i)
	}
}
