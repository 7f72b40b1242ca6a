package ecc

import "github.com/tapeworks/rdattools/pkg/gf256"

// Status is the outcome of correcting a single codeword vector.
type Status int

const (
	// NoErrors means the vector came in clean; nothing was modified.
	NoErrors Status = iota

	// Corrected means errors or erasures were present and have been
	// repaired; the caller should dump the vector back to its source.
	Corrected

	// Uncorrectable means the vector cannot be repaired. Every byte has
	// been marked invalid.
	Uncorrectable
)

func (s Status) String() string {
	switch s {
	case NoErrors:
		return "NO_ERRORS"
	case Corrected:
		return "CORRECTED"
	case Uncorrectable:
		return "UNCORRECTABLE"
	default:
		return "?"
	}
}

// Code holds one Reed-Solomon codeword vector together with the per-byte
// validity flags, and corrects it against a fixed check matrix.
//
// A Code value is reused across vectors: Fill it from an iterator, call
// Correct, and Dump the result back.
type Code struct {
	n     int
	twoT  int
	check [][]byte

	// erasuresOnly selects the decoding mode. The first correction
	// layer (C1) favors error detection: it refuses vectors with more
	// invalid bytes than it has parity, but it does not pass the known
	// locations to the solver, keeping the full 2t of detection
	// capability. Later layers (C2, C3) run after C1 has vouched for
	// every remaining byte, so they spend all their parity on known
	// locations and can repair 2t symbols with no detection left over.
	erasuresOnly bool

	data  []byte
	valid []bool

	// corrections holds the number of symbol corrections applied by the
	// last Correct call.
	corrections int
}

func newCode(n, twoT int, check [][]byte, erasuresOnly bool) *Code {
	return &Code{
		n:            n,
		twoT:         twoT,
		check:        check,
		erasuresOnly: erasuresOnly,
		data:         make([]byte, n),
		valid:        make([]bool, n),
	}
}

// N returns the codeword length.
func (c *Code) N() int { return c.n }

// Corrections returns the number of symbol corrections applied by the last
// Correct call.
func (c *Code) Corrections() int { return c.corrections }

// Fill loads the vector from the given source.
func (c *Code) Fill(f Fill) {
	for i := 0; i < c.n; i++ {
		c.data[i] = f.Data(i)
		c.valid[i] = f.Valid(i)
	}
}

// Dump writes the (possibly corrected) vector and validity flags back.
func (c *Code) Dump(f Fill) {
	for i := 0; i < c.n; i++ {
		f.SetData(i, c.data[i])
		f.SetValid(i, c.valid[i])
	}
}

// computeSyndrome multiplies the vector by the check matrix. It reports
// whether the whole syndrome is zero.
func (c *Code) computeSyndrome(syndrome []byte) bool {
	ok := true
	for i := 0; i < c.twoT; i++ {
		var result byte
		for j := 0; j < c.n; j++ {
			result ^= gf256.Mul(c.data[j], c.check[i][j])
		}
		syndrome[i] = result
		ok = ok && result == 0
	}
	return ok
}

// Correct detects and repairs errors in the filled vector.
func (c *Code) Correct() Status {
	syndrome := make([]byte, c.twoT)
	erasures := make([]byte, 0, c.twoT)

	ok := true
	corrected := false

	// Scan the vector for known-bad bytes. More of them than we have
	// parity symbols means the vector is beyond repair regardless of
	// mode.
	for i := 0; i < c.n; i++ {
		if !c.valid[i] {
			if len(erasures) >= c.twoT {
				ok = false
				break
			}
			erasures = append(erasures, byte(c.n-1-i))
		}
	}

	if ok {
		clean := c.computeSyndrome(syndrome)
		if clean {
			c.corrections = 0
		} else {
			locs := erasures
			if !c.erasuresOnly {
				locs = nil
			}
			ok = c.handleSyndrome(syndrome, locs)
			if ok {
				corrected = true
			}
		}
	}

	if !ok {
		for i := range c.valid {
			c.valid[i] = false
		}
		return Uncorrectable
	}

	if len(erasures) > 0 || corrected {
		// The vector entered with erasures or errors and has now
		// been fully validated, so mark every byte good -- with one
		// exception: if a detection-first code used up its entire
		// correction budget the odds of a miscorrection are too high
		// to vouch for the rest of the vector.
		v := c.erasuresOnly || c.corrections < c.twoT/2
		for i := range c.valid {
			c.valid[i] = v
		}
		return Corrected
	}

	return NoErrors
}

// EncodeParity solves for the bytes at the given positions -- at most 2t
// of them -- so that the vector read from f satisfies the check matrix,
// and writes the completed codeword back through f with every byte marked
// valid. This is the erasure decoder running in reverse: the parity cells
// are declared erased and the solver reconstructs them.
func (c *Code) EncodeParity(f Fill, positions []int) bool {
	c.Fill(f)

	for _, p := range positions {
		c.data[p] = 0
		c.valid[p] = true
	}

	erasures := make([]byte, 0, c.twoT)
	for i := 0; i < c.n; i++ {
		for _, p := range positions {
			if p == i {
				erasures = append(erasures, byte(c.n-1-i))
				break
			}
		}
	}

	syndrome := make([]byte, c.twoT)
	if !c.computeSyndrome(syndrome) {
		if !c.handleSyndrome(syndrome, erasures) {
			return false
		}
	}

	for i := range c.valid {
		c.valid[i] = true
	}
	c.Dump(f)

	return true
}

// handleSyndrome runs the Euclidean solver, locates the error positions by
// probing the roots of the locator polynomial, and applies the corrections
// if and only if they cancel the syndrome completely.
func (c *Code) handleSyndrome(syndrome, erasures []byte) bool {
	sigma, omega, correctable := Solve(syndrome, erasures)
	if !correctable {
		return false
	}

	corrections := make([]byte, 0, c.twoT)
	locations := make([]int, 0, c.twoT)
	corrected := false
	c.corrections = 0

	for i := 0; i < c.n; i++ {
		alphaInv := gf256.Inv(gf256.PowAlpha(i))

		if gf256.Eval(sigma, alphaInv) != 0 {
			continue
		}

		// There is an error at this position. Forney's formula gives
		// the correction value.
		correction := ErrorAt(sigma, omega, alphaInv)

		// The locations found this way are relative to the
		// lowest-order element of the codeword, the reverse of the
		// storage order.
		loc := c.n - 1 - i

		corrections = append(corrections, correction)
		locations = append(locations, loc)
		c.corrections++

		// Fold the correction into the syndrome; when every planned
		// correction has been folded in the syndrome must vanish.
		corrected = true
		for j := 0; j < c.twoT; j++ {
			syndrome[j] ^= gf256.Mul(correction, c.check[j][loc])
			corrected = corrected && syndrome[j] == 0
		}
	}

	if corrected {
		for i, loc := range locations {
			c.data[loc] ^= corrections[i]
		}
	}

	return corrected
}
