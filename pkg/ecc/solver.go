package ecc

import "github.com/tapeworks/rdattools/pkg/gf256"

// The solver below follows "Modified Euclidean Algorithms for Decoding
// Reed-Solomon Codes" by Dilip V. Sarwate and Zhiyuan Yan, 2009.
//
// It is especially useful because it can consume the extra erasure
// information that is available during R-DAT decoding: the ten-to-eight
// symbol decoder flags every line word that falls outside the code book,
// and the C2/C3 layers run on vectors whose bytes are either known good or
// known bad thanks to the C1 layer before them. In that erasures-only mode
// a 2t-parity code corrects 2t symbols instead of t.

// polyMulX multiplies a polynomial by x in place-safe fashion.
func polyMulX(in, out []byte) {
	for i := len(in) - 1; i > 0; i-- {
		out[i] = in[i-1]
	}
	out[0] = 0
}

// polyMulScalar multiplies every coefficient by the scalar s.
func polyMulScalar(in []byte, s byte, out []byte) {
	for i := range in {
		out[i] = gf256.Mul(in[i], s)
	}
}

func polyAdd(a, b, out []byte) {
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
}

// Solve computes the error-locator polynomial sigma and the error-evaluator
// polynomial omega for the given syndrome and known erasure locations.
//
// Erasure locations are expressed relative to the lowest-order coefficient
// of the codeword polynomial: an erasure in the lowest-order byte is 0, one
// in the highest-order byte is n-1. No more than len(syndrome) erasures can
// be solved.
//
// sigma has len(syndrome)+1 coefficients and omega len(syndrome), both
// lowest order first. The boolean result is true if the vector can possibly
// be corrected; the caller must still locate roots of sigma within the
// codeword and verify that the implied corrections cancel the syndrome.
func Solve(syndrome, erasures []byte) (sigma, omega []byte, ok bool) {
	twoT := len(syndrome)

	u := make([]byte, twoT+1)
	v := make([]byte, twoT+1)
	w := make([]byte, twoT+1)
	x := make([]byte, twoT+1)

	copy(v, syndrome)
	u[twoT] = 1
	x[0] = 1

	d := -1
	p := 0

	vAdjust := make([]byte, twoT+1)
	xAdjust := make([]byte, twoT+1)
	newV := make([]byte, twoT+1)
	newX := make([]byte, twoT+1)

	for i := 0; i < twoT; i++ {
		// The first phase of the algorithm incorporates the known
		// erasure locations, one per iteration.
		first := p < len(erasures)

		// The Euclidean phase swaps its operands whenever the top
		// coefficient is live and the degree indicator has gone
		// negative.
		swap := !first && v[twoT-1] != 0 && d < 0

		var g, z byte
		if first {
			g = gf256.PowAlpha(int(erasures[p]))
			p++
			z = 1
		} else {
			g = u[twoT]
			z = v[twoT-1]
		}

		if swap {
			d = -d - 1
		} else if !first {
			d--
		}

		if first {
			polyMulScalar(v, z, vAdjust)
			polyMulScalar(x, z, xAdjust)
		} else {
			polyMulScalar(u, z, vAdjust)
			polyMulScalar(w, z, xAdjust)
		}

		polyMulX(v, newV)
		polyMulX(x, newX)
		polyMulScalar(newV, g, newV)
		polyMulScalar(newX, g, newX)
		polyAdd(newV, vAdjust, newV)
		polyAdd(newX, xAdjust, newX)

		if swap {
			polyMulX(v, u)
			polyMulX(x, w)
		}

		copy(v, newV)
		copy(x, newX)
	}

	if d < 0 && p == len(erasures) {
		sigma = make([]byte, twoT+1)
		omega = make([]byte, twoT)
		copy(sigma, x)
		copy(omega, v[:twoT])
		return sigma, omega, true
	}

	return nil, nil, false
}

// ErrorAt evaluates Forney's formula at the given error location (a power
// of alpha) and returns the correction value to XOR into the codeword.
//
// The R-DAT codes use b0 = 0 -- their check matrices all begin with a row
// of alpha^0 -- so the location^b0 factor of the formula is one and is
// omitted.
func ErrorAt(sigma, omega []byte, location byte) byte {
	top := gf256.Eval(omega, location)

	// The derivative of the locator polynomial in GF(2) is just its
	// odd-power terms.
	var res byte
	y := byte(1)
	for i := 1; i < len(sigma); i++ {
		if i&1 == 1 {
			res ^= gf256.Mul(sigma[i], y)
		}
		y = gf256.Mul(y, location)
	}

	bottom := gf256.Mul(res, location)

	return gf256.Mul(top, gf256.Inv(bottom))
}
