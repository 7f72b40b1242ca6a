package ecc

// Fill is the interface through which a Reed-Solomon code reads and writes
// the bytes of a single codeword vector. Implementations map codeword
// positions onto the storage cells of a larger container (a track, a basic
// group) according to the interleave geometry of their code.
type Fill interface {
	// Data returns the byte at the given codeword position.
	Data(pos int) byte

	// SetData stores a corrected byte at the given codeword position.
	SetData(pos int, v byte)

	// Valid reports whether the byte at the given codeword position is
	// trusted.
	Valid(pos int) bool

	// SetValid updates the validity flag at the given codeword position.
	SetValid(pos int, v bool)
}

// Iterator extends Fill with traversal over every codeword vector the
// backing container holds. A correction session looks like:
//
//	for it := NewSomeFill(container); !it.End(); it.Next() {
//		code.Fill(it)
//		if code.Correct() != ecc.NoErrors {
//			code.Dump(it)
//		}
//	}
type Iterator interface {
	Fill

	// Next advances to the next vector. It returns false once the
	// iterator has moved past the final vector.
	Next() bool

	// End reports whether all vectors have been processed.
	End() bool
}
