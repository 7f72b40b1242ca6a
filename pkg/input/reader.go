// Package input reads the raw RF waveform: a headerless stream of
// native-endian IEEE-754 32-bit floats.
package input

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"unsafe"
)

// nativeEndian is the byte order of the machine we are running on; the
// capture files carry no header, so samples are stored however the capture
// host laid them out.
var nativeEndian = func() interface {
	binary.ByteOrder
	binary.AppendByteOrder
} {
	var x uint16 = 1
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

// Reader pulls float32 samples from a file or stdin in whole-sample
// quanta. A read interrupted mid-sample (a signal, a short pipe) keeps the
// residual bytes around for the next call, so sample alignment is never
// lost.
type Reader struct {
	file *os.File
	open bool

	residual      [4]byte
	residualCount int
}

// Open opens the named sample file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample file: %w", err)
	}
	return &Reader{file: f, open: true}, nil
}

// FromFile wraps an already-open file, typically stdin.
func FromFile(f *os.File) *Reader {
	return &Reader{file: f, open: true}
}

// Close closes the underlying file.
func (r *Reader) Close() {
	if !r.open {
		return
	}
	r.file.Close()
	r.open = false
}

// Read fills buf with samples and returns how many complete samples were
// read. Zero means end of input or an error; an interrupted read returns
// whatever whole samples arrived before the interruption.
func (r *Reader) Read(buf []float32) int {
	if !r.open || len(buf) == 0 {
		return 0
	}

	raw := make([]byte, len(buf)*4)

	pos := copy(raw, r.residual[:r.residualCount])
	total := len(raw) - pos

	for total > 0 {
		n, err := r.file.Read(raw[pos : pos+total])
		if n > 0 {
			total -= n
			pos += n
		}
		if err != nil {
			// End of file or a signal; keep what we have.
			break
		}
	}

	residue := pos % 4
	if residue != 0 {
		copy(r.residual[:], raw[pos-residue:pos])
		pos -= residue
	}
	r.residualCount = residue

	samples := pos / 4
	for i := 0; i < samples; i++ {
		bits := nativeEndian.Uint32(raw[i*4:])
		buf[i] = math.Float32frombits(bits)
	}

	return samples
}
