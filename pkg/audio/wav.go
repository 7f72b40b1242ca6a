// Package audio is the DAT end of the pipeline: it demultiplexes audio
// frames into 48 kHz stereo PCM and keeps a wall-clock synchronization
// against the date/time sub-code.
package audio

import (
	"encoding/binary"
	"fmt"
	"os"
)

// RIFF/WAVE layout constants. The header is reserved up front and
// back-patched once the final frame count is known.
const (
	wavHeaderSize            = 12
	wavFormatChunkHeaderSize = 4 + 4 + 2 + 2 + 4 + 4 + 2 + 2
	wavDataChunkHeaderSize   = 4 + 4
	wavReservedBytes         = wavHeaderSize + wavFormatChunkHeaderSize + wavDataChunkHeaderSize
)

// WAVWriter streams 16-bit stereo PCM frames to a RIFF/WAVE file. The
// sample data is written as it is produced; the header goes in at Close,
// when the chunk sizes are finally known.
type WAVWriter struct {
	file          *os.File
	framesWritten uint32
}

// CreateWAV opens the output file and reserves space for the header.
func CreateWAV(path string) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := f.Write(make([]byte, wavReservedBytes)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to reserve header space: %w", err)
	}

	return &WAVWriter{file: f}, nil
}

// WriteFrame appends one 4-byte PCM frame (left and right 16-bit samples,
// little-endian, as they come off the tape).
func (w *WAVWriter) WriteFrame(frame []byte) error {
	if _, err := w.file.Write(frame[:4]); err != nil {
		return err
	}
	w.framesWritten++
	return nil
}

// FramesWritten returns the number of PCM frames appended so far.
func (w *WAVWriter) FramesWritten() uint32 { return w.framesWritten }

// Close back-patches the RIFF, fmt and data headers and closes the file.
func (w *WAVWriter) Close() error {
	if _, err := w.file.Seek(0, 0); err != nil {
		w.file.Close()
		return err
	}

	hdr := make([]byte, 0, wavReservedBytes)
	le := binary.LittleEndian

	hdr = append(hdr, "RIFF"...)
	hdr = le.AppendUint32(hdr, wavFormatChunkHeaderSize+
		wavDataChunkHeaderSize+
		w.framesWritten*4+
		4)
	hdr = append(hdr, "WAVE"...)

	hdr = append(hdr, "fmt "...)
	hdr = le.AppendUint32(hdr, wavFormatChunkHeaderSize-8)
	hdr = le.AppendUint16(hdr, 1) // PCM
	hdr = le.AppendUint16(hdr, 2) // channels
	hdr = le.AppendUint32(hdr, 48000)
	hdr = le.AppendUint32(hdr, 48000*4) // 4 bytes per frame
	hdr = le.AppendUint16(hdr, 4)       // block align
	hdr = le.AppendUint16(hdr, 16)      // bits per sample

	hdr = append(hdr, "data"...)
	hdr = le.AppendUint32(hdr, w.framesWritten*4)

	if _, err := w.file.Write(hdr); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}
