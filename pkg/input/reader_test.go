package input

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSamples(t *testing.T, samples []float32) string {
	t.Helper()

	raw := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		raw = nativeEndian.AppendUint32(raw, math.Float32bits(s))
	}

	path := filepath.Join(t.TempDir(), "samples.f32")
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path
}

func TestReaderReadsSamples(t *testing.T) {
	want := []float32{0.0, 1.0, -1.0, 0.5, -0.25}
	path := writeSamples(t, want)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]float32, 3)
	n := r.Read(buf)
	assert.Equal(t, 3, n)
	assert.Equal(t, want[:3], buf[:n])

	n = r.Read(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, want[3:], buf[:n])

	assert.Equal(t, 0, r.Read(buf))
}

func TestReaderTruncatedTail(t *testing.T) {
	// A file ending mid-sample yields only the whole samples.
	raw := make([]byte, 0, 10)
	raw = nativeEndian.AppendUint32(raw, math.Float32bits(2.0))
	raw = nativeEndian.AppendUint32(raw, math.Float32bits(3.0))
	raw = append(raw, 0xde, 0xad)

	path := filepath.Join(t.TempDir(), "short.f32")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]float32, 8)
	assert.Equal(t, 2, r.Read(buf))
	assert.Equal(t, float32(2.0), buf[0])
	assert.Equal(t, float32(3.0), buf[1])

	assert.Equal(t, 0, r.Read(buf))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.f32"))
	assert.Error(t, err)
}
