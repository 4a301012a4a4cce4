package audiofile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pvoc/dsp/dither"
	"github.com/cwbudde/algo-pvoc/internal/testutil"
)

func testClip(channels, n int) *Clip {
	clip := &Clip{SampleRate: 44100, BitDepth: 16}
	for ch := range channels {
		clip.Channels = append(clip.Channels, testutil.DeterministicSine(220*float64(ch+1), 44100, 0.5, n))
	}
	return clip
}

func TestWAVRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		bitDepth int
		eps      float64
	}{
		{"mono_16", 1, 16, 1.0 / 32768},
		{"stereo_16", 2, 16, 1.0 / 32768},
		{"stereo_24", 2, 24, 1.0 / 8388608},
		{"three_32", 3, 32, 1e-7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clip.wav")
			in := testClip(tc.channels, 2000)

			require.NoError(t, Save(path, in, tc.bitDepth))

			out, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, in.SampleRate, out.SampleRate)
			assert.Equal(t, tc.bitDepth, out.BitDepth)
			require.Equal(t, tc.channels, out.NumChannels())
			for ch := range in.Channels {
				testutil.RequireSliceNearlyEqual(t, out.Channels[ch], in.Channels[ch], tc.eps)
			}
		})
	}
}

func TestSaveWithDither(t *testing.T) {
	dir := t.TempDir()
	in := testClip(2, 4000)
	opts := []EncodeOption{WithDither(dither.Triangular, dither.Shape2SC), WithDitherSeed(7)}

	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	require.NoError(t, Save(a, in, 16, opts...))
	require.NoError(t, Save(b, in, 16, opts...))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db, "seeded dither must be reproducible")

	out, err := Load(a)
	require.NoError(t, err)
	for ch := range in.Channels {
		// TPDF plus second-order feedback stays within a few LSB.
		testutil.RequireSliceNearlyEqual(t, out.Channels[ch], in.Channels[ch], 6.0/32768)
	}
}

func TestSaveWithoutDitherNoiseMatchesPlain(t *testing.T) {
	dir := t.TempDir()
	in := testClip(1, 1000)

	plain := filepath.Join(dir, "plain.wav")
	none := filepath.Join(dir, "none.wav")
	require.NoError(t, Save(plain, in, 24))
	require.NoError(t, Save(none, in, 24, WithDither(dither.None, dither.ShapeNone)))

	dp, err := os.ReadFile(plain)
	require.NoError(t, err)
	dn, err := os.ReadFile(none)
	require.NoError(t, err)
	assert.Equal(t, dp, dn)
}

func TestEncodeWAVClipsOverload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	in := &Clip{SampleRate: 8000, Channels: [][]float32{{2, -2, 0.5}}}

	require.NoError(t, Save(path, in, 16))

	out, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 32767.0/32768, out.Channels[0][0], 1e-9)
	assert.InDelta(t, -1.0, out.Channels[0][1], 1e-9)
	assert.InDelta(t, 0.5, out.Channels[0][2], 1e-9)
}

func TestEncodeWAVErrors(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)
	defer f.Close()

	require.ErrorIs(t, EncodeWAV(f, testClip(1, 10), 12), ErrBitDepth)
	require.ErrorIs(t, EncodeWAV(f, &Clip{SampleRate: 8000}, 16), ErrEmptyClip)

	ragged := &Clip{SampleRate: 8000, Channels: [][]float32{make([]float32, 4), make([]float32, 3)}}
	require.Error(t, EncodeWAV(f, ragged, 16))
}

func TestDecodeWAVInvalid(t *testing.T) {
	_, err := DecodeWAV(bytes.NewReader([]byte("definitely not a riff file")))
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestDecodeFLACInvalid(t *testing.T) {
	_, err := DecodeFLAC(bytes.NewReader([]byte("fLaX-garbage")))
	require.Error(t, err)
}

func TestLoadUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o600))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	require.ErrorIs(t, Save(path, testClip(1, 4), 16), ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestClipMono(t *testing.T) {
	clip := &Clip{Channels: [][]float32{{1, 0, -1}, {0, 0, 1}}}
	assert.Equal(t, []float32{0.5, 0, 0}, clip.Mono())

	single := &Clip{Channels: [][]float32{{0.25, 0.5}}}
	mono := single.Mono()
	assert.Equal(t, []float32{0.25, 0.5}, mono)
	mono[0] = 9
	assert.Equal(t, float32(0.25), single.Channels[0][0], "Mono must copy")

	assert.Empty(t, (&Clip{}).Mono())
}

func TestClipLenAndDuration(t *testing.T) {
	clip := testClip(2, 22050)
	assert.Equal(t, 22050, clip.Len())
	assert.InDelta(t, 0.5, clip.Duration(), 1e-12)
	assert.Zero(t, (&Clip{}).Duration())
}

func TestInterleave(t *testing.T) {
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, interleave([][]float32{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, []float32{1, 3, 5, 2, 4, 6}, interleave([][]float32{{1, 2}, {3, 4}, {5, 6}}))
}

func TestStreamRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")

	in := testClip(2, 3000)
	require.NoError(t, Save(src, in, 16))

	s, format, err := OpenStream(src)
	require.NoError(t, err)
	assert.Equal(t, beep.SampleRate(44100), format.SampleRate)
	assert.Equal(t, 3000, s.Len())

	require.NoError(t, WriteStream(dst, s, int(format.SampleRate), format.NumChannels, 16))
	require.NoError(t, s.Close())

	out, err := Load(dst)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumChannels())
	for ch := range in.Channels {
		testutil.RequireSliceNearlyEqual(t, out.Channels[ch], in.Channels[ch], 2.0/32768)
	}
}

func TestOpenStreamFullScale(t *testing.T) {
	for _, bits := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "half.wav")
		in := &Clip{SampleRate: 8000, Channels: [][]float32{{0.5, -0.25, 0.125, 0}}}
		require.NoError(t, Save(path, in, bits))

		s, format, err := OpenStream(path)
		require.NoError(t, err)
		assert.Equal(t, bits/8, format.Precision)

		buf := make([][2]float64, 8)
		n, ok := s.Stream(buf)
		require.True(t, ok)
		require.Equal(t, 4, n)
		for i, want := range in.Channels[0] {
			assert.InDelta(t, want, buf[i][0], 1e-4, "%d-bit sample %d", bits, i)
			assert.InDelta(t, want, buf[i][1], 1e-4, "%d-bit sample %d", bits, i)
		}
		require.NoError(t, s.Close())
	}
}

func TestDecodeGain(t *testing.T) {
	assert.InDelta(t, 1.0, decodeGain(1), 0)
	assert.InDelta(t, 65535.0/32768, decodeGain(2), 1e-15)
	assert.InDelta(t, 16777215.0/8388608, decodeGain(3), 1e-15)
}

func TestWriteStreamBitDepth(t *testing.T) {
	err := WriteStream(filepath.Join(t.TempDir(), "x.wav"), beep.Silence(10), 8000, 2, 32)
	require.ErrorIs(t, err, ErrBitDepth)
}
