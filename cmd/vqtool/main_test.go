package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-vorbis/internal/output"
)

func writeTone(t *testing.T, path string, channels, frames int) [][]float32 {
	t.Helper()
	pcm := make([][]float32, channels)
	for c := range pcm {
		pcm[c] = make([]float32, frames)
		for i := range pcm[c] {
			pcm[c][i] = float32(.4 * math.Sin(float64(i)*.05*float64(c+1)))
		}
	}
	raw, err := output.AppendPCM(nil, pcm, 16, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	// quantize like the file does
	return output.FromS16LE(raw, channels)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestEncodeDecode_Batch(t *testing.T) {
	dir := t.TempDir()
	files := []string{filepath.Join(dir, "a.raw"), filepath.Join(dir, "b.raw")}
	var want [][][]float32
	for i, f := range files {
		want = append(want, writeTone(t, f, 2, 3000+i*1000))
	}

	run(t, append([]string{"encode", "--lossless", "--zstd", "-j", "2", "--chunk", "500"}, files...)...)
	for _, f := range files {
		assert.FileExists(t, outputName(f, ".raw", ".vq"))
	}
	run(t, "decode", filepath.Join(dir, "a.vq"), filepath.Join(dir, "b.vq"))

	for i, f := range files {
		data, err := os.ReadFile(outputName(f, ".raw", ".vq") + ".raw")
		require.NoError(t, err)
		got := output.FromS16LE(data, 2)
		for c := range want[i] {
			require.Len(t, got[c], len(want[i][c]))
			for j := range want[i][c] {
				require.InDelta(t, want[i][c][j], got[c][j], 2.0/32768, "file %d ch %d sample %d", i, c, j)
			}
		}
	}
}

func TestDecode_Widths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "mono.raw")
	writeTone(t, in, 1, 1500)
	run(t, "encode", "-c", "1", "--lossless", in)
	stream := outputName(in, ".raw", ".vq")

	tests := []struct {
		args  []string
		bytes int
	}{
		{[]string{"--bits", "16"}, 1500 * 2},
		{[]string{"--bits", "24"}, 1500 * 3},
		{[]string{"-b", "32"}, 1500 * 4},
		{[]string{"--upmix"}, 1500 * 2 * 2},
		{[]string{"--bits", "24", "--upmix"}, 1500 * 2 * 3},
	}
	for _, tt := range tests {
		run(t, append(append([]string{"decode"}, tt.args...), stream)...)
		info, err := os.Stat(stream + ".raw")
		require.NoError(t, err)
		assert.Equal(t, int64(tt.bytes), info.Size(), "%v", tt.args)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"decode", "--bits", "20", stream})
	assert.Error(t, cmd.Execute())
}

func TestEncode_BadFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "x.raw")
	writeTone(t, in, 1, 100)

	for _, args := range [][]string{
		{"encode", "--block-sizes", "256", in},
		{"encode", "--block-sizes", "2048,256", in},
		{"encode", "-c", "1", "--blocks", "sideways", in},
		{"encode", "-c", "1", filepath.Join(dir, "missing.raw")},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "%v", args)
	}
}

func TestBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.bin")
	out := run(t, "book", "--dim", "2", "--levels", "3", "-o", path)
	assert.Contains(t, out, "entries 9, dim 2")
	assert.Contains(t, out, " 3-bit codewords: 7")
	assert.Contains(t, out, " 4-bit codewords: 2")
	assert.FileExists(t, path)
}
