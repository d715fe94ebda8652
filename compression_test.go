package sheetdb

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, compression := range []CompressionType{CompressionNone, CompressionGZ, CompressionXZ, CompressionZSTD} {
		compression := compression
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			data := []byte("name,age\nAna,30\n")
			var buf bytes.Buffer

			wc, err := compress(&buf, compression)
			require.NoError(t, err)
			_, err = wc.Write(data)
			require.NoError(t, err)
			require.NoError(t, wc.Close())

			rc, err := decompress(&buf, compression)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompress_Bzip2IsReadOnly(t *testing.T) {
	t.Parallel()

	_, err := compress(&bytes.Buffer{}, CompressionBZ2)
	require.Error(t, err)
	assert.ErrorIs(t, err, errWriteUnsupported)

	rc, err := decompress(bytes.NewReader(nil), CompressionBZ2)
	require.NoError(t, err)
	assert.NoError(t, rc.Close())
}

func TestCompress_UnknownCompression(t *testing.T) {
	t.Parallel()

	_, err := compress(&bytes.Buffer{}, CompressionType(99))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = decompress(bytes.NewReader(nil), CompressionType(99))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecompress_InvalidData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		compression CompressionType
		data        []byte
	}{
		{name: "gzip", compression: CompressionGZ, data: []byte("not gzip data")},
		{name: "xz", compression: CompressionXZ, data: []byte("not xz data")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decompress(bytes.NewReader(tt.data), tt.compression)
			assert.Error(t, err)
		})
	}
}

func TestCompressedFiles_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, compression := range []CompressionType{CompressionNone, CompressionGZ, CompressionXZ, CompressionZSTD} {
		compression := compression
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			data := []byte("This is test data for compression testing.\nLine 2\nLine 3")
			path := filepath.Join(dir, "test.csv"+compression.Extension())

			wc, err := createCompressed(path, compression)
			require.NoError(t, err)
			_, err = wc.Write(data)
			require.NoError(t, err)
			require.NoError(t, wc.Close())

			got, err := readAllDecompressed(path)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompressedFiles_Errors(t *testing.T) {
	t.Parallel()

	_, err := openDecompressed("/non/existent/file.csv")
	assert.Error(t, err)

	_, err = createCompressed("/invalid\x00path/file.csv", CompressionNone)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "file.csv.bz2")
	_, err = createCompressed(path, CompressionBZ2)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a file that cannot be written is removed")
}

func TestCompressionType_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compression CompressionType
		name        string
		extension   string
	}{
		{CompressionNone, "none", ""},
		{CompressionGZ, "gz", ".gz"},
		{CompressionBZ2, "bz2", ".bz2"},
		{CompressionXZ, "xz", ".xz"},
		{CompressionZSTD, "zstd", ".zst"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.compression.String())
			assert.Equal(t, tt.extension, tt.compression.Extension())
		})
	}
}
