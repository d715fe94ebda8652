package sheetdb

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/nao1215/sheetdb/domain/model"
	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression wrapped around a source or sink file
type CompressionType = model.Compression

// Compression types
const (
	// CompressionNone represents no compression
	CompressionNone = model.CompressionNone
	// CompressionGZ represents gzip compression
	CompressionGZ = model.CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only)
	CompressionBZ2 = model.CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ = model.CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD = model.CompressionZSTD
)

// errWriteUnsupported is returned for compressions that can only be read
var errWriteUnsupported = errors.New("compression is not supported for writing")

// codec decodes and encodes one compression format.
// A nil encode means the format is read only.
type codec struct {
	decode func(io.Reader) (io.ReadCloser, error)
	encode func(io.Writer) (io.WriteCloser, error)
}

// codecs holds every compression the sources and sinks understand
var codecs = map[CompressionType]codec{
	CompressionNone: {
		decode: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil },
		encode: func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
	},
	CompressionGZ: {
		decode: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
		encode: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
	},
	CompressionBZ2: {
		decode: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(bzip2.NewReader(r)), nil },
	},
	CompressionXZ: {
		decode: func(r io.Reader) (io.ReadCloser, error) {
			xzReader, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xzReader), nil
		},
		encode: func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) },
	},
	CompressionZSTD: {
		decode: func(r io.Reader) (io.ReadCloser, error) {
			decoder, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return decoder.IOReadCloser(), nil
		},
		encode: func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) },
	},
}

// nopWriteCloser turns an io.Writer into an io.WriteCloser whose Close does nothing
type nopWriteCloser struct {
	io.Writer
}

// Close implements io.Closer
func (nopWriteCloser) Close() error {
	return nil
}

// lookupCodec returns the codec for compression
func lookupCodec(compression CompressionType) (codec, error) {
	c, ok := codecs[compression]
	if !ok {
		return codec{}, fmt.Errorf("%w: compression %v", ErrUnsupportedFormat, compression)
	}
	return c, nil
}

// decompress wraps r so that reads return the decompressed stream
func decompress(r io.Reader, compression CompressionType) (io.ReadCloser, error) {
	c, err := lookupCodec(compression)
	if err != nil {
		return nil, err
	}
	rc, err := c.decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s reader: %w", compression, err)
	}
	return rc, nil
}

// compress wraps w so that writes are compressed. Close flushes the
// compressed stream but leaves w open.
func compress(w io.Writer, compression CompressionType) (io.WriteCloser, error) {
	c, err := lookupCodec(compression)
	if err != nil {
		return nil, err
	}
	if c.encode == nil {
		return nil, fmt.Errorf("%s: %w", compression, errWriteUnsupported)
	}
	wc, err := c.encode(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", compression, err)
	}
	return wc, nil
}

// layeredReader reads from a decompressor and closes it before the file beneath it
type layeredReader struct {
	io.ReadCloser
	file *os.File
}

// Close implements io.Closer
func (l *layeredReader) Close() error {
	return errors.Join(l.ReadCloser.Close(), l.file.Close())
}

// layeredWriter writes through a compressor; Close flushes it, then syncs and closes the file
type layeredWriter struct {
	io.WriteCloser
	file *os.File
}

// Close implements io.Closer
func (l *layeredWriter) Close() error {
	if err := l.WriteCloser.Close(); err != nil {
		return errors.Join(err, l.file.Close())
	}
	if err := l.file.Sync(); err != nil {
		return errors.Join(err, l.file.Close())
	}
	return l.file.Close()
}

// openDecompressed opens path and decompresses it according to its extension
func openDecompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	rc, err := decompress(file, model.NewFile(path).Compression())
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &layeredReader{ReadCloser: rc, file: file}, nil
}

// createCompressed creates path and compresses everything written to it
func createCompressed(path string, compression CompressionType) (io.WriteCloser, error) {
	file, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	wc, err := compress(file, compression)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return &layeredWriter{WriteCloser: wc, file: file}, nil
}

// readAllDecompressed reads a whole, possibly compressed, file into memory.
// XLSX and Parquet need random access, so they are buffered entirely.
func readAllDecompressed(path string) ([]byte, error) {
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close() // Ignore close error after a complete read
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
