package sheetdb

import (
	"fmt"
	"strings"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatXLSX represents an Excel workbook, one sheet per table
	OutputFormatXLSX OutputFormat = iota
	// OutputFormatCSV represents CSV output format, one file per table
	OutputFormatCSV
	// OutputFormatTSV represents TSV output format, one file per table
	OutputFormatTSV
	// OutputFormatParquet represents Parquet output format, one file per table
	OutputFormatParquet
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatXLSX:
		return "xlsx"
	case OutputFormatCSV:
		return "csv"
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatParquet:
		return "parquet"
	default:
		return "xlsx"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	return "." + f.String()
}

// singleFile reports whether the format stores the whole workbook in one file
func (f OutputFormat) singleFile() bool {
	return f == OutputFormatXLSX
}

// ParseOutputFormat converts a name such as "csv" into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "xlsx", "excel":
		return OutputFormatXLSX, nil
	case "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	case "parquet":
		return OutputFormatParquet, nil
	default:
		return OutputFormatXLSX, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ParseCompression converts a name such as "gz" or "zstd" into a CompressionType.
// bzip2 is rejected because it can only be read.
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGZ, nil
	case "xz":
		return CompressionXZ, nil
	case "zst", "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, s)
	}
}

// DumpOptions configures how a workbook is written to files.
//
// Example:
//
//	options := NewDumpOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := Dump(workbook, "./output", options)
type DumpOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
}

// NewDumpOptions creates default options (XLSX, no compression).
func NewDumpOptions() DumpOptions {
	return DumpOptions{
		Format:      OutputFormatXLSX,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
//
// Options:
//   - OutputFormatXLSX: Excel workbook written to a single file
//   - OutputFormatCSV: Comma-separated values, one file per table
//   - OutputFormatTSV: Tab-separated values, one file per table
//   - OutputFormatParquet: Apache Parquet, one file per table
func (o DumpOptions) WithFormat(format OutputFormat) DumpOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to output files.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
func (o DumpOptions) WithCompression(compression CompressionType) DumpOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o DumpOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}
