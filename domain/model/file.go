package model

import (
	"path/filepath"
	"strings"
)

// FileType represents supported tabular file types
type FileType int

const (
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported FileType = iota
	// FileTypeCSV represents CSV file type
	FileTypeCSV
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
)

// Compression represents the compression wrapped around a file
type Compression int

const (
	// CompressionNone represents no compression
	CompressionNone Compression = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtXLSX is the Excel file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// compressionExts maps a compression suffix to its Compression
var compressionExts = []struct {
	ext         string
	compression Compression
}{
	{ExtGZ, CompressionGZ},
	{ExtBZ2, CompressionBZ2},
	{ExtXZ, CompressionXZ},
	{ExtZSTD, CompressionZSTD},
}

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// Extension returns the file extension for the file type
func (ft FileType) Extension() string {
	switch ft {
	case FileTypeCSV:
		return ExtCSV
	case FileTypeTSV:
		return ExtTSV
	case FileTypeXLSX:
		return ExtXLSX
	case FileTypeParquet:
		return ExtParquet
	default:
		return ""
	}
}

// String returns the string representation of Compression
func (c Compression) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression
func (c Compression) Extension() string {
	switch c {
	case CompressionGZ:
		return ExtGZ
	case CompressionBZ2:
		return ExtBZ2
	case CompressionXZ:
		return ExtXZ
	case CompressionZSTD:
		return ExtZSTD
	default:
		return ""
	}
}

// File describes a tabular file path: its base type and its compression.
type File struct {
	path        string
	fileType    FileType
	compression Compression
}

// NewFile creates a new File
func NewFile(path string) *File {
	base, compression := splitCompression(path)
	return &File{
		path:        path,
		fileType:    detectFileType(base),
		compression: compression,
	}
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(fileName string) bool {
	return NewFile(fileName).Type() != FileTypeUnsupported
}

// Path returns file path
func (f *File) Path() string {
	return f.path
}

// Type returns file type without compression
func (f *File) Type() FileType {
	return f.fileType
}

// Compression returns the compression of the file
func (f *File) Compression() Compression {
	return f.compression
}

// IsCompressed returns true if file is compressed
func (f *File) IsCompressed() bool {
	return f.compression != CompressionNone
}

// TableName returns the table name derived from the file path
func (f *File) TableName() string {
	return TableFromFilePath(f.path)
}

// splitCompression removes a compression extension from path
func splitCompression(path string) (string, Compression) {
	lower := strings.ToLower(path)
	for _, ce := range compressionExts {
		if strings.HasSuffix(lower, ce.ext) {
			return path[:len(path)-len(ce.ext)], ce.compression
		}
	}
	return path, CompressionNone
}

// detectFileType detects file type from extension
func detectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	case ExtXLSX:
		return FileTypeXLSX
	case ExtParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// TableFromFilePath creates table name from file path
func TableFromFilePath(filePath string) string {
	fileName, _ := splitCompression(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
