package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the extraction strategy selected for a file.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatDOCX
	FormatCSV
	FormatXLSX
	FormatPPTX
)

// Formats lists every format, including the fallback.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatCSV, FormatXLSX, FormatPPTX, FormatUnknown}
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatPPTX:
		return "pptx"
	default:
		return "unknown"
	}
}

// FormatFromPath maps a file extension, case-insensitively, to a Format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	case ".pptx":
		return FormatPPTX
	default:
		return FormatUnknown
	}
}

// ChunkExtractor reads a file and returns its text as ordered chunks.
type ChunkExtractor interface {
	ExtractChunks(path string) ([]string, error)
}

// ChunkExtractorFunc adapts a function to ChunkExtractor.
type ChunkExtractorFunc func(path string) ([]string, error)

func (f ChunkExtractorFunc) ExtractChunks(path string) ([]string, error) {
	return f(path)
}

type ExtractorService interface {
	Extract(path string) (string, error)
}

type extractorService struct {
	strategies map[Format]ChunkExtractor
}

// DefaultStrategies returns the built-in strategy for every Format.
func DefaultStrategies() map[Format]ChunkExtractor {
	return map[Format]ChunkExtractor{
		FormatPDF:     NewPDFParserService(),
		FormatDOCX:    ChunkExtractorFunc(extractDOCX),
		FormatCSV:     ChunkExtractorFunc(extractCSV),
		FormatXLSX:    ChunkExtractorFunc(extractXLSX),
		FormatPPTX:    ChunkExtractorFunc(extractPPTX),
		FormatUnknown: ChunkExtractorFunc(extractPlainText),
	}
}

// NewExtractorService builds an extractor over strategies. Formats missing
// from strategies, or mapped to nil, are served by the default strategy.
func NewExtractorService(strategies map[Format]ChunkExtractor) ExtractorService {
	merged := DefaultStrategies()
	for format, strategy := range strategies {
		if isNilStrategy(strategy) {
			continue
		}
		merged[format] = strategy
	}
	return &extractorService{strategies: merged}
}

func (e *extractorService) Extract(path string) (string, error) {
	format := FormatFromPath(path)

	chunks, err := e.strategies[format].ExtractChunks(path)
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) {
			return "", extErr
		}
		return "", &ExtractionError{
			Filename: filepath.Base(path),
			Err:      fmt.Errorf("%s: %w", format, err),
		}
	}

	return strings.Join(chunks, "\n"), nil
}

func isNilStrategy(strategy ChunkExtractor) bool {
	if strategy == nil {
		return true
	}
	fn, ok := strategy.(ChunkExtractorFunc)
	return ok && fn == nil
}
