// Package docparse turns uploaded files into plain text for chunking.
// Plain text passes through as-is; markdown is parsed to an AST and
// flattened so headings, lists and tables survive as readable lines.
package docparse

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docintel/internal/service"
)

var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Parser validates and extracts text from uploaded documents.
type Parser struct {
	maxFileSize int64
}

// NewParser creates a parser that rejects files larger than maxFileSize bytes.
func NewParser(maxFileSize int64) *Parser {
	return &Parser{maxFileSize: maxFileSize}
}

// SupportedExtension reports whether the filename's extension is parseable.
func SupportedExtension(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Parse extracts the text of a document. The filename selects the format by
// extension; data is the raw file content.
func (p *Parser) Parse(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q, only .txt and .md are accepted: %w", ext, service.ErrInvalidInput)
	}
	if p.maxFileSize > 0 && int64(len(data)) > p.maxFileSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes: %w", p.maxFileSize, service.ErrInvalidInput)
	}
	if !utf8.Valid(data) {
		return "", service.WrapError(service.ErrInvalidInput, "file is not valid UTF-8 text")
	}

	var text string
	switch ext {
	case ".md":
		text = extractMarkdownText(data)
	default:
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", service.WrapError(service.ErrInvalidInput, "document contains no text")
	}
	return text, nil
}
