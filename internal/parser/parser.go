// internal/parser/parser.go
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"apptrack-backend/internal/common/errors"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// MaxFileSize caps resume uploads at 5 MiB.
const MaxFileSize = 5 << 20

// ExtractText pulls plain text out of an uploaded resume. PDF and DOCX
// are the only supported formats.
func ExtractText(filename string, data []byte) (string, error) {
	if int64(len(data)) > MaxFileSize {
		return "", errors.NewFileTooLargeError(int64(len(data)), MaxFileSize)
	}

	var text string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		return "", errors.NewUnsupportedFileError(filepath.Ext(filename))
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.NewTextExtractionEmptyError(filename)
	}
	return text, nil
}

// Hash returns the hex SHA-256 of the raw upload, used for deduplication.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewTextExtractionEmptyError(fmt.Sprintf("pdf parse failed: %v", err))
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewTextExtractionEmptyError(fmt.Sprintf("pdf text extraction failed: %v", err))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", errors.NewTextExtractionEmptyError(fmt.Sprintf("pdf read failed: %v", err))
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewTextExtractionEmptyError(fmt.Sprintf("docx parse failed: %v", err))
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			sb.WriteString(fmt.Sprintf("%v", item))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
