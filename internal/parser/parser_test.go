package parser

import (
	"bytes"
	"testing"

	"apptrack-backend/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_UnsupportedExtension(t *testing.T) {
	_, err := ExtractText("resume.txt", []byte("plain text resume"))
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedFile, stdErr.Code)
}

func TestExtractText_FileTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte("a"), MaxFileSize+1)
	_, err := ExtractText("resume.pdf", big)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileTooLarge, stdErr.Code)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText("resume.pdf", []byte("definitely not a pdf"))
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTextExtractionNil, stdErr.Code)
}

func TestExtractText_CorruptDOCX(t *testing.T) {
	_, err := ExtractText("resume.docx", []byte("not a zip archive"))
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTextExtractionNil, stdErr.Code)
}

func TestHash_DeterministicAndDistinct(t *testing.T) {
	a := Hash([]byte("resume content"))
	b := Hash([]byte("resume content"))
	c := Hash([]byte("other content"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "hex-encoded sha256")
}
