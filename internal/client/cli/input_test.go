package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  A-100  \n"))

	text, err := GetSimpleText(r, "Tag number", &out)
	require.NoError(t, err)
	assert.Equal(t, "A-100", text)
	assert.Contains(t, out.String(), "Tag number")
}

func TestGetSimpleTextPartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	text, err := GetSimpleText(r, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", text)
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(r, "Prompt", &out)
	assert.Error(t, err)
}

func TestGetFloat(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("12.5\n"))

	v, err := GetFloat(r, "Weight", &out)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
}

func TestGetFloatRejectsText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("heavy\n"))

	_, err := GetFloat(r, "Weight", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("secret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Contains(t, out.String(), "Enter password")
}
