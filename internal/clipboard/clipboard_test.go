package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNative(t *testing.T) {
	var got string
	var term bytes.Buffer
	c := &Clipboard{
		native:   func(s string) error { got = s; return nil },
		terminal: &term,
	}
	require.NoError(t, c.Write("善相近"))
	assert.Equal(t, "善相近", got)
	assert.Zero(t, term.Len(), "no escape sequence when the native copy works")
}

func TestWriteFallsBackToTerminal(t *testing.T) {
	var term bytes.Buffer
	c := &Clipboard{
		native:   func(string) error { return errors.New("xclip missing") },
		terminal: &term,
	}
	require.NoError(t, c.Write("善"))
	assert.Contains(t, term.String(), base64.StdEncoding.EncodeToString([]byte("善")))
	assert.Contains(t, term.String(), "\x1b]52;")
}

func TestWriteUnsupported(t *testing.T) {
	called := false
	c := &Clipboard{
		native:      func(string) error { called = true; return nil },
		unsupported: true,
	}
	assert.False(t, c.Available())
	assert.ErrorIs(t, c.Write("善"), ErrUnavailable)
	assert.False(t, called)

	c.unsupported = false
	c.native = func(string) error { return errors.New("boom") }
	err := c.Write("善")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "boom")
}
