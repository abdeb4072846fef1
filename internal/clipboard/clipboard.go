// Package clipboard copies text to the system clipboard. When no native
// clipboard is reachable, as over SSH, it falls back to an OSC 52 escape
// sequence that asks the terminal to set the clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when neither route is usable.
var ErrUnavailable = errors.New("no clipboard available")

// Clipboard writes through the native clipboard, then the terminal.
type Clipboard struct {
	native      func(string) error
	unsupported bool
	terminal    io.Writer // nil disables the OSC 52 fallback
	tmux        bool
}

// New returns a clipboard for the running platform that falls back to
// writing OSC 52 to stderr.
func New() *Clipboard {
	return &Clipboard{
		native:      clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
		terminal:    os.Stderr,
		tmux:        os.Getenv("TMUX") != "",
	}
}

// Available reports whether a copy can be attempted.
func (c *Clipboard) Available() bool {
	return !c.unsupported || c.terminal != nil
}

// Write copies text to the clipboard.
func (c *Clipboard) Write(text string) error {
	var nativeErr error
	if !c.unsupported {
		if nativeErr = c.native(text); nativeErr == nil {
			return nil
		}
	}
	if c.terminal == nil {
		if nativeErr != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, nativeErr)
		}
		return ErrUnavailable
	}

	seq := osc52.New(text)
	if c.tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(c.terminal); err != nil {
		return fmt.Errorf("writing OSC 52: %w", err)
	}
	return nil
}
