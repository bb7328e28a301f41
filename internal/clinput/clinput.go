// Package clinput contains the two ways the CLI reads lines of text to
// transliterate: directly off of any io.Reader, or interactively off of a
// TTY via GNU readline, with history and line editing.
package clinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader reads one line of text at a time, blocking until a non-blank line
// is available unless AllowBlank(true) has been called.
type Reader interface {
	ReadLine() (string, error)
	AllowBlank(allow bool)
	Close() error
}

// DirectReader implements Reader over any io.Reader, with no line editing
// or history. Use this for piped/non-TTY input.
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// NewDirectReader wraps r in a buffered line reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// ReadLine reads the next non-blank line, or the error from the underlying
// reader (io.EOF at end of input).
func (d *DirectReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = d.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && d.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether a blank line is returned as-is instead of being
// skipped. Off by default.
func (d *DirectReader) AllowBlank(allow bool) { d.blanksAllowed = allow }

// Close is a no-op; DirectReader owns no resources of its own.
func (d *DirectReader) Close() error { return nil }

// InteractiveReader implements Reader via GNU readline, giving history and
// line editing when attached to a real TTY.
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewInteractiveReader starts a readline instance with the given prompt.
// Close must be called to release its terminal resources.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl, prompt: prompt}, nil
}

// ReadLine reads the next non-blank line from the terminal.
func (r *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = r.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && r.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether a blank line is returned as-is instead of being
// skipped. Off by default.
func (r *InteractiveReader) AllowBlank(allow bool) { r.blanksAllowed = allow }

// SetPrompt updates the prompt shown before the next read.
func (r *InteractiveReader) SetPrompt(p string) {
	r.prompt = p
	r.rl.SetPrompt(p)
}

// Close releases the underlying readline terminal state.
func (r *InteractiveReader) Close() error { return r.rl.Close() }
