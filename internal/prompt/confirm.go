package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Confirmer asks yes/no questions on a terminal. A single goroutine reads
// the input for the Confirmer's lifetime, so a question abandoned on cancel
// never leaves a second reader behind; a line typed after the cancel answers
// the next question.
type Confirmer struct {
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	interactive bool

	startReader sync.Once
	lines       chan string
	readErr     error
}

// Option customizes a Confirmer.
type Option func(*Confirmer)

// WithAssumeYes answers every question with yes without reading input.
func WithAssumeYes(yes bool) Option {
	return func(c *Confirmer) { c.assumeYes = yes }
}

// WithInteractive overrides terminal detection on the input.
func WithInteractive(interactive bool) Option {
	return func(c *Confirmer) { c.interactive = interactive }
}

// New builds a Confirmer reading answers from in and writing questions to out.
// Input that is not a terminal is treated as non-interactive and every
// question is declined.
func New(in io.Reader, out io.Writer, opts ...Option) *Confirmer {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	c := &Confirmer{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: IsTerminal(in),
		lines:       make(chan string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether r is a file attached to a terminal.
func IsTerminal(r any) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm prints question followed by a [y/N] hint and waits for an answer.
// Only "y" and "yes" (any case) count as yes; an empty line, EOF or any other
// answer is no.
func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	if c.assumeYes {
		fmt.Fprintln(c.out, "y")
		return true, nil
	}
	if !c.interactive {
		fmt.Fprintln(c.out, "n (non-interactive)")
		return false, nil
	}

	c.startReader.Do(func() { go c.readLines() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return false, ctx.Err()
	case line, ok := <-c.lines:
		if ok {
			return isYes(line), nil
		}
		if c.readErr != nil && !errors.Is(c.readErr, io.EOF) {
			return false, fmt.Errorf("read answer: %w", c.readErr)
		}
		fmt.Fprintln(c.out)
		return false, nil
	}
}

// readLines feeds input lines to Confirm until the input fails, then records
// the error and closes the channel.
func (c *Confirmer) readLines() {
	for {
		line, err := c.in.ReadString('\n')
		if line != "" {
			c.lines <- line
		}
		if err != nil {
			c.readErr = err
			close(c.lines)
			return
		}
	}
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
