// Package console is a line-driven host for the poser: it reads commands from a stream,
// runs them through the command registry and drives scans between lines.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"animation-poser/internal/commands"
	"animation-poser/internal/logger"
	"animation-poser/internal/session"
)

const prompt = "> "

// Console reads one command per line. Lines may carry the "cmd " prefix used by the viewer's
// input bar, or be bare ("place -at 1,0,2"). "quit" and "exit" end the session.
type Console struct {
	log  *logger.Logger
	reg  *commands.Registry
	sess *session.Session
	out  io.Writer
	// Pause is slept between scan slices so a scan behaves like it does under a frame loop.
	Pause time.Duration
	// Prompt is printed before every line when true.
	Prompt bool
}

// New returns a console that echoes lines into log, runs them through reg and drives sess.
// Errors are written to out.
func New(log *logger.Logger, reg *commands.Registry, sess *session.Session, out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{log: log, reg: reg, sess: sess, out: out}
}

// Run reads lines from in until EOF, a quit command, or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if c.Prompt {
			fmt.Fprint(c.out, prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				err := <-errc
				if err == nil || ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("console: read: %w", err)
			}
			if c.Submit(ctx, line) {
				return nil
			}
		}
	}
}

// Submit runs one line and then drives any scan it started to completion. It reports whether
// the line asked to quit.
func (c *Console) Submit(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	switch line {
	case "quit", "exit":
		return true
	}
	c.log.Log(line)

	args, isCmd := commands.Parse(line)
	if !isCmd {
		args = strings.Fields(line)
	}
	if err := c.reg.Execute(args); err != nil {
		c.log.Log(err.Error())
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	c.drive(ctx)
	return false
}

func (c *Console) drive(ctx context.Context) {
	for c.sess.Update() {
		if ctx.Err() != nil {
			c.sess.CancelScan()
			return
		}
		if c.Pause > 0 {
			time.Sleep(c.Pause)
		}
	}
}
