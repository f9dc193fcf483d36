// Package script runs command scripts against a board. A script is lines
// of shell-style tokens: each token is sent as command characters, except
// wait=<duration> which pauses. '#' starts a comment.
//
//	# blink the LED three times
//	n H wait=200ms L wait=200ms
//	n tut
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"
)

const waitPrefix = "wait="

// Step is one token of a script
type Step struct {
	Line int
	Send string        // command characters, empty for a wait
	Wait time.Duration // pause before the next step
}

type Script struct {
	Name  string
	Steps []Step
}

// Runner executes command characters; *client.Client is one
type Runner interface {
	Exec(seq string) ([]byte, error)
}

// ParseError locates a bad token
type ParseError struct {
	Name string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Name, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a script from r; name is used in errors
func Parse(name string, r io.Reader) (*Script, error) {
	s := &Script{Name: name}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		tokens, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, &ParseError{name, line, err}
		}
		for _, tok := range tokens {
			step, err := parseToken(tok)
			if err != nil {
				return nil, &ParseError{name, line, err}
			}
			step.Line = line
			s.Steps = append(s.Steps, step)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseToken(tok string) (Step, error) {
	if !strings.HasPrefix(tok, waitPrefix) {
		return Step{Send: tok}, nil
	}
	d, err := time.ParseDuration(strings.TrimPrefix(tok, waitPrefix))
	if err != nil {
		return Step{}, err
	}
	if d < 0 {
		return Step{}, fmt.Errorf("negative wait %s", d)
	}
	return Step{Wait: d}, nil
}

// ParseFile reads and parses the script at path
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

// Run executes the steps in order. It stops at the first command error or
// when ctx is done.
func (s *Script) Run(ctx context.Context, r Runner) error {
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.Send == "" {
			select {
			case <-time.After(step.Wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if _, err := r.Exec(step.Send); err != nil {
			return fmt.Errorf("%s:%d: %w", s.Name, step.Line, err)
		}
	}
	return nil
}

// RunFile parses and runs the script at path
func RunFile(ctx context.Context, path string, r Runner) error {
	s, err := ParseFile(path)
	if err != nil {
		return err
	}
	return s.Run(ctx, r)
}
