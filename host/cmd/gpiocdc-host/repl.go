package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"gpiocdc/core"
)

// board is the part of the client the command loop uses
type board interface {
	Exec(seq string) ([]byte, error)
	Help() (string, error)
	Select(sel byte) error
	High() error
	Low() error
	Pulse(op byte) error
}

// repl reads commands from in until quit, EOF or ctx is done
func repl(ctx context.Context, b board, layout core.Layout, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "gpiocdc host - %s layout\n", layout.Name)
	fmt.Fprintln(out, "Enter commands (type 'help' for available commands, 'quit' to exit):")

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if args[0] == "quit" || args[0] == "exit" || args[0] == "q" {
			return nil
		}
		if err := runCommand(b, layout, args, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

func runCommand(b board, layout core.Layout, args []string, out io.Writer) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		printHelp(out)

	case "?", "board":
		text, err := b.Help()
		if err != nil {
			return err
		}
		fmt.Fprint(out, strings.ReplaceAll(text, "\r\n", "\n"))

	case "pins":
		for _, sel := range layout.Pins.Selectors() {
			pin, _ := layout.Pins.Lookup(sel)
			fmt.Fprintf(out, "  %c  %-5s %s\n", sel, layout.Pins.Label(sel), pin)
		}

	case "send":
		if len(args) == 0 {
			return fmt.Errorf("usage: send <chars>...")
		}
		echoes, err := b.Exec(strings.Join(args, ""))
		fmt.Fprintf(out, "echo: %q\n", echoes)
		return err

	case "sel":
		sel, err := oneChar(args)
		if err != nil {
			return err
		}
		if _, ok := layout.Pins.Lookup(sel); !ok {
			return fmt.Errorf("%q is not a pin selector of %s", sel, layout.Name)
		}
		return b.Select(sel)

	case "high":
		return b.High()

	case "low":
		return b.Low()

	case "pulse":
		op, err := oneChar(args)
		if err != nil {
			return err
		}
		return b.Pulse(op)

	default:
		return fmt.Errorf("unknown command %q (type 'help' for available commands)", cmd)
	}
	return nil
}

func oneChar(args []string) (byte, error) {
	if len(args) != 1 || len(args[0]) != 1 {
		return 0, fmt.Errorf("expected a single character")
	}
	return args[0][0], nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "\nAvailable commands:")
	fmt.Fprintln(out, "  help           - Show this help message")
	fmt.Fprintln(out, "  ? | board      - Print the board's own help text")
	fmt.Fprintln(out, "  pins           - List the layout's pin selectors")
	fmt.Fprintln(out, "  send <chars>   - Send raw command characters")
	fmt.Fprintln(out, "  sel <c>        - Select the pin with selector c")
	fmt.Fprintln(out, "  high | low     - Drive the selected pin")
	fmt.Fprintln(out, "  pulse <t|T|u|U> - Pulse the selected pin")
	fmt.Fprintln(out, "  quit/exit/q    - Exit the program")
	fmt.Fprintln(out)
}
