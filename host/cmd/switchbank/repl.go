package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"switchbank/host/mcu"
)

// MetaFunc handles a '!' line split into words
type MetaFunc func(args []string, w io.Writer) error

var errNoMeta = errors.New("meta commands are only available in the simulator")

// repl sends each input line to m and prints the response. Lines
// starting with '!' go to meta instead.
func repl(in io.Reader, out io.Writer, m *mcu.MCU, meta MetaFunc, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "!"):
			runMeta(out, line[1:], meta)
		default:
			send(out, m, line)
		}
	}
	return scanner.Err()
}

func runMeta(out io.Writer, line string, meta MetaFunc) {
	args, err := shlex.Split(line)
	if err == nil && meta == nil {
		err = errNoMeta
	}
	if err == nil {
		err = meta(args, out)
	}
	if err != nil {
		fmt.Fprintf(out, "!%s: %v\n", line, err)
	}
}

func send(out io.Writer, m *mcu.MCU, line string) {
	lines, err := m.SendCommand(line)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}

	var status *mcu.StatusError
	switch {
	case err == nil:
		fmt.Fprintln(out, "ok")
	case errors.As(err, &status):
		fmt.Fprintf(out, "error:%d\n", status.Code)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
