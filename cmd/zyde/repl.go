package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/glomdom/zyde/asm"
	"github.com/samber/lo"
)

const replHelp = `enter stack IR one line at a time; commands:
  .run    assemble and run everything entered so far
  .list   show the assembled program
  .undo   drop the last line
  .reset  drop all lines
  .help   show this help`

// replState holds the lines of a program being typed in. Each .run starts
// a fresh machine.
type replState[T any] struct {
	s     *session[T]
	lines []string
}

func (r *replState[T]) handle(ctx context.Context, line string, out io.Writer) error {
	line = strings.TrimSpace(line)
	switch line {

	case "":
		return nil

	case ".help":
		fmt.Fprintln(out, replHelp)

	case ".reset":
		r.lines = r.lines[:0]

	case ".undo":
		if len(r.lines) > 0 {
			r.lines = r.lines[:len(r.lines)-1]
		}

	case ".list":
		prog, err := asm.Assemble("<repl>", r.source(), r.s.arith)
		if err != nil {
			return err
		}
		writeStackListing(out, prog.Listing(r.s.arith))

	case ".run":
		prog, err := asm.Assemble("<repl>", r.source(), r.s.arith)
		if err != nil {
			return err
		}
		vm := r.s.stackVM(prog)
		vm.Out = out
		runErr := vm.Run()
		fmt.Fprintf(out, "stack: [%s]\n", strings.Join(lo.Map(vm.Stack, r.s.format), " "))
		if runErr != nil {
			return fmt.Errorf("%w\n%s", runErr, vm.CallStackString())
		}

	default:
		if strings.HasPrefix(line, ".") {
			return fmt.Errorf("unknown command %s, try .help", line)
		}
		// reject malformed lines early; control flow balance is only
		// known once the program is run
		if _, err := asm.Parse("<repl>", strings.NewReader(line), r.s.arith); err != nil {
			var lineErr *asm.LineError
			if errors.As(err, &lineErr) {
				return lineErr.Err
			}
			return err
		}
		r.lines = append(r.lines, line)
	}

	return nil
}

func (r *replState[T]) source() io.Reader {
	return strings.NewReader(strings.Join(r.lines, "\n"))
}

func (s *session[T]) REPL(ctx context.Context) error {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".zyde_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "zyde> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return wrap(err)
	}
	defer rl.Close()

	state := &replState[T]{
		s: s,
	}
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			return nil
		}
		if err := state.handle(ctx, line, rl.Stdout()); err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
		rl.SetPrompt(fmt.Sprintf("zyde %d> ", len(state.lines)))
	}
}
