package main

import (
	"context"
	"fmt"
	"os"

	"github.com/glomdom/zyde/cmds"
	"github.com/glomdom/zyde/modes"
	"github.com/reusee/dscope"
	"github.com/tebeka/atexit"
)

var (
	runFile  = cmds.Var[string]("run")
	regFile  = cmds.Var[string]("reg")
	listFile = cmds.Var[string]("list")
	doRepl   = cmds.Switch("repl")
	doTap    = cmds.Switch("-tap")
	doDump   = cmds.Switch("-dump")
	inspects = cmds.Collect[string]("-inspect")
)

func init() {
	cmds.Define("version", cmds.Func(func() {
		fmt.Println("zyde " + version)
		atexit.Exit(0)
	}).Desc("print version"))
}

const version = "0.1.0"

func main() {
	cmds.Execute(os.Args[1:])

	if *runFile == "" && *regFile == "" && *listFile == "" && !*doRepl {
		cmds.GlobalExecutor.PrintUsage()
		atexit.Exit(2)
	}

	var err error
	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		newSession NewSession,
	) {
		ctx := context.Background()
		var s Session
		s, err = newSession()
		if err != nil {
			return
		}
		switch {
		case *doRepl:
			err = s.REPL(ctx)
		case *listFile != "":
			err = s.List(ctx, *listFile)
		case *regFile != "":
			err = s.RunRegisters(ctx, *regFile)
		default:
			err = s.RunStack(ctx, *runFile)
		}
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
