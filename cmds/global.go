package cmds

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// GlobalExecutor collects commands defined at package init time.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// Execute runs args against GlobalExecutor and exits with status 2 after
// printing usage on error.
func Execute(args []string) {
	if err := GlobalExecutor.Execute(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		GlobalExecutor.PrintUsage()
		atexit.Exit(2)
	}
}
