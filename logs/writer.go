package logs

import (
	"io"
	"os"
)

// Writer receives terminal log output. Program output goes to stdout, so
// logs default to stderr.
type Writer io.Writer

func (Module) Writer() Writer {
	return os.Stderr
}
