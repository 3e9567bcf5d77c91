package main

import (
	"io"
	"os"

	"github.com/glomdom/zyde/configs"
	"github.com/glomdom/zyde/debugs"
	"github.com/glomdom/zyde/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Debugs  debugs.Module
	Logs    logs.Module
}

// Stdout receives PRINT output and listings.
type Stdout io.Writer

func (Module) Stdout() Stdout {
	return os.Stdout
}
