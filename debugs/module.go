package debugs

import (
	"github.com/glomdom/zyde/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
