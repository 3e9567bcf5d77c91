package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/glomdom/zyde/cmds"
	"github.com/glomdom/zyde/logs"
)

//go:embed schema.cue
var Schema string

// FileNames are looked up in the working directory, the user config
// directory and /etc, in that priority order.
var FileNames = []string{
	"zyde.cue",
	".zyde.cue",
}

var configFlag = cmds.Collect[string]("-config")

func init() {
	cmds.Define("-no-config", cmds.Func(func() {
		noDiscovery = true
	}).Desc("do not look for zyde.cue files"))
}

var noDiscovery bool

// Discover lists existing config files under dirs, most specific first.
func Discover(dirs ...string) (paths []string) {
	for _, dir := range dirs {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func searchDirs() (ret []string) {
	if dir, err := os.Getwd(); err == nil {
		ret = append(ret, dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		ret = append(ret, dir)
	}
	ret = append(ret, "/etc")
	return
}

// Loader reads files given by -config first, then discovered ones.
func (Module) Loader(
	logger logs.Logger,
) Loader {
	paths := append([]string(nil), *configFlag...)
	if !noDiscovery {
		paths = append(paths, Discover(searchDirs()...)...)
	}
	if len(paths) > 0 {
		logger.Info("config files", "paths", paths)
	}
	return NewLoader(paths, Schema)
}
