package logs

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/glomdom/zyde/cmds"
	"github.com/glomdom/zyde/modes"
	"github.com/glomdom/zyde/vars"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// DebugEnv turns on debug logging when set to a true value.
const DebugEnv = "ZYDE_DEBUG"

var (
	level    = new(slog.LevelVar)
	levelSet bool
)

func setLevel(l slog.Level) func() {
	return func() {
		level.Set(l)
		levelSet = true
	}
}

func init() {
	cmds.Define("-log-debug", cmds.Func(setLevel(slog.LevelDebug)).
		Desc("set log level to debug, tracing every executed instruction"))
	cmds.Define("-log-info", cmds.Func(setLevel(slog.LevelInfo)).
		Desc("set log level to info"))
	cmds.Define("-log-warn", cmds.Func(setLevel(slog.LevelWarn)).
		Desc("set log level to warn"))
	cmds.Define("-log-error", cmds.Func(setLevel(slog.LevelError)).
		Desc("set log level to error"))
}

type Logger = *slog.Logger

// Logger writes text records to Writer unless running as a systemd
// service, and to the journal when one is reachable. Without an explicit
// level flag, development mode or DebugEnv selects debug and production
// selects warn.
func (Module) Logger(
	writer Writer,
	mode modes.Mode,
) Logger {
	if !levelSet {
		switch {
		case mode.IsDevelopment(), vars.StrToBool(os.Getenv(DebugEnv)):
			level.Set(slog.LevelDebug)
		default:
			level.Set(slog.LevelWarn)
		}
	}

	var handlers []slog.Handler

	var terminalHandler slog.Handler
	if !underSystemdService() {
		terminalHandler = slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, terminalHandler)
	}

	journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
		Level: level,
		ReplaceGroup: func(key string) string {
			return toJournalKey(key)
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = toJournalKey(a.Key)
			return a
		},
	})
	if err != nil {
		// no journal socket, common outside systemd hosts
		if terminalHandler != nil {
			record := slog.NewRecord(time.Now(), slog.LevelDebug, "systemd journal unavailable", 0)
			record.AddAttrs(slog.Any("error", err))
			if terminalHandler.Enabled(context.Background(), slog.LevelDebug) {
				_ = terminalHandler.Handle(context.Background(), record)
			}
		}
	} else {
		handlers = append(handlers, journalHandler)
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})
}

// toJournalKey maps an attribute key to the journal field alphabet.
func toJournalKey(str string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(str))
}

func underSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
