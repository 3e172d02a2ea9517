// Package logging sets up structured logging in a uniform way across
// arpshieldd's components.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Levels is the closed set of accepted log-level strings, surfaced in
// flag/config usage text.
type Levels []string

func (l Levels) String() string {
	return strings.Join(l, ", ")
}

// allLevels are the supported values for the log.level config field.
var allLevels = Levels{"all", "debug", "info", "warn", "error", "none"}

// Init returns a logger configured with level filtering, timestamping and
// source caller information, formatted as either logfmt or JSON.
func Init(levelStr, format string) (log.Logger, error) {
	var l log.Logger
	switch format {
	case "", "logfmt":
		l = log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	case "json":
		l = log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	l = log.With(l, "ts", log.TimestampFormat(time.Now, time.RFC3339Nano), "caller", log.DefaultCaller)

	filter, err := levelFilter(levelStr)
	if err != nil {
		return nil, err
	}
	return level.NewFilter(l, filter), nil
}

func levelFilter(levelStr string) (level.Option, error) {
	switch strings.ToLower(levelStr) {
	case "all", "debug":
		return level.AllowAll(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	default:
		return nil, fmt.Errorf("logging: unknown level %q, must be one of: %s", levelStr, allLevels)
	}
}

// AllowedLevels exposes the valid level strings for usage text.
func AllowedLevels() Levels { return allLevels }
