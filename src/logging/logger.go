// Package logging wraps zap behind a package-global logger with an
// atomically adjustable level, so loaders can report skipped records without
// threading a logger through every call.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level = zap.NewAtomicLevel()

	// L is the global logger. It defaults to a no-op logger so library code
	// (and tests) stay quiet until Init is called from main.
	L = zap.NewNop()
)

// Init builds the global logger at the given level. Call once from main.
func Init(levelName string) {
	SetLevel(levelName)
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	L = log
}

// SetLevel parses and applies a level name. Unknown names keep the current
// level rather than erroring.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "info":
		level.SetLevel(zap.InfoLevel)
	case "warn", "warning":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	}
}
