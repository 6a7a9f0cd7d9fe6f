package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gaitbase/cmd/config"
	"gaitbase/internal/infra/node"
)

var (
	logLevelMapping = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

const usage = `usage: gaitbase <command> [flags]

commands:
  serve    run the HTTP API
  report   print the text report of a ROM
  export   write the JSON or msgpack export of a ROM
  backup   write a backup file for every ROM
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	setupLogger(cfg.General.LogLevel)
	slog.Debug("config loaded", "data", cfg)

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(cfg, os.Args[2:])
	case "report":
		err = runReport(cfg, os.Args[2:], os.Stdout)
	case "export":
		err = runExport(cfg, os.Args[2:], os.Stdout)
	case "backup":
		err = runBackup(cfg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogger(level string) {
	baseHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: logLevelMapping[level], ReplaceAttr: slogReplaceAttr})
	handler := baseHandler.WithAttrs([]slog.Attr{slog.String("version", node.Version)})
	slog.SetDefault(slog.New(handler))
}

func slogReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
		return slog.Any(a.Key, source)
	}
	return a
}

func handleWireInjector[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}
