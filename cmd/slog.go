package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func init() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			panic(fmt.Sprintf("invalid log level: %s", raw))
		}
	}

	if level != slog.LevelDebug {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return
	}

	root := moduleRoot()
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
		AddSource:  true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if src, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
				src.File = trimSource(src.File, root)
			}
			if err, ok := a.Value.Any().(error); ok {
				colored := tint.Err(err)
				colored.Key = a.Key
				return colored
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
	slog.Debug("debug logging enabled")
}

// moduleRoot returns "/<last module path element>/", e.g. "/electryohype/".
func moduleRoot() string {
	path := "github.com/bookbright/electryohype"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		path = info.Main.Path
	}
	return "/" + path[strings.LastIndex(path, "/")+1:] + "/"
}

func trimSource(file, root string) string {
	if _, rel, ok := strings.Cut(file, root); ok {
		return rel
	}
	if i := strings.LastIndex(file, "/src/"); i != -1 {
		return file[i+len("/src/"):]
	}
	return file
}
