package main

import (
	"log/slog"
	"os"

	"wordparty.exe.dev/config"
	"wordparty.exe.dev/srv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Environment)

	server, err := srv.New(cfg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	if err := server.Serve(cfg.Addr()); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default slog handler: human-readable debug
// output in dev, JSON at info level in prod.
func setupLogger(env config.Environment) {
	var handler slog.Handler
	if env == config.Prod {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
