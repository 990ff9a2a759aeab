/*
Package main is the entry point for the medibot command line client.

It is responsible for loading configuration (.env file, then environment variables),
initializing the global logging system, wiring interrupt signals (SIGINT, SIGTERM)
into the command context, and handing control to the command tree.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"medibot/internal/configs"
	"medibot/internal/handler"
	"medibot/internal/pkg/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := configs.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load .env file: %v\n", err)
		return 1
	}

	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}

	// The terminal belongs to the chat, so logs go to a file.
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Logging to stderr, cannot open %s: %v\n", cfg.LogFile, err)
		logx.InitGlobalLogger(cfg.IsDevelopment(), os.Stderr)
		logx.SetLevel("warn")
	} else {
		defer logFile.Close()
		logx.InitGlobalLogger(cfg.IsDevelopment(), logFile)
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := handler.NewRootCommand(cfg, os.Stdin, os.Stdout)
	return handler.Execute(ctx, root, os.Stderr)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
