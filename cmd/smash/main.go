// cmd/smash/main.go
package main

import (
	"fmt"
	"os"

	"github.com/smash-editor/smash/internal/app"
	"github.com/smash-editor/smash/internal/config"
	"github.com/smash-editor/smash/internal/logger"
)

func main() {
	var filePath string
	args := os.Args[1:]
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "usage: smash [<file>]")
		os.Exit(1)
	}
	if len(args) == 1 {
		filePath = args[0]
	}

	projectDir, err := os.Getwd()
	if err != nil {
		projectDir = ""
	}
	cfg, err := config.Load(projectDir)
	if err != nil {
		// Broken config falls back to defaults; the editor still runs.
		fmt.Fprintf(os.Stderr, "smash: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(os.Stderr, "smash: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Infof("starting smash")
	editor, err := app.New(filePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smash: %v\n", err)
		os.Exit(1)
	}
	if err := editor.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "smash: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("smash finished")
}
