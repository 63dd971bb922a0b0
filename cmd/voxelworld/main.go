package main

import (
	"flag"
	"fmt"
	"log/slog"
	"mini-voxel/internal/config"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := glfw.Init(); err != nil {
		logger.Error("glfw init failed", "err", err)
		os.Exit(1)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		glfw.Terminate()
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	// A signal asks the loop to stop and waits until GL resources are released
	closer.Bind(a.requestStop)

	a.run()
	a.shutdown()
	closer.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, cfg.Validate()
	}
	return config.Load(path)
}
