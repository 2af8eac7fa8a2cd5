// Package main is the entry point for the playground server. It reads the
// configuration, builds the logger and the runner, and hands everything
// to internal/server.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/python-playground/internal/config"
	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/executor/docker"
	"github.com/sakif/python-playground/internal/executor/process"
	"github.com/sakif/python-playground/internal/server"
)

func main() {
	// PLAYGROUND_CONFIG names an explicit YAML file; otherwise
	// playground.yaml is looked up in . and /etc/playground.
	cfg, err := config.Load(os.Getenv("PLAYGROUND_CONFIG"))
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	runner, closeRunner := newRunner(cfg, logger)
	defer closeRunner()

	srv, err := server.New(server.Config{
		Addr:        cfg.Addr(),
		TemplateDir: cfg.TemplateDir,
		StaticDir:   cfg.StaticDir,
		DBPath:      cfg.DBPath,
		RateLimit:   cfg.RateLimit(),
		Input:       cfg.InputDefaults(),
	}, logger, runner)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		closeRunner()
		os.Exit(1)
	}
}

// newRunner builds the configured runner. When the Docker backend cannot
// be reached the server still starts with the local process runner.
func newRunner(cfg *config.Config, logger *slog.Logger) (executor.Runner, func()) {
	processRunner := func() (executor.Runner, func()) {
		pcfg := process.DefaultConfig()
		pcfg.PythonBin = cfg.PythonBin
		logger.Info("using process runner", slog.String("python", pcfg.PythonBin))
		return process.New(pcfg, logger), func() {}
	}

	if cfg.Executor != config.ExecutorDocker {
		return processRunner()
	}

	dcfg := docker.DefaultConfig()
	dcfg.Image = cfg.DockerImage
	exec, err := docker.New(dcfg, logger)
	if err != nil {
		logger.Warn("docker runner unavailable, falling back to process runner",
			slog.String("error", err.Error()),
		)
		return processRunner()
	}

	logger.Info("using docker runner", slog.String("image", dcfg.Image))
	return exec, func() {
		if err := exec.Close(); err != nil {
			logger.Error("failed to close docker runner", slog.String("error", err.Error()))
		}
	}
}
