// Package docker runs snippets inside pre-warmed Docker containers.
//
// Compared to the process runner this adds real confinement: no network,
// read-only root filesystem, memory/CPU/pid limits and an unprivileged
// user. Every container serves exactly one run and is force-removed
// afterwards, which is also how a run that hits the deadline is killed.
package docker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/python-playground/internal/executor"
)

// Executor implements executor.Runner using Docker.
type Executor struct {
	cli    *client.Client
	config Config
	logger *slog.Logger
	pool   *Pool
}

var _ executor.Runner = (*Executor)(nil)

// New connects to the Docker daemon, makes sure the image is present and
// starts filling the container pool.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("ensuring docker image is available", slog.String("image", cfg.Image))
	reader, err := cli.ImagePull(ctx, cfg.Image, image.PullOptions{})
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()
	// Drain to block until the pull is complete.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to read image pull progress: %w", err)
	}
	logger.Info("docker image is ready", slog.String("image", cfg.Image))

	e := &Executor{
		cli:    cli,
		config: cfg,
		logger: logger,
	}
	e.pool = NewPool(cli, cfg, logger)
	e.pool.Start()

	return e, nil
}

// WarmContainers reports how many containers are idle in the pool.
func (e *Executor) WarmContainers() int {
	return e.pool.Ready()
}

// Close shuts down the pool and the docker client.
func (e *Executor) Close() error {
	e.pool.Stop()
	return e.cli.Close()
}

// Run executes req.Code with `python -I -c` in a warm container, writing
// req.Stdin to the process and closing it so reads past the end raise
// EOFError instead of blocking.
func (e *Executor) Run(ctx context.Context, req executor.RunRequest) *executor.RunResult {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	containerID, err := e.pool.GetContainer(runCtx)
	if err != nil {
		if ctx.Err() != nil {
			return &executor.RunResult{Status: executor.Interrupted(ctx), ExitCode: -1, Duration: time.Since(start)}
		}
		return launchFailed(start, fmt.Errorf("no warm container available: %w", err))
	}
	// The container is single-use: removing it also kills a run that is
	// still going after the deadline.
	defer e.removeContainer(containerID)

	execResp, err := e.cli.ContainerExecCreate(runCtx, containerID, container.ExecOptions{
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Env:          []string{"LANG=C.UTF-8", "LC_ALL=C.UTF-8"},
		Cmd:          []string{"python", "-I", "-c", req.Code},
	})
	if err != nil {
		return launchFailed(start, fmt.Errorf("failed to create exec: %w", err))
	}

	attachResp, err := e.cli.ContainerExecAttach(runCtx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return launchFailed(start, fmt.Errorf("failed to attach to exec: %w", err))
	}
	defer attachResp.Close()

	go func() {
		_, _ = io.Copy(attachResp.Conn, strings.NewReader(req.Stdin))
		_ = attachResp.CloseWrite()
	}()

	stdout := executor.NewLimitedBuffer(executor.MaxCaptureBytes)
	// Exceptions are reported last, so stderr keeps its tail.
	stderr := executor.NewTailBuffer(executor.MaxCaptureBytes)

	done := make(chan struct{})
	go func() {
		// stdcopy demultiplexes the single attach stream into stdout/stderr.
		_, _ = stdcopy.StdCopy(stdout, stderr, attachResp.Reader)
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		return &executor.RunResult{
			Status:   executor.Interrupted(ctx),
			ExitCode: -1,
			Duration: time.Since(start),
		}
	}

	result := &executor.RunResult{
		Status:   executor.StatusExited,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if stdout.Truncated() || stderr.Truncated() {
		e.logger.Info("python output exceeded the capture budget",
			slog.Bool("stdout", stdout.Truncated()),
			slog.Bool("stderr", stderr.Truncated()),
			slog.Int("maxBytes", executor.MaxCaptureBytes),
		)
	}

	inspectCtx, inspectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer inspectCancel()
	inspect, err := e.cli.ContainerExecInspect(inspectCtx, execResp.ID)
	if err != nil {
		e.logger.Error("failed to inspect exec", slog.String("error", err.Error()))
		result.ExitCode = -1
		return result
	}
	result.ExitCode = inspect.ExitCode
	return result
}

func (e *Executor) removeContainer(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		e.logger.Error("failed to remove container", slog.String("id", id), slog.String("error", err.Error()))
	}
}

func launchFailed(start time.Time, err error) *executor.RunResult {
	return &executor.RunResult{
		Status:   executor.StatusLaunchFailed,
		ExitCode: -1,
		Duration: time.Since(start),
		Err:      err,
	}
}
