// Package service contains the business logic layer of the application.
//
// ExecutionService is the single entry point for running a snippet:
//
//	request → input synthesis → Runner → output normalisation
//	        → (on failure) diagnosis → ExecutionOutcome
//
// It knows nothing about HTTP. Admission control happens before Execute is
// called (see internal/ratelimit); the service assumes the caller was
// admitted.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/python-playground/internal/apperror"
	"github.com/sakif/python-playground/internal/diagnosis"
	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/identity"
	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/metrics"
	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/output"
	"github.com/sakif/python-playground/internal/prompt"
	"github.com/sakif/python-playground/internal/repository"
)

// ExecutionService runs snippets and shapes their results.
type ExecutionService struct {
	runner   executor.Runner
	journal  repository.RunRepository // optional
	metrics  *metrics.Metrics         // optional
	defaults InputDefaults
	logger   *slog.Logger
}

// Option customises an ExecutionService.
type Option func(*ExecutionService)

// WithJournal records every run in repo.
func WithJournal(repo repository.RunRepository) Option {
	return func(s *ExecutionService) { s.journal = repo }
}

// WithMetrics reports every run to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ExecutionService) { s.metrics = m }
}

// WithInputDefaults overrides the synthesized input.
func WithInputDefaults(d InputDefaults) Option {
	return func(s *ExecutionService) { s.defaults = d }
}

// NewExecutionService creates an ExecutionService around runner.
func NewExecutionService(runner executor.Runner, logger *slog.Logger, opts ...Option) *ExecutionService {
	s := &ExecutionService{
		runner: runner,
		defaults: InputDefaults{
			Line:  DefaultInputLine,
			Count: DefaultInputLinesCount,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs req and returns the student-facing outcome. It never
// returns an error: every failure is an outcome.
func (s *ExecutionService) Execute(ctx context.Context, req model.ExecutionRequest) *model.ExecutionOutcome {
	res := s.runner.Run(ctx, executor.RunRequest{
		Code:  req.Code,
		Stdin: SynthesizeInput(req.Code, req.Stdin, s.defaults),
	})

	outcome, status := s.shape(req, res)

	s.logger.Info("snippet executed",
		slog.String("status", status),
		slog.Int("exitCode", res.ExitCode),
		slog.Duration("duration", res.Duration),
		slog.Int("codeBytes", len(req.Code)),
	)
	s.metrics.RecordRun(status, res.Duration.Seconds(), len(req.Code))
	s.record(ctx, req, res, status)

	return outcome
}

// shape turns a raw run result into an outcome and its journal status.
func (s *ExecutionService) shape(req model.ExecutionRequest, res *executor.RunResult) (*model.ExecutionOutcome, string) {
	switch res.Status {
	case executor.StatusTimedOut:
		return &model.ExecutionOutcome{
			Error: locale.Timeout(int(executor.Timeout.Seconds())),
		}, model.RunStatusTimeout

	case executor.StatusCanceled:
		return &model.ExecutionOutcome{Error: locale.Canceled}, model.RunStatusCanceled

	case executor.StatusLaunchFailed:
		cause := "bilinmeyen neden"
		if res.Err != nil {
			cause = res.Err.Error()
		}
		return &model.ExecutionOutcome{
			Error: locale.Unexpected(cause),
		}, model.RunStatusLaunchFailed
	}

	out := output.Normalize(res.Stdout, prompt.LiteralPrompts(req.Code), req.StripInputPrompts)

	if res.Succeeded() {
		if out == "" {
			out = locale.NoOutput
		}
		return &model.ExecutionOutcome{OK: true, Output: out}, model.RunStatusOK
	}

	return &model.ExecutionOutcome{
		Output: out,
		Error:  diagnosis.Explain(res.Stderr),
	}, model.RunStatusError
}

// record writes the journal entry. Failures are logged and swallowed: the
// student already has their result.
func (s *ExecutionService) record(ctx context.Context, req model.ExecutionRequest, res *executor.RunResult, status string) {
	if s.journal == nil {
		return
	}

	run := &model.Run{
		Client:     identity.FromContext(ctx),
		Status:     status,
		ExitCode:   res.ExitCode,
		DurationMS: res.Duration.Milliseconds(),
		CodeBytes:  len(req.Code),
	}
	// Detach from request cancellation: a client hanging up right after
	// the run should not lose the entry.
	if err := s.journal.Record(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("failed to record run",
			slog.String("status", status),
			slog.String("error", fmt.Errorf("journal: %w", err).Error()),
		)
		return
	}
	s.logger.Debug("run recorded", slog.String("runID", run.ID))
}

// RecentRuns returns the newest journal entries. It returns an empty list
// when no journal is configured.
func (s *ExecutionService) RecentRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if s.journal == nil {
		return []model.Run{}, nil
	}
	runs, err := s.journal.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list runs", slog.String("error", err.Error()))
		return nil, apperror.Unavailable(locale.JournalDown, fmt.Errorf("listing runs: %w", err))
	}
	return runs, nil
}
