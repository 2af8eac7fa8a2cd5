package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/python-playground/internal/diagnosis"
	"github.com/sakif/python-playground/internal/executor/process"
	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/service"
)

type runOptions struct {
	stdin        string
	stripPrompts bool
	pythonBin    string
	verbose      bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Run a snippet from a file or standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runSnippet(cmd, code, opts)
		},
	}

	cmd.Flags().StringVar(&opts.stdin, "stdin", "", "Text fed to the program's standard input")
	cmd.Flags().BoolVar(&opts.stripPrompts, "strip-prompts", false, "Remove input() prompts from the output")
	cmd.Flags().StringVar(&opts.pythonBin, "python", "python3", "Python interpreter")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log runner details to stderr")

	return cmd
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [file|-]",
		Short: "Explain a Python traceback in Turkish",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traceback, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), diagnosis.Explain(traceback))
			return nil
		},
	}
}

// readSource reads the named file, or standard input for "-" or no argument.
func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

func runSnippet(cmd *cobra.Command, code string, opts *runOptions) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := process.DefaultConfig()
	cfg.PythonBin = opts.pythonBin
	svc := service.NewExecutionService(process.New(cfg, logger), logger)

	outcome := svc.Execute(cmd.Context(), model.ExecutionRequest{
		Code:              code,
		Stdin:             opts.stdin,
		StripInputPrompts: opts.stripPrompts,
	})

	if outcome.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Output)
	}
	if !outcome.OK {
		fmt.Fprintln(cmd.ErrOrStderr(), outcome.Error)
		return errRunFailed
	}
	return nil
}
