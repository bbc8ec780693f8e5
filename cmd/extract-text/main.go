// Command extract-text prints the usable "{title}. {text}" lines of a crawled JSON Lines dump.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/futig/genai-toolkit/internal/extract"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitUsageError = 1
	ExitParseError = 2
	ExitIOError    = 3
)

type settings struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var s settings
	if err := env.Parse(&s); err != nil {
		_, _ = io.WriteString(stderr, "Error: "+err.Error()+"\n")
		return ExitUsageError
	}

	log, err := logger.NewWithSink(s.LogLevel, zapcore.AddSync(stderr))
	if err != nil {
		_, _ = io.WriteString(stderr, "Error: "+err.Error()+"\n")
		return ExitUsageError
	}
	defer func() { _ = log.Sync() }()

	cmd := newRootCmd(stdout, log)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err = cmd.Execute()
	code := exitCode(err)
	if code == ExitUsageError {
		_, _ = io.WriteString(stderr, "Error: "+err.Error()+"\n"+cmd.UsageString())
	} else if err != nil {
		log.Error("extraction failed", zap.Error(err), zap.Int("exit_code", code))
	}
	return code
}

func newRootCmd(stdout io.Writer, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-text <pages.jsonl>",
		Short: "Extract usable text lines from a crawled JSON Lines dump",
		Long: `Reads one JSON object per line with optional "url", "title" and "text" fields,
skips repeated URLs, drops error pages, serialized payloads and short bodies,
and prints "{title}. {text}" for every remaining record in input order.

Logs go to stderr, stdout carries only the extracted lines.

Exit codes:
  0 - Success
  1 - Usage error
  2 - Malformed JSON line
  3 - I/O error`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxzap.ToContext(cmd.Context(), log)
			_, err := extract.NewExtractor(extract.DefaultRules()).RunFile(ctx, args[0], stdout)
			return err
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	return cmd
}

func exitCode(err error) int {
	var usageErr *usageError
	var parseErr *extract.ParseError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &parseErr):
		return ExitParseError
	default:
		return ExitIOError
	}
}
