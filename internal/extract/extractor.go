// Package extract turns crawled JSON Lines dumps into plain text training lines.
//
// Records are deduplicated by URL within a run and dropped when their body looks
// like an error page, a serialized payload, or is too short to be useful.
package extract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Stats counts what happened to the records of one run.
type Stats struct {
	Read       int
	Duplicates int
	Dropped    int
	Emitted    int
}

// Extractor applies a rule set to JSON Lines input.
// An Extractor holds no per-run state and is safe to reuse.
type Extractor struct {
	rules Rules
}

func NewExtractor(rules Rules) *Extractor {
	return &Extractor{rules: rules}
}

// Run scans r line by line and writes "{title}. {text}" for every surviving record.
// A malformed line aborts the run with a *ParseError.
func (e *Extractor) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	visited := make(map[string]struct{})
	reader := bufio.NewReader(r)
	out := bufio.NewWriter(w)

	for lineNo := 1; ; lineNo++ {
		if lineNo%100 == 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			default:
			}
		}

		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("read input: %w", readErr)
		}

		// A terminating newline does not open another line.
		if len(line) == 0 && errors.Is(readErr, io.EOF) {
			break
		}

		rec, err := decodeRecord(line)
		if err != nil {
			return stats, &ParseError{Line: lineNo, Err: err}
		}
		stats.Read++

		if _, seen := visited[rec.URL]; seen {
			stats.Duplicates++
		} else {
			visited[rec.URL] = struct{}{}

			if e.rules.ShouldDrop(rec.Text) {
				stats.Dropped++
			} else {
				if _, err := out.WriteString(rec.Line() + "\n"); err != nil {
					return stats, fmt.Errorf("write output: %w", err)
				}
				stats.Emitted++
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}

	ctxzap.Info(ctx, "extraction finished",
		zap.Int("records_read", stats.Read),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("dropped", stats.Dropped),
		zap.Int("emitted", stats.Emitted),
	)

	return stats, nil
}

// RunFile opens path for the duration of the run.
func (e *Extractor) RunFile(ctx context.Context, path string, w io.Writer) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("input", path)))
	return e.Run(ctx, f, w)
}

// Lines is a convenience wrapper returning surviving lines without trailing newlines.
func (e *Extractor) Lines(ctx context.Context, r io.Reader) ([]string, error) {
	var buf bytes.Buffer
	if _, err := e.Run(ctx, r, &buf); err != nil {
		return nil, err
	}

	if buf.Len() == 0 {
		return []string{}, nil
	}

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	result := make([]string, 0, len(lines))
	for _, l := range lines {
		result = append(result, string(l))
	}
	return result, nil
}
