package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longBody = "This is a sufficiently long example body text for testing purposes."

func runLines(t *testing.T, input string) []string {
	t.Helper()

	lines, err := NewExtractor(DefaultRules()).Lines(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	return lines
}

func TestExtractor_FormatsSurvivor(t *testing.T) {
	lines := runLines(t, `{"url": "a", "title": "Doc", "text": "`+longBody+`"}`+"\n")
	assert.Equal(t, []string{"Doc. " + longBody}, lines)
}

func TestExtractor_StripsFields(t *testing.T) {
	lines := runLines(t, `{"url": "  a ", "title": "  Doc\t", "text": "\n `+longBody+`  "}`)
	assert.Equal(t, []string{"Doc. " + longBody}, lines)
}

func TestExtractor_MissingTitleKeepsSeparator(t *testing.T) {
	lines := runLines(t, `{"url": "a", "text": "`+longBody+`"}`)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], ". "))
	assert.Equal(t, ". "+longBody, lines[0])
}

func TestExtractor_NullFieldsActLikeMissing(t *testing.T) {
	lines := runLines(t, `{"url": null, "title": null, "text": "`+longBody+`"}`)
	assert.Equal(t, []string{". " + longBody}, lines)
}

func TestExtractor_FieldNamesAreCaseSensitive(t *testing.T) {
	input := strings.Join([]string{
		`{"url": "a", "Title": "Wrong", "Text": "` + longBody + `"}`,
		`{"url": "b", "URL": "a", "title": "B", "text": "` + longBody + `"}`,
	}, "\n")

	assert.Equal(t, []string{"B. " + longBody}, runLines(t, input))
}

func TestExtractor_StripsASCIISeparators(t *testing.T) {
	short := strings.Repeat("x", MinTextLength-1)
	input := strings.Join([]string{
		`{"url": "a", "title": "\u001cA\u001d", "text": "\u001e` + longBody + `\u001f"}`,
		`{"url": "b", "title": "B", "text": "\u001f` + short + `\u001f"}`,
	}, "\n")

	assert.Equal(t, []string{"A. " + longBody}, runLines(t, input))
}

func TestExtractor_DedupKeepsEarliest(t *testing.T) {
	input := strings.Join([]string{
		`{"url": "https://x", "title": "first", "text": "` + longBody + `"}`,
		`{"url": "https://x", "title": "second", "text": "` + longBody + `"}`,
		`{"url": " https://x ", "title": "third", "text": "` + longBody + `"}`,
	}, "\n")

	assert.Equal(t, []string{"first. " + longBody}, runLines(t, input))
}

func TestExtractor_DedupHappensBeforeFiltering(t *testing.T) {
	// The first record claims the URL even though it is dropped.
	input := strings.Join([]string{
		`{"url": "same", "title": "short", "text": "too short"}`,
		`{"url": "same", "title": "long", "text": "` + longBody + `"}`,
	}, "\n")

	assert.Empty(t, runLines(t, input))
}

func TestExtractor_EmptyURLIsADedupKey(t *testing.T) {
	input := strings.Join([]string{
		`{"title": "no url", "text": "` + longBody + `"}`,
		`{"url": "", "title": "blank url", "text": "` + longBody + `"}`,
		`{"url": "   ", "title": "spaces", "text": "` + longBody + `"}`,
	}, "\n")

	assert.Equal(t, []string{"no url. " + longBody}, runLines(t, input))
}

func TestExtractor_PreservesOrder(t *testing.T) {
	input := strings.Join([]string{
		`{"url": "a", "title": "A", "text": "` + longBody + `"}`,
		`{"url": "b", "title": "B", "text": "` + longBody + `"}`,
		`{"url": "c", "title": "C", "text": "` + longBody + `"}`,
	}, "\n") + "\n"

	assert.Equal(t, []string{"A. " + longBody, "B. " + longBody, "C. " + longBody}, runLines(t, input))
}

func TestExtractor_LengthBoundary(t *testing.T) {
	exactly31 := strings.Repeat("a", 31)
	exactly32 := strings.Repeat("a", 32)

	input := strings.Join([]string{
		`{"url": "31", "title": "t", "text": "` + exactly31 + `"}`,
		`{"url": "32", "title": "t", "text": "` + exactly32 + `"}`,
	}, "\n")

	assert.Equal(t, []string{"t. " + exactly32}, runLines(t, input))
}

func TestExtractor_LengthCountsCharactersNotBytes(t *testing.T) {
	// 32 characters, 64 bytes.
	text := strings.Repeat("é", 32)
	assert.Equal(t, []string{"t. " + text}, runLines(t, `{"url": "u", "title": "t", "text": "`+text+`"}`))

	text = strings.Repeat("é", 31)
	assert.Empty(t, runLines(t, `{"url": "u", "title": "t", "text": "`+text+`"}`))
}

func TestExtractor_MalformedLineIsFatal(t *testing.T) {
	input := strings.Join([]string{
		`{"url": "a", "title": "A", "text": "` + longBody + `"}`,
		`{"url": "b", "title": `,
		`{"url": "c", "title": "C", "text": "` + longBody + `"}`,
	}, "\n")

	var out bytes.Buffer
	stats, err := NewExtractor(DefaultRules()).Run(context.Background(), strings.NewReader(input), &out)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, 1, stats.Read)
}

func TestExtractor_RejectsNonObjectLines(t *testing.T) {
	for _, line := range []string{`null`, `[1, 2]`, `"text"`, ``, `   `} {
		t.Run(line, func(t *testing.T) {
			input := `{"url": "a", "text": "` + longBody + `"}` + "\n" + line + "\n"
			_, err := NewExtractor(DefaultRules()).Run(context.Background(), strings.NewReader(input), &bytes.Buffer{})

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected parse error, got %v", err)
			assert.Equal(t, 2, parseErr.Line)
		})
	}
}

func TestExtractor_NonStringFieldIsFatal(t *testing.T) {
	_, err := NewExtractor(DefaultRules()).Run(context.Background(), strings.NewReader(`{"url": 5, "text": "x"}`), &bytes.Buffer{})

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestExtractor_HandlesCRLFAndLongLines(t *testing.T) {
	huge := strings.Repeat("word ", 40_000)
	input := `{"url": "a", "title": "A", "text": "` + longBody + `"}` + "\r\n" +
		`{"url": "b", "title": "B", "text": "` + huge + `"}` + "\r\n"

	lines := runLines(t, input)
	require.Len(t, lines, 2)
	assert.Equal(t, "A. "+longBody, lines[0])
	assert.Equal(t, "B. "+strings.TrimSpace(huge), lines[1])
}

func TestExtractor_EmptyInput(t *testing.T) {
	var out bytes.Buffer
	stats, err := NewExtractor(DefaultRules()).Run(context.Background(), strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, out.String())
}

func TestExtractor_Stats(t *testing.T) {
	input := strings.Join([]string{
		`{"url": "a", "title": "A", "text": "` + longBody + `"}`,
		`{"url": "a", "title": "A", "text": "` + longBody + `"}`,
		`{"url": "b", "title": "B", "text": "404 Not Found ` + longBody + `"}`,
		`{"url": "c", "title": "C", "text": "` + longBody + `"}`,
	}, "\n")

	var out bytes.Buffer
	stats, err := NewExtractor(DefaultRules()).Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 4, Duplicates: 1, Dropped: 1, Emitted: 2}, stats)
	assert.Equal(t, "A. "+longBody+"\nC. "+longBody+"\n", out.String())
}

func TestExtractor_CancelledContext(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 250; i++ {
		b.WriteString(`{"url": "u", "text": "x"}` + "\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(DefaultRules()).Run(ctx, strings.NewReader(b.String()), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.jsonl")
	content := `{"url": "a", "title": "Doc", "text": "` + longBody + `"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	stats, err := NewExtractor(DefaultRules()).RunFile(context.Background(), path, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Emitted)
	assert.Equal(t, "Doc. "+longBody+"\n", out.String())
}

func TestExtractor_RunFileMissing(t *testing.T) {
	_, err := NewExtractor(DefaultRules()).RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
