package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls [][]string
	err   error
}

func (f *fakeExec) Exec(_ context.Context, args []string) error {
	f.calls = append(f.calls, args)
	return f.err
}

func (f *fakeExec) status() string { return "(s)" }

func TestRunREPL_DispatchesUntilExit(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("water add 250\n\n  day  \nquit\nday\n"))
	var out bytes.Buffer
	e := &fakeExec{}

	runREPL(context.Background(), e, in, &out)

	assert.Equal(t, [][]string{{"water", "add", "250"}, {"day"}}, e.calls)
	assert.Contains(t, out.String(), "nl (s)> ")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_PrintsErrorsAndStopsOnEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("day\ninsight"))
	var out bytes.Buffer
	e := &fakeExec{err: errors.New("server unavailable")}

	runREPL(context.Background(), e, in, &out)

	assert.Len(t, e.calls, 2)
	assert.Equal(t, 2, strings.Count(out.String(), "error: server unavailable"))
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &fakeExec{}

	runREPL(ctx, e, bufio.NewReader(strings.NewReader("day\n")), &bytes.Buffer{})
	assert.Empty(t, e.calls)
}
