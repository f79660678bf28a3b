package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	session bool
	calls   []string
	err     error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) inSession() bool { return f.session }
func (f *fakeExec) Join(_ context.Context, a []string) error {
	f.session = true
	return f.record("join", a)
}
func (f *fakeExec) New(_ context.Context, a []string) error {
	f.session = true
	return f.record("new", a)
}
func (f *fakeExec) Text(_ context.Context, a []string) error     { return f.record("text", a) }
func (f *fakeExec) Code(_ context.Context, a []string) error     { return f.record("code", a) }
func (f *fakeExec) File(_ context.Context, a []string) error     { return f.record("file", a) }
func (f *fakeExec) List(_ context.Context, a []string) error     { return f.record("list", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error     { return f.record("show", a) }
func (f *fakeExec) Download(_ context.Context, a []string) error { return f.record("download", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.record("delete", a) }
func (f *fakeExec) Devices(_ context.Context, a []string) error  { return f.record("devices", a) }
func (f *fakeExec) Rename(_ context.Context, a []string) error   { return f.record("rename", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error   { return f.record("export", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error     { return f.record("sync", a) }
func (f *fakeExec) Leave(_ context.Context, a []string) error {
	f.session = false
	return f.record("leave", a)
}
func (f *fakeExec) Status(_ context.Context, a []string) error { return f.record("status", a) }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"join 4821093",
		"help",
		"text hello there",
		"",
		"l",
		"show #a1b2c3d4",
		"download #deadbeef /tmp",
		"rm #a1b2c3d4",
		"EXPORT json s3://b/k",
		"sync full",
		"foobar",
		"leave",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input), &out)

	assert.Equal(t, []string{
		"join 4821093",
		"text hello there",
		"list",
		"show #a1b2c3d4",
		"download #deadbeef /tmp",
		"delete #a1b2c3d4",
		"export json s3://b/k",
		"sync full",
		"leave",
	}, exec.calls)

	s := out.String()
	assert.Contains(t, s, "clipshare status> ")
	assert.Contains(t, s, "join [code]")
	assert.Contains(t, s, "download <ref> [dir]")
	assert.Contains(t, s, "Unknown command: foobar")
	assert.Contains(t, s, "Bye!")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	exec := &fakeExec{err: usageError("show <ref>")}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr("show\nstatus\n"), &out)

	assert.Len(t, exec.calls, 2)
	assert.Contains(t, out.String(), "Error: usage: show <ref>")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr("list"), &out)
	assert.Equal(t, []string{"list"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("list\n"), &out)
	assert.Empty(t, exec.calls)
}

func TestIsUsage(t *testing.T) {
	assert.True(t, isUsage(usageError("x")))
	assert.False(t, isUsage(errors.New("x")))
}
