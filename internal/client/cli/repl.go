package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests can provide a lightweight stub. Every handler receives
// the arguments following the command word.
type execIface interface {
	inSession() bool
	Join(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Text(ctx context.Context, args []string) error
	Code(ctx context.Context, args []string) error
	File(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Devices(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Leave(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

// commands maps command words to handlers. Aliases share a handler.
var commands = map[string]func(execIface, context.Context, []string) error{
	"join":     execIface.Join,
	"new":      execIface.New,
	"text":     execIface.Text,
	"code":     execIface.Code,
	"file":     execIface.File,
	"l":        execIface.List,
	"list":     execIface.List,
	"show":     execIface.Show,
	"download": execIface.Download,
	"delete":   execIface.Delete,
	"rm":       execIface.Delete,
	"devices":  execIface.Devices,
	"rename":   execIface.Rename,
	"export":   execIface.Export,
	"sync":     execIface.Sync,
	"leave":    execIface.Leave,
	"status":   execIface.Status,
}

const (
	helpNoSession = `Available commands:
  join [code]        join a session (code is read without echo if omitted)
  new                create a session and become its host
  rename <name>      change this device's name
  status             show connection and device details
  exit | quit        leave the program`

	helpInSession = `Available commands:
  text [words]       share text (multi-line prompt if no words given)
  code               share a code snippet
  file <path>        share a file
  (l)ist             list items, newest first
  show <ref>         show one item (#display id or id prefix)
  download <ref> [dir]
  delete <ref>       remove an item for everyone
  devices            list devices in the session
  rename <name>      change this device's name
  export <text|json> [path|s3://bucket/key|https://presigned-url]
  sync [full]        pull new items from the relay
  leave              leave the session and forget its key
  status             show connection and device details
  exit | quit        leave the program`
)

// runREPL reads one command per line from reader and dispatches it to e.
// The loop exits on EOF, on "exit"/"quit", or when ctx is cancelled between
// commands. Errors are reported to out and never end the loop.
func runREPL(ctx context.Context, e execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "clipshare %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			if e.inSession() {
				fmt.Fprintln(out, helpInSession)
			} else {
				fmt.Fprintln(out, helpNoSession)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		}

		h, ok := commands[cmd]
		if !ok {
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}

		if err := h(e, ctx, args); err != nil {
			fmt.Fprintln(out, "Error:", describeError(err))
		}
	}
}

// usageError is returned by handlers called with the wrong arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}
