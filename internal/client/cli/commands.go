package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/services"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/export"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// getSessionCode is a test seam for the hidden code prompt.
var getSessionCode = GetSessionCode

func (a *App) Join(ctx context.Context, args []string) error {
	var code string
	if len(args) > 0 {
		code = normalizeCode(strings.Join(args, ""))
	} else {
		var err error
		if code, err = getSessionCode(a.out); err != nil {
			return err
		}
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	st, err := a.sessions.Join(rctx, code)
	if err != nil {
		return err
	}
	role := "guest"
	if st.IsHost {
		role = "host"
	}
	fmt.Fprintf(a.out, "Joined session %s as %s%s\n", st.Code, role, offlineSuffix(st))
	return nil
}

func (a *App) New(ctx context.Context, _ []string) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	st, err := a.sessions.Create(rctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created session %s. Enter this code on your other devices.\n", st.Code)
	return nil
}

func (a *App) Text(ctx context.Context, args []string) error {
	return a.sendText(ctx, models.ItemKindText, args, "Enter text")
}

func (a *App) Code(ctx context.Context, args []string) error {
	return a.sendText(ctx, models.ItemKindCode, args, "Paste code")
}

func (a *App) sendText(ctx context.Context, kind models.ItemKind, args []string, prompt string) error {
	content := strings.Join(args, " ")
	if content == "" {
		var err error
		if content, err = GetMultiline(a.reader, prompt, a.out); err != nil {
			return err
		}
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	label, err := a.clips.SendText(rctx, kind, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Shared %s %s\n", kind, label)
	return nil
}

func (a *App) File(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("file <path>")
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	label, err := a.clips.SendFile(rctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Shared file %s\n", label)
	return nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	items, err := a.clips.List(rctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items yet.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintln(a.out, renderItemLine(it))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <ref>")
	}

	it, err := a.clips.Show(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderItemDetail(*it))
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("download <ref> [dir]")
	}
	dir := ""
	if len(args) == 2 {
		dir = args[1]
	}

	path, err := a.clips.Download(ctx, args[0], dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <ref>")
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.clips.Delete(rctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) Devices(ctx context.Context, _ []string) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	devs, err := a.sessions.Devices(rctx)
	if err != nil {
		return err
	}
	st, _, _ := a.sessions.Current()
	for _, d := range devs {
		fmt.Fprintln(a.out, renderDevice(d, st != nil && d.DeviceID == st.DeviceID))
	}
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("rename <name>")
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	name, err := a.sessions.Rename(rctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "This device is now %q\n", name)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("export <text|json> [path|s3://bucket/key|https://presigned-url]")
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	dest := ""
	if len(args) == 2 {
		dest = args[1]
	}

	n, err := a.clips.Export(ctx, format, dest)
	if err != nil {
		return err
	}
	if dest != "" && dest != "-" {
		fmt.Fprintf(a.out, "Exported %d items to %s\n", n, dest)
	}
	return nil
}

func (a *App) Sync(ctx context.Context, args []string) error {
	full := len(args) == 1 && args[0] == "full"
	if len(args) > 0 && !full {
		return usageError("sync [full]")
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	n, err := a.clips.Sync(rctx, full)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Synced %d items\n", n)
	return nil
}

func (a *App) Leave(ctx context.Context, _ []string) error {
	if err := a.sessions.Leave(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Left the session. Its key has been forgotten on this device.")
	return nil
}

func (a *App) Status(ctx context.Context, _ []string) error {
	id, err := a.sessions.Identity(ctx)
	if err != nil {
		return err
	}

	mode := a.getMode()
	if mode == "" {
		mode = ModeOffline
	}
	fmt.Fprintf(a.out, "Relay:   %s (%s)\n", a.relayAddr(), mode)
	fmt.Fprintf(a.out, "Device:  %s [%s]\n", id.DeviceName, id.DeviceID)

	st, _, err := a.sessions.Current()
	if err != nil {
		fmt.Fprintln(a.out, "Session: none")
		return nil
	}
	role := "guest"
	if st.IsHost {
		role = "host"
	}
	fmt.Fprintf(a.out, "Session: %s as %s%s\n", st.Code, role, offlineSuffix(st))

	if !st.Offline {
		rctx, cancel := a.requestContext(ctx)
		defer cancel()
		if t, err := a.sessions.Touch(rctx); err == nil {
			fmt.Fprintf(a.out, "Relay time: %s\n", t.Local().Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func (a *App) relayAddr() string {
	if a.config == nil {
		return ""
	}
	return a.config.ServerEndpointAddr
}

func offlineSuffix(st *services.SessionState) string {
	if st.Offline {
		return " (offline, showing cached items)"
	}
	return ""
}

// describeError turns known errors into a message for the user.
func describeError(err error) string {
	switch {
	case isUsage(err):
		return err.Error()
	case errors.Is(err, client.ErrNoSession):
		return "not in a session, use 'join' or 'new'"
	case errors.Is(err, client.ErrUnavailable):
		return "relay unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return "the relay rejected this device, join the session again"
	case errors.Is(err, common.ErrorInvalidSessionCode):
		return fmt.Sprintf("a session code is %d digits", common.SessionCodeLength)
	case errors.Is(err, common.ErrorForbidden):
		return "only the author or the session host can do that"
	case errors.Is(err, filecrypt.ErrFileUnavailable):
		return "this file cannot be decrypted with the session key"
	case errors.Is(err, services.ErrStale):
		return "the session changed while loading, try again"
	case errors.Is(err, common.ErrorNotFound):
		return "not found"
	}
	return err.Error()
}
