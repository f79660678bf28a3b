package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/services"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/export"
	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/dmitrijs2005/clipshare/internal/identity"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// fakeSessions — заглушка services.SessionService.
type fakeSessions struct {
	current    *services.SessionState
	last       string
	pingErr    error
	joinErr    error
	reconnects int
	joined     []string
	renamed    string
	devices    []models.Device
	closed     bool

	// pingHook replaces Ping when set; onClose runs inside Close.
	pingHook func(context.Context) error
	onClose  func()
}

func (f *fakeSessions) Identity(context.Context) (identity.Identity, error) {
	return identity.Identity{DeviceID: "abcDEF123456", DeviceName: "Kiki"}, nil
}

func (f *fakeSessions) Join(_ context.Context, code string) (*services.SessionState, error) {
	f.joined = append(f.joined, code)
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	f.current = &services.SessionState{Code: code, DeviceID: "abcDEF123456"}
	return f.current, nil
}

func (f *fakeSessions) Create(context.Context) (*services.SessionState, error) {
	f.current = &services.SessionState{Code: "7777777", IsHost: true, DeviceID: "abcDEF123456"}
	return f.current, nil
}

func (f *fakeSessions) Reconnect(context.Context) error {
	f.reconnects++
	if f.current == nil {
		return client.ErrNoSession
	}
	f.current.Offline = false
	return nil
}

func (f *fakeSessions) Leave(context.Context) error {
	if f.current == nil {
		return client.ErrNoSession
	}
	f.current = nil
	return nil
}

func (f *fakeSessions) Current() (*services.SessionState, cryptox.SessionKey, error) {
	if f.current == nil {
		return nil, cryptox.SessionKey{}, client.ErrNoSession
	}
	st := *f.current
	return &st, cryptox.SessionKey{}, nil
}

func (f *fakeSessions) LastSession(context.Context) (string, error) { return f.last, nil }

func (f *fakeSessions) Rename(_ context.Context, name string) (string, error) {
	f.renamed = name
	return name, nil
}

func (f *fakeSessions) Devices(context.Context) ([]models.Device, error) {
	if f.current == nil {
		return nil, client.ErrNoSession
	}
	return f.devices, nil
}

func (f *fakeSessions) Ping(ctx context.Context) error {
	if f.pingHook != nil {
		return f.pingHook(ctx)
	}
	return f.pingErr
}

func (f *fakeSessions) Touch(context.Context) (time.Time, error) {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), nil
}

func (f *fakeSessions) Close() error {
	if f.onClose != nil {
		f.onClose()
	}
	f.closed = true
	return nil
}

// fakeClips — заглушка services.ClipService.
type fakeClips struct {
	sent      []string
	files     []string
	items     []fieldcrypt.DecryptedItem
	listErr   error
	synced    []bool
	deleted   []string
	exported  []string
	downloads []string
}

func (f *fakeClips) SendText(_ context.Context, kind models.ItemKind, content string) (string, error) {
	f.sent = append(f.sent, string(kind)+":"+content)
	return "#a1b2c3d4", nil
}

func (f *fakeClips) SendFile(_ context.Context, path string) (string, error) {
	f.files = append(f.files, path)
	return "#deadbeef", nil
}

func (f *fakeClips) Sync(_ context.Context, full bool) (int, error) {
	f.synced = append(f.synced, full)
	return 3, nil
}

func (f *fakeClips) List(context.Context) ([]fieldcrypt.DecryptedItem, error) {
	return f.items, f.listErr
}

func (f *fakeClips) Show(_ context.Context, ref string) (*fieldcrypt.DecryptedItem, error) {
	for i := range f.items {
		if f.items[i].Label() == ref || f.items[i].ID == ref {
			return &f.items[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeClips) Download(_ context.Context, ref, dir string) (string, error) {
	f.downloads = append(f.downloads, ref+"@"+dir)
	return "/tmp/notes.txt", nil
}

func (f *fakeClips) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeClips) Export(_ context.Context, format export.Format, dest string) (int, error) {
	f.exported = append(f.exported, string(format)+">"+dest)
	return 2, nil
}
