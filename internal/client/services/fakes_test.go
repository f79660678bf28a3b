package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/relay"
	"github.com/stretchr/testify/require"
)

// fakeClient — in-memory реле, реализует client.Client.
type fakeClient struct {
	mu sync.Mutex

	sessions    map[string]string // code -> host device id
	devices     map[string][]models.DeviceRow
	items       []models.ItemRow
	clock       time.Time
	current     string
	deviceID    string
	unavailable bool
	// collide makes that many create attempts fail with AlreadyExists
	collide int

	joins     []relay.JoinSessionRequest
	listCalls int
	closed    bool
	// onList runs before ListItems answers, outside the lock
	onList func()
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		sessions: map[string]string{},
		devices:  map[string][]models.DeviceRow{},
		clock:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return client.ErrUnavailable
	}
	return nil
}

func (f *fakeClient) JoinSession(_ context.Context, code, deviceID string, nameEnc *string, create bool) (*relay.JoinSessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unavailable {
		return nil, client.ErrUnavailable
	}
	f.joins = append(f.joins, relay.JoinSessionRequest{SessionCode: code, DeviceID: deviceID, DeviceNameEncrypted: nameEnc, Create: create})

	host, exists := f.sessions[code]
	switch {
	case create && f.collide > 0:
		f.collide--
		return nil, common.ErrorAlreadyExists
	case create && exists:
		return nil, common.ErrorAlreadyExists
	case !create && !exists:
		return nil, common.ErrorNotFound
	case create:
		host = deviceID
		f.sessions[code] = host
	}

	devs := f.devices[code]
	replaced := false
	for i := range devs {
		if devs[i].DeviceID == deviceID {
			devs[i].DeviceNameEncrypted = nameEnc
			replaced = true
		}
	}
	if !replaced {
		devs = append(devs, models.DeviceRow{DeviceID: deviceID, SessionCode: code, IsHost: host == deviceID, DeviceNameEncrypted: nameEnc})
	}
	f.devices[code] = devs

	f.current, f.deviceID = code, deviceID
	return &relay.JoinSessionResponse{
		AccessToken: "token",
		Session:     models.Session{Code: code, HostDeviceID: host, CreatedAt: f.clock},
		IsHost:      host == deviceID,
	}, nil
}

func (f *fakeClient) Leave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current, f.deviceID = "", ""
}

func (f *fakeClient) check() error {
	if f.unavailable {
		return client.ErrUnavailable
	}
	if f.current == "" {
		return client.ErrNoSession
	}
	return nil
}

func (f *fakeClient) PutItem(_ context.Context, row models.ItemRow) (*relay.PutItemResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	f.clock = f.clock.Add(time.Second)
	row.SessionCode, row.DeviceID, row.CreatedAt = f.current, f.deviceID, f.clock
	f.items = append(f.items, row)
	return &relay.PutItemResponse{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// seed stores a row written by some other device.
func (f *fakeClient) seed(row models.ItemRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	row.CreatedAt = f.clock
	f.items = append(f.items, row)
}

// seedAt stores row with an explicit relay timestamp, as a late commit would.
func (f *fakeClient) seedAt(row models.ItemRow, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row.CreatedAt = at
	f.items = append(f.items, row)
}

func (f *fakeClient) ListItems(_ context.Context, after models.ItemCursor, limit int) ([]models.ItemRow, error) {
	if f.onList != nil {
		f.onList()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.check(); err != nil {
		return nil, err
	}

	var out []models.ItemRow
	for _, it := range f.items {
		if it.SessionCode == f.current && after.Before(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return
		}
	}
}

func (f *fakeClient) ListDevices(context.Context) ([]models.DeviceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	return append([]models.DeviceRow(nil), f.devices[f.current]...), nil
}

func (f *fakeClient) UpdateDevice(_ context.Context, nameEnc *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	devs := f.devices[f.current]
	for i := range devs {
		if devs[i].DeviceID == f.deviceID {
			devs[i].DeviceNameEncrypted = nameEnc
		}
	}
	return nil
}

func (f *fakeClient) Touch(context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return time.Time{}, err
	}
	return f.clock, nil
}

func (f *fakeClient) setUnavailable(v bool) {
	f.mu.Lock()
	f.unavailable = v
	f.mu.Unlock()
}

type harness struct {
	fake     *fakeClient
	db       *sql.DB
	keys     *cryptox.KeyRing
	files    *filecrypt.Registry
	sessions SessionService
	clips    ClipService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keys, err := cryptox.NewKeyRing(4)
	require.NoError(t, err)

	h := &harness{fake: newFakeClient(), db: db, keys: keys, files: filecrypt.NewRegistry()}
	h.sessions = NewSessionService(h.fake, db, keys, h.files, logging.Nop())
	h.clips = NewClipService(h.fake, db, h.sessions, h.files, ClipOptions{Concurrency: 4, DownloadDir: t.TempDir()}, logging.Nop())
	return h
}

func (h *harness) key(t *testing.T, code string) cryptox.SessionKey {
	t.Helper()
	k, err := h.keys.Get(code)
	require.NoError(t, err)
	return k
}
