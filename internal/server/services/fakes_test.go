package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/devices"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/items"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/sessions"
)

// memStore — общее in-memory хранилище для фейковых репозиториев.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	devices  map[string]models.DeviceRow
	items    map[string]models.ItemRow
	touched  map[string]time.Time
	clock    time.Time

	failSessions error
	failDevices  error
	failItems    error
}

func newMemStore() *memStore {
	return &memStore{
		sessions: map[string]models.Session{},
		devices:  map[string]models.DeviceRow{},
		items:    map[string]models.ItemRow{},
		touched:  map[string]time.Time{},
		clock:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type fakeManager struct{ st *memStore }

func (f fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f fakeManager) Sessions(dbx.DBTX) sessions.Repository { return fakeSessions{f.st} }
func (f fakeManager) Devices(dbx.DBTX) devices.Repository { return fakeDevices{f.st} }
func (f fakeManager) Items(dbx.DBTX) items.Repository { return fakeItems{f.st} }

type fakeSessions struct{ st *memStore }

func (r fakeSessions) Create(_ context.Context, s *models.Session) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.failSessions != nil {
		return r.st.failSessions
	}
	if _, ok := r.st.sessions[s.Code]; ok {
		return common.ErrorAlreadyExists
	}
	s.CreatedAt = r.st.tick()
	r.st.sessions[s.Code] = *s
	return nil
}

func (r fakeSessions) Get(_ context.Context, code string) (*models.Session, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.failSessions != nil {
		return nil, r.st.failSessions
	}
	s, ok := r.st.sessions[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

type fakeDevices struct{ st *memStore }

func devKey(code, id string) string { return code + "/" + id }

func (r fakeDevices) Upsert(_ context.Context, d *models.DeviceRow) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.failDevices != nil {
		return r.st.failDevices
	}
	now := r.st.tick()
	k := devKey(d.SessionCode, d.DeviceID)
	if old, ok := r.st.devices[k]; ok {
		old.LastSeenAt = now
		if d.DeviceNameEncrypted != nil {
			old.DeviceNameEncrypted = d.DeviceNameEncrypted
		}
		*d = old
	} else {
		d.JoinedAt, d.LastSeenAt = now, now
	}
	r.st.devices[k] = *d
	return nil
}

func (r fakeDevices) Get(_ context.Context, code, id string) (*models.DeviceRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	d, ok := r.st.devices[devKey(code, id)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r fakeDevices) List(_ context.Context, code string) ([]models.DeviceRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.DeviceRow
	for _, d := range r.st.devices {
		if d.SessionCode == code {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsHost != out[j].IsHost {
			return out[i].IsHost
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (r fakeDevices) UpdateName(_ context.Context, code, id string, name *string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	k := devKey(code, id)
	d, ok := r.st.devices[k]
	if !ok {
		return common.ErrorNotFound
	}
	d.DeviceNameEncrypted = name
	r.st.devices[k] = d
	return nil
}

func (r fakeDevices) Touch(_ context.Context, code, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	k := devKey(code, id)
	d, ok := r.st.devices[k]
	if !ok {
		return common.ErrorNotFound
	}
	d.LastSeenAt = at
	r.st.devices[k] = d
	r.st.touched[k] = at
	return nil
}

type fakeItems struct{ st *memStore }

func (r fakeItems) Create(_ context.Context, it *models.ItemRow) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.failItems != nil {
		return r.st.failItems
	}
	if _, ok := r.st.items[it.ID]; ok {
		return common.ErrorAlreadyExists
	}
	it.CreatedAt = r.st.tick()
	r.st.items[it.ID] = *it
	return nil
}

func (r fakeItems) Get(_ context.Context, code, id string) (*models.ItemRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	it, ok := r.st.items[id]
	if !ok || it.SessionCode != code {
		return nil, common.ErrorNotFound
	}
	return &it, nil
}

func (r fakeItems) ListAfter(_ context.Context, code string, after models.ItemCursor, limit int) ([]models.ItemRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.ItemRow
	for _, it := range r.st.items {
		if it.SessionCode == code && after.Before(it) {
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

func (r fakeItems) Delete(_ context.Context, code, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	it, ok := r.st.items[id]
	if !ok || it.SessionCode != code {
		return common.ErrorNotFound
	}
	delete(r.st.items, id)
	return nil
}

// stubTx подменяет dbx.WithTx: транзакция не нужна фейковым репозиториям.
func stubTx(t *testing.T) {
	t.Helper()
	old := withTx
	withTx = func(ctx context.Context, _ *sql.DB, _ *sql.TxOptions, fn func(context.Context, dbx.DBTX) error) error {
		return fn(ctx, nil)
	}
	t.Cleanup(func() { withTx = old })
}
