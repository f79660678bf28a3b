package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/identity"
	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// createAttempts bounds how often Create draws a new code after a collision.
const createAttempts = 5

// SessionState describes the session this device is currently in.
type SessionState struct {
	Code         string
	HostDeviceID string
	IsHost       bool
	DeviceID     string
	DeviceName   string
	// Offline is set when the relay could not be reached at join time. Only
	// the local mirror is usable until Reconnect succeeds.
	Offline bool
}

// SessionService manages membership in a single session at a time.
type SessionService interface {
	Identity(ctx context.Context) (identity.Identity, error)
	Join(ctx context.Context, code string) (*SessionState, error)
	Create(ctx context.Context) (*SessionState, error)
	Reconnect(ctx context.Context) error
	Leave(ctx context.Context) error
	Current() (*SessionState, cryptox.SessionKey, error)
	LastSession(ctx context.Context) (string, error)
	Rename(ctx context.Context, name string) (string, error)
	Devices(ctx context.Context) ([]models.Device, error)
	Ping(ctx context.Context) error
	Touch(ctx context.Context) (time.Time, error)
	Close() error
}

type sessionService struct {
	client client.Client
	db     *sql.DB
	keys   *cryptox.KeyRing
	files  *filecrypt.Registry
	logger logging.Logger

	mu      sync.RWMutex
	current *SessionState
}

// NewSessionService wires a SessionService. keys caches derived session keys;
// files owns the download resources released on Leave.
func NewSessionService(c client.Client, db *sql.DB, keys *cryptox.KeyRing, files *filecrypt.Registry, l logging.Logger) SessionService {
	return &sessionService{
		client: c,
		db:     db,
		keys:   keys,
		files:  files,
		logger: l.With("module", "sessions"),
	}
}

func (s *sessionService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *sessionService) Identity(ctx context.Context) (identity.Identity, error) {
	return identity.NewStore(s.getMetadataRepo()).LoadOrCreate(ctx)
}

// Join enters an existing session. A relay outage is not fatal: the session
// is entered offline and the local mirror stays readable.
func (s *sessionService) Join(ctx context.Context, code string) (*SessionState, error) {
	st, err := s.join(ctx, code, false)
	if errors.Is(err, client.ErrUnavailable) {
		st, err = s.enterOffline(ctx, code)
	}
	return st, err
}

// Create opens a new session under a random code and joins it as host.
func (s *sessionService) Create(ctx context.Context) (*SessionState, error) {
	for i := 0; i < createAttempts; i++ {
		code, err := common.NewSessionCode()
		if err != nil {
			return nil, fmt.Errorf("session code: %w", err)
		}

		st, err := s.join(ctx, code, true)
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.keys.Evict(code)
			continue
		}
		return st, err
	}
	return nil, fmt.Errorf("no free session code after %d attempts: %w", createAttempts, common.ErrorAlreadyExists)
}

func (s *sessionService) join(ctx context.Context, code string, create bool) (*SessionState, error) {
	if err := common.ValidateSessionCode(code); err != nil {
		return nil, err
	}

	key, err := s.keys.Get(code)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}

	id, err := s.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}

	nameEnc, err := fieldcrypt.EncryptDeviceName(id.DeviceName, key)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.JoinSession(ctx, code, id.DeviceID, nameEnc, create)
	if err != nil {
		return nil, err
	}

	st := &SessionState{
		Code:         code,
		HostDeviceID: resp.Session.HostDeviceID,
		IsHost:       resp.IsHost,
		DeviceID:     id.DeviceID,
		DeviceName:   id.DeviceName,
	}
	if err := s.enter(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "joined session", "code", common.MaskSessionCode(code), "host", resp.IsHost)
	return st, nil
}

func (s *sessionService) enterOffline(ctx context.Context, code string) (*SessionState, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}

	st := &SessionState{Code: code, DeviceID: id.DeviceID, DeviceName: id.DeviceName, Offline: true}
	if err := s.enter(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Warn(ctx, "relay unavailable, session entered offline", "code", common.MaskSessionCode(code))
	return st, nil
}

// enter makes st current, dropping whatever belonged to a previous session.
func (s *sessionService) enter(ctx context.Context, st *SessionState) error {
	s.mu.Lock()
	prev := s.current
	s.current = st
	s.mu.Unlock()

	if prev != nil && prev.Code != st.Code {
		s.keys.Evict(prev.Code)
		s.files.ReleaseAll()
	}

	return s.getMetadataRepo().SetLastSession(ctx, st.Code)
}

// Reconnect rejoins the current session if it was entered offline.
func (s *sessionService) Reconnect(ctx context.Context) error {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur == nil {
		return client.ErrNoSession
	}
	if !cur.Offline {
		return nil
	}

	_, err := s.join(ctx, cur.Code, false)
	return err
}

// Leave forgets the session key, the relay token and every open download.
// The encrypted mirror is kept for a later rejoin.
func (s *sessionService) Leave(ctx context.Context) error {
	s.mu.Lock()
	cur := s.current
	s.current = nil
	s.mu.Unlock()

	if cur == nil {
		return client.ErrNoSession
	}

	s.keys.Evict(cur.Code)
	s.client.Leave()
	s.files.ReleaseAll()

	if err := s.getMetadataRepo().SetLastSession(ctx, ""); err != nil {
		return err
	}

	s.logger.Info(ctx, "left session", "code", common.MaskSessionCode(cur.Code))
	return nil
}

// Current returns a copy of the session state and its key.
func (s *sessionService) Current() (*SessionState, cryptox.SessionKey, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur == nil {
		return nil, cryptox.SessionKey{}, client.ErrNoSession
	}

	key, err := s.keys.Get(cur.Code)
	if err != nil {
		return nil, cryptox.SessionKey{}, fmt.Errorf("derive session key: %w", err)
	}

	st := *cur
	return &st, key, nil
}

func (s *sessionService) LastSession(ctx context.Context) (string, error) {
	return s.getMetadataRepo().LastSession(ctx)
}

// Rename stores the new device name locally and, when joined online,
// publishes it sealed with the session key.
func (s *sessionService) Rename(ctx context.Context, name string) (string, error) {
	name, err := identity.NewStore(s.getMetadataRepo()).Rename(ctx, name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	cur := s.current
	if cur != nil {
		cur.DeviceName = name
	}
	s.mu.Unlock()

	if cur == nil || cur.Offline {
		return name, nil
	}

	key, err := s.keys.Get(cur.Code)
	if err != nil {
		return "", err
	}
	nameEnc, err := fieldcrypt.EncryptDeviceName(name, key)
	if err != nil {
		return "", err
	}
	if err := s.client.UpdateDevice(ctx, nameEnc); err != nil {
		return "", err
	}
	return name, nil
}

func (s *sessionService) Devices(ctx context.Context) ([]models.Device, error) {
	_, key, err := s.Current()
	if err != nil {
		return nil, err
	}

	rows, err := s.client.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	return fieldcrypt.DecryptDevices(rows, key), nil
}

func (s *sessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *sessionService) Touch(ctx context.Context) (time.Time, error) {
	return s.client.Touch(ctx)
}

// Close releases every resource and the relay connection.
func (s *sessionService) Close() error {
	s.files.ReleaseAll()
	s.keys.Purge()
	return s.client.Close()
}
