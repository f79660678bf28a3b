// Package services contains the relay business logic. Nothing here decrypts:
// the relay routes envelopes by session code and device id only.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/server/auth"
	"github.com/dmitrijs2005/clipshare/internal/server/config"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/repomanager"
)

// MaxDeviceIDLength bounds client supplied device ids.
const MaxDeviceIDLength = 64

// withTx is a seam so services can be tested with fake repositories.
var withTx = dbx.WithTx

// JoinResult is the outcome of a successful Join.
type JoinResult struct {
	AccessToken string
	Session     models.Session
	IsHost      bool
}

type SessionService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		now:           time.Now,
	}
}

// Join registers deviceID in the session and issues a token bound to both.
// With create set the session is created and the device becomes its host;
// otherwise the session must already exist.
func (s *SessionService) Join(ctx context.Context, code, deviceID string, nameEncrypted *string, create bool) (*JoinResult, error) {
	if err := common.ValidateSessionCode(code); err != nil {
		return nil, err
	}
	if err := validateDeviceID(deviceID); err != nil {
		return nil, err
	}

	var res JoinResult

	err := withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		sessRepo := s.repomanager.Sessions(tx)

		if create {
			sess := &models.Session{Code: code, HostDeviceID: deviceID}
			if err := sessRepo.Create(ctx, sess); err != nil {
				return err
			}
			res.Session = *sess
		} else {
			sess, err := sessRepo.Get(ctx, code)
			if err != nil {
				return err
			}
			res.Session = *sess
		}

		dev := &models.DeviceRow{
			SessionCode:         code,
			DeviceID:            deviceID,
			IsHost:              res.Session.HostDeviceID == deviceID,
			DeviceNameEncrypted: nameEncrypted,
		}
		if err := s.repomanager.Devices(tx).Upsert(ctx, dev); err != nil {
			return err
		}
		res.IsHost = dev.IsHost
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: join: %v", common.ErrorInternal, err)
	}

	token, err := auth.GenerateToken(auth.Subject{SessionCode: code, DeviceID: deviceID}, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	res.AccessToken = token

	return &res, nil
}

// Touch records that the device is alive and returns the server time.
func (s *SessionService) Touch(ctx context.Context, code, deviceID string) (time.Time, error) {
	now := s.now().UTC()
	if err := s.repomanager.Devices(s.db).Touch(ctx, code, deviceID, now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func validateDeviceID(id string) error {
	if id == "" || len(id) > MaxDeviceIDLength {
		return common.ErrorInvalidDeviceID
	}
	return nil
}
