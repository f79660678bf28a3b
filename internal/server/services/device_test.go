package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceService(t *testing.T) {
	stubTx(t)
	st := newMemStore()
	sess := NewSessionService(nil, fakeManager{st}, testConfig())
	svc := NewDeviceService(nil, fakeManager{st})
	ctx := context.Background()

	_, err := sess.Join(ctx, code, "host", strp("h"), true)
	require.NoError(t, err)
	_, err = sess.Join(ctx, code, "guest", nil, false)
	require.NoError(t, err)

	list, err := svc.List(ctx, code)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "host", list[0].DeviceID)
	assert.Nil(t, list[1].DeviceNameEncrypted)

	require.NoError(t, svc.Rename(ctx, code, "guest", strp("g")))
	list, err = svc.List(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "g", *list[1].DeviceNameEncrypted)

	assert.ErrorIs(t, svc.Rename(ctx, code, "ghost", strp("x")), common.ErrorNotFound)
}
