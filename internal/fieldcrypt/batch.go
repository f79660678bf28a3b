package fieldcrypt

import (
	"context"
	"runtime"

	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"golang.org/x/sync/errgroup"
)

// DecryptItems decodes rows concurrently with at most limit rows in flight
// (limit <= 0 means GOMAXPROCS). Results keep the order of rows no matter in
// which order the work completes. Per-field failures never fail the batch;
// the only error is ctx cancellation, in which case partial results are
// discarded.
func DecryptItems(ctx context.Context, rows []models.ItemRow, key cryptox.SessionKey, limit int) ([]DecryptedItem, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]DecryptedItem, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = DecryptItemFields(rows[i], key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecryptDevices decodes device rows. Names are short, so this runs inline.
func DecryptDevices(rows []models.DeviceRow, key cryptox.SessionKey) []models.Device {
	out := make([]models.Device, 0, len(rows))
	for _, r := range rows {
		out = append(out, DecryptDevice(r, key))
	}
	return out
}
