package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/repositories/items"
	"github.com/dmitrijs2005/clipshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/export"
	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/google/uuid"
)

const (
	// MaxFileSize bounds the body accepted by SendFile.
	MaxFileSize = 25 << 20

	// syncPageSize matches the relay's list limit.
	syncPageSize = 500

	// syncOverlap is re-read behind the cursor on every incremental sync.
	// Relay timestamps are taken at transaction start, so a row may become
	// visible after newer rows were already pulled.
	syncOverlap = time.Minute
)

var (
	ErrEmptyContent = errors.New("content is empty")
	ErrFileTooLarge = errors.New("file is too large")
	ErrNotAFile     = errors.New("item is not a file")
	ErrAmbiguousRef = errors.New("reference matches more than one item")
	// ErrStale is returned by List when the session changed or a newer List
	// started while this one was decrypting.
	ErrStale = errors.New("result is stale")
)

// test seams
var (
	now   = time.Now
	newID = func() string { return uuid.NewString() }
)

// ClipOptions tunes a ClipService.
type ClipOptions struct {
	Concurrency int
	DownloadDir string
	S3          export.S3Config
}

// ClipService sends and reads the items of the current session.
type ClipService interface {
	SendText(ctx context.Context, kind models.ItemKind, content string) (string, error)
	SendFile(ctx context.Context, path string) (string, error)
	Sync(ctx context.Context, full bool) (int, error)
	List(ctx context.Context) ([]fieldcrypt.DecryptedItem, error)
	Show(ctx context.Context, ref string) (*fieldcrypt.DecryptedItem, error)
	Download(ctx context.Context, ref, dir string) (string, error)
	Delete(ctx context.Context, ref string) error
	Export(ctx context.Context, format export.Format, dest string) (int, error)
}

type clipService struct {
	client   client.Client
	db       *sql.DB
	sessions SessionService
	files    *filecrypt.Registry
	opts     ClipOptions
	logger   logging.Logger

	generation atomic.Uint64
}

func NewClipService(c client.Client, db *sql.DB, sessions SessionService, files *filecrypt.Registry, opts ClipOptions, l logging.Logger) ClipService {
	return &clipService{
		client:   c,
		db:       db,
		sessions: sessions,
		files:    files,
		opts:     opts,
		logger:   l.With("module", "clips"),
	}
}

func (s *clipService) getItemsRepo(db dbx.DBTX) items.Repository {
	return items.NewSQLiteRepository(db)
}

func (s *clipService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// SendText shares a text or code snippet and returns its label.
func (s *clipService) SendText(ctx context.Context, kind models.ItemKind, content string) (string, error) {
	if kind != models.ItemKindText && kind != models.ItemKindCode {
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidItemKind, kind)
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	return s.send(ctx, models.Item{Kind: kind, Content: content}, nil)
}

// SendFile reads path, seals its body and metadata, and shares it.
func (s *clipService) SendFile(ctx context.Context, path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, fi.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(data)

	name := filepath.Base(path)
	mimeType := detectMimeType(name, data)

	_, key, err := s.sessions.Current()
	if err != nil {
		return "", err
	}

	ef, err := filecrypt.EncryptFile(data, mimeType, name, key)
	if err != nil {
		return "", err
	}

	size := ef.Size
	item := models.Item{
		Kind:         models.ItemKindFile,
		FileName:     ef.FileName,
		FileMimeType: ef.MimeType,
		FileSize:     &size,
	}
	body := string(ef.EncryptedData)
	return s.send(ctx, item, &body)
}

func detectMimeType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	if len(data) == 0 {
		return fieldcrypt.DefaultMimeType
	}
	return http.DetectContentType(data)
}

func (s *clipService) send(ctx context.Context, item models.Item, body *string) (string, error) {
	st, key, err := s.sessions.Current()
	if err != nil {
		return "", err
	}
	if st.Offline {
		return "", client.ErrUnavailable
	}

	display, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}

	t := now().UTC()
	item.ID = newID()
	item.SessionCode = st.Code
	item.DeviceID = st.DeviceID
	item.CreatedAt = t
	item.UpdatedAt = t
	item.DisplayID = display

	row, err := fieldcrypt.EncryptItemFields(item, key)
	if err != nil {
		return "", err
	}
	row.FileDataEncrypted = body

	resp, err := s.client.PutItem(ctx, row)
	if err != nil {
		return "", err
	}
	row.ID = resp.ID
	row.CreatedAt = resp.CreatedAt

	if err := s.getItemsRepo(s.db).Upsert(ctx, row); err != nil {
		return "", fmt.Errorf("mirror item: %w", err)
	}

	s.logger.Debug(ctx, "item sent", "id", row.ID, "kind", item.Kind)
	return "#" + display, nil
}

// Sync pulls items stored on the relay since the last cursor into the local
// mirror and returns how many new rows arrived. A full sync starts from
// scratch, drops mirrored rows the relay no longer has and counts every row
// it reloaded.
func (s *clipService) Sync(ctx context.Context, full bool) (int, error) {
	st, _, err := s.sessions.Current()
	if err != nil {
		return 0, err
	}
	if st.Offline {
		return 0, client.ErrUnavailable
	}

	var cursor time.Time
	if !full {
		cursor, err = s.getMetadataRepo(s.db).Cursor(ctx, st.Code)
		if err != nil {
			return 0, err
		}
	}

	var after models.ItemCursor
	if !cursor.IsZero() {
		after.CreatedAt = cursor.Add(-syncOverlap)
	}

	var pulled []models.ItemRow
	for {
		rows, err := s.client.ListItems(ctx, after, syncPageSize)
		if err != nil {
			return 0, err
		}
		pulled = append(pulled, rows...)
		if len(rows) == 0 {
			break
		}
		after = models.CursorOf(rows[len(rows)-1])
		if after.CreatedAt.After(cursor) {
			cursor = after.CreatedAt
		}
		if len(rows) < syncPageSize {
			break
		}
	}

	if len(pulled) == 0 && !full {
		return 0, nil
	}

	arrived := len(pulled)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getItemsRepo(tx)
		if full {
			if err := repo.DeleteSession(ctx, st.Code); err != nil {
				return err
			}
		} else {
			known, err := repo.List(ctx, st.Code)
			if err != nil {
				return err
			}
			arrived = countNew(pulled, known)
		}
		if err := repo.Upsert(ctx, pulled...); err != nil {
			return err
		}
		if cursor.IsZero() {
			return nil
		}
		return s.getMetadataRepo(tx).SetCursor(ctx, st.Code, cursor)
	})
	if err != nil {
		return 0, fmt.Errorf("mirror sync: %w", err)
	}

	s.logger.Debug(ctx, "synced", "code", common.MaskSessionCode(st.Code), "rows", len(pulled), "new", arrived, "full", full)
	return arrived, nil
}

func countNew(pulled, known []models.ItemRow) int {
	seen := make(map[string]struct{}, len(known))
	for _, r := range known {
		seen[r.ID] = struct{}{}
	}
	n := 0
	for _, r := range pulled {
		if _, ok := seen[r.ID]; !ok {
			n++
			seen[r.ID] = struct{}{}
		}
	}
	return n
}

// List syncs when the relay is reachable and decrypts the mirror, newest
// first. Items that fail to decrypt are returned with placeholder fields.
func (s *clipService) List(ctx context.Context) ([]fieldcrypt.DecryptedItem, error) {
	gen := s.generation.Add(1)

	st, key, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}

	if _, err := s.Sync(ctx, false); err != nil {
		s.logger.Warn(ctx, "sync failed, listing local mirror", "error", err)
	}

	out, err := s.decryptMirror(ctx, st.Code, key)
	if err != nil {
		return nil, err
	}

	if cur, _, err := s.sessions.Current(); err != nil || cur.Code != st.Code || s.generation.Load() != gen {
		return nil, ErrStale
	}
	return out, nil
}

func (s *clipService) decryptMirror(ctx context.Context, code string, key cryptox.SessionKey) ([]fieldcrypt.DecryptedItem, error) {
	rows, err := s.getItemsRepo(s.db).List(ctx, code)
	if err != nil {
		return nil, err
	}
	return fieldcrypt.DecryptItems(ctx, rows, key, s.opts.Concurrency)
}

// Show finds an item by "#display", display id, full id or an unambiguous id
// prefix of at least four characters.
func (s *clipService) Show(ctx context.Context, ref string) (*fieldcrypt.DecryptedItem, error) {
	st, key, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}

	all, err := s.decryptMirror(ctx, st.Code, key)
	if err != nil {
		return nil, err
	}

	return resolveRef(all, ref)
}

func resolveRef(all []fieldcrypt.DecryptedItem, ref string) (*fieldcrypt.DecryptedItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, common.ErrorNotFound
	}
	label := ref
	if !strings.HasPrefix(label, "#") {
		label = "#" + label
	}

	var prefixed []int
	for i := range all {
		it := &all[i]
		if it.ID == ref || it.Label() == label {
			return it, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(it.ID, ref) {
			prefixed = append(prefixed, i)
		}
	}

	switch len(prefixed) {
	case 0:
		return nil, fmt.Errorf("item %s: %w", ref, common.ErrorNotFound)
	case 1:
		return &all[prefixed[0]], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
}

// Download decrypts the body of a file item into dir and returns the path.
// The plaintext lives only as long as the write.
func (s *clipService) Download(ctx context.Context, ref, dir string) (string, error) {
	_, key, err := s.sessions.Current()
	if err != nil {
		return "", err
	}

	it, err := s.Show(ctx, ref)
	if err != nil {
		return "", err
	}
	if it.Kind != models.ItemKindFile {
		return "", ErrNotAFile
	}
	if it.FileData == nil {
		return "", filecrypt.ErrFileUnavailable
	}

	res, err := s.files.CreateDownloadResource(*it.FileData, key, it.FileMimeType.Value)
	if err != nil {
		return "", err
	}
	defer res.Release()

	if dir == "" {
		dir = s.opts.DownloadDir
	}

	var name string
	if it.FileName.OK() {
		name = it.FileName.Value
	}
	return res.SaveTo(dir, name)
}

// Delete removes an item from the relay and from the mirror.
func (s *clipService) Delete(ctx context.Context, ref string) error {
	st, _, err := s.sessions.Current()
	if err != nil {
		return err
	}

	it, err := s.Show(ctx, ref)
	if err != nil {
		return err
	}

	if err := s.client.DeleteItem(ctx, it.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return s.getItemsRepo(s.db).Delete(ctx, st.Code, it.ID)
}

// Export writes the mirrored items of the session to dest and returns how
// many were written.
func (s *clipService) Export(ctx context.Context, format export.Format, dest string) (n int, err error) {
	st, key, err := s.sessions.Current()
	if err != nil {
		return 0, err
	}

	if _, err := s.Sync(ctx, false); err != nil {
		s.logger.Warn(ctx, "sync failed, exporting local mirror", "error", err)
	}

	rows, err := s.getItemsRepo(s.db).List(ctx, st.Code)
	if err != nil {
		return 0, err
	}

	w, err := export.OpenSink(ctx, dest, s.opts.S3, export.ContentType(format))
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := export.Export(ctx, rows, key, format, w); err != nil {
		return 0, err
	}
	return len(rows), nil
}
