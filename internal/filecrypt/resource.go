package filecrypt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/filex"
	"github.com/google/uuid"
)

// URLPrefix starts every resource URL issued by a Registry.
const URLPrefix = "blob:clipshare/"

var (
	ErrResourceReleased = errors.New("resource released")
	ErrResourceNotFound = errors.New("resource not found")
)

// newID is a test seam.
var newID = func() string { return uuid.NewString() }

// Resource is an in-memory decrypted file reachable by URL until Release.
type Resource struct {
	url      string
	mimeType string
	registry *Registry

	mu       sync.RWMutex
	data     []byte
	released bool
}

// URL returns the blob:clipshare/<uuid> address of the resource.
func (r *Resource) URL() string { return r.url }

// MimeType is the type the resource was created with.
func (r *Resource) MimeType() string { return r.mimeType }

// Size is the plaintext length, 0 after Release.
func (r *Resource) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Open returns a reader over a copy of the plaintext.
func (r *Resource) Open() (io.Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.released {
		return nil, ErrResourceReleased
	}
	return bytes.NewReader(bytes.Clone(r.data)), nil
}

// Bytes returns a copy of the plaintext.
func (r *Resource) Bytes() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.released {
		return nil, ErrResourceReleased
	}
	return bytes.Clone(r.data), nil
}

// SaveTo writes the plaintext into dir under name (sanitized, never
// overwriting an existing file) and returns the path written.
func (r *Resource) SaveTo(dir, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.released {
		return "", ErrResourceReleased
	}

	target, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	id := strings.TrimPrefix(r.url, URLPrefix)
	if len(id) > 8 {
		id = id[:8]
	}
	fallback := "download-" + id
	path, err := filex.UniquePath(target, filex.SanitizeName(name, fallback))
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, r.data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Release wipes the plaintext and unregisters the resource. Calling it more
// than once is a no-op.
func (r *Resource) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	common.WipeByteArray(r.data)
	r.data = nil
	r.mu.Unlock()

	if r.registry != nil {
		r.registry.forget(r.url)
	}
}

// Registry owns the live resources of one client session.
type Registry struct {
	mu        sync.Mutex
	resources map[string]*Resource
}

func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]*Resource)}
}

// CreateDownloadResource decrypts env and registers the plaintext as a new
// resource. The caller must Release it when it is no longer shown.
func (g *Registry) CreateDownloadResource(env cryptox.Envelope, key cryptox.SessionKey, mimeType string) (*Resource, error) {
	data, err := DecryptFile(env, key, mimeType)
	if err != nil {
		return nil, err
	}

	r := &Resource{
		url:      URLPrefix + newID(),
		mimeType: mimeType,
		registry: g,
		data:     data,
	}

	g.mu.Lock()
	g.resources[r.url] = r
	g.mu.Unlock()

	return r, nil
}

// Resolve looks up a live resource by URL.
func (g *Registry) Resolve(url string) (*Resource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.resources[url]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return r, nil
}

// Len is the number of live resources.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.resources)
}

// ReleaseAll releases every live resource, e.g. when the session is left.
func (g *Registry) ReleaseAll() {
	g.mu.Lock()
	live := make([]*Resource, 0, len(g.resources))
	for _, r := range g.resources {
		live = append(live, r)
	}
	g.mu.Unlock()

	for _, r := range live {
		r.Release()
	}
}

func (g *Registry) forget(url string) {
	g.mu.Lock()
	delete(g.resources, url)
	g.mu.Unlock()
}
