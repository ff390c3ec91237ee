package attachments

import (
	"context"
	"path"
	"sync"

	"github.com/google/uuid"
)

type blob struct {
	data []byte
	meta Metadata
}

// Memory keeps attachments in process memory. URLs are only valid for
// the lifetime of this process, matching the ephemeral object URLs the
// reference UI generates in the browser.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]blob)}
}

func (m *Memory) Store(_ context.Context, data []byte, meta Metadata) (string, error) {
	id := uuid.NewString()
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.blobs[id] = blob{data: cp, meta: meta}
	m.mu.Unlock()
	return "/api/attachments/" + id, nil
}

func (m *Memory) Fetch(_ context.Context, url string) ([]byte, Metadata, error) {
	m.mu.RLock()
	b, ok := m.blobs[path.Base(url)]
	m.mu.RUnlock()
	if !ok {
		return nil, Metadata{}, ErrNotFound
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp, b.meta, nil
}
