package snapshot

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey is the slot every device's cart is stored under.
const DefaultKey = "cart"

// ErrNotFound is returned by Storage.Load when no snapshot exists.
var ErrNotFound = errors.New("snapshot not found")

// Storage is a per-device key/value slot holding serialized carts.
type Storage interface {
	Load(ctx context.Context, deviceID, key string) ([]byte, error)
	Save(ctx context.Context, deviceID, key string, payload []byte) error
}

// MemoryStorage keeps snapshots in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, deviceID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.slots[memoryKey(deviceID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryStorage) Save(_ context.Context, deviceID, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[memoryKey(deviceID, key)] = append([]byte(nil), payload...)
	return nil
}

func memoryKey(deviceID, key string) string {
	return deviceID + "/" + key
}
