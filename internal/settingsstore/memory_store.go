package settingsstore

import (
	"context"
	"errors"
	"sync"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
)

// ErrNotInitialized is returned by stores used before Initialize or after Close.
var ErrNotInitialized = errors.New("settings store is not initialized")

// MemoryStore keeps settings in process memory. It behaves like the SQLite
// store, including the install and update migrations, and is meant for
// tests and embedding.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]string
}

var _ SettingsStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with rows, as if a database holding
// them had just been opened. Call Initialize before use.
func NewMemoryStore(rows map[string]string) *MemoryStore {
	copied := make(map[string]string, len(rows))
	for k, v := range rows {
		copied[k] = v
	}
	return &MemoryStore{rows: copied}
}

// Initialize runs the install or update migration; dbPath is ignored.
func (m *MemoryStore) Initialize(string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rows == nil {
		m.rows = make(map[string]string)
	}

	if len(m.rows) == 0 {
		m.rows = mustEncode(settings.Defaults())
		return nil
	}

	stored, err := decodeStored(m.rows)
	if err != nil {
		return errortypes.DatabaseError(err, "failed to migrate settings")
	}
	encoded, err := encodeSettings(settings.Merge(stored))
	if err != nil {
		return errortypes.DatabaseError(err, "failed to migrate settings")
	}
	m.rows = encoded
	return nil
}

// Load returns the stored settings with defaults filled in.
func (m *MemoryStore) Load(context.Context) (settings.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.rows == nil {
		return settings.Settings{}, errortypes.DatabaseError(ErrNotInitialized, "failed to load settings")
	}
	stored, err := decodeStored(m.rows)
	if err != nil {
		return settings.Settings{}, errortypes.DatabaseError(err, "failed to decode settings")
	}
	return settings.Merge(stored), nil
}

// Save stores the normalized snapshot.
func (m *MemoryStore) Save(_ context.Context, snapshot settings.Settings) error {
	encoded, err := encodeSettings(snapshot.Normalized())
	if err != nil {
		return errortypes.InternalError(err, "failed to encode settings")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		return errortypes.DatabaseError(ErrNotInitialized, "failed to save settings")
	}
	m.rows = encoded
	return nil
}

// Close drops the stored settings.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	return nil
}
