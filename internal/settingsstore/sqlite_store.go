package settingsstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
)

// SQLiteSettingsStore is an implementation of SettingsStore that uses SQLite.
// A single connection is shared and guarded by a mutex.
type SQLiteSettingsStore struct {
	conn   *sqlite.Conn
	dbPath string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ SettingsStore = (*SQLiteSettingsStore)(nil)

// NewSQLiteSettingsStore creates a new SQLiteSettingsStore instance.
func NewSQLiteSettingsStore(logger *slog.Logger) *SQLiteSettingsStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLiteSettingsStore{logger: logger.With("component", "settingsstore")}
}

// Initialize opens the database at dbPath. A fresh database is seeded with
// the defaults; an existing one gets the update migration, which merges
// defaults under the stored values and drops the legacy single key.
func (s *SQLiteSettingsStore) Initialize(dbPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return errortypes.DatabaseError(err, "failed to open SQLite database").WithField("path", dbPath)
	}
	s.conn = conn

	if err := s.createTable(); err != nil {
		s.conn.Close()
		s.conn = nil
		return errortypes.DatabaseError(err, "failed to create table")
	}

	rows, err := s.readRows()
	if err != nil {
		s.conn.Close()
		s.conn = nil
		return errortypes.DatabaseError(err, "failed to read settings")
	}

	if len(rows) == 0 {
		s.logger.Info("installing default settings", "path", dbPath)
		err = s.writeRows(mustEncode(settings.Defaults()), false)
	} else {
		err = s.migrate(rows)
	}
	if err != nil {
		s.conn.Close()
		s.conn = nil
		return errortypes.DatabaseError(err, "failed to migrate settings")
	}

	return nil
}

// createTable creates the settings table if it doesn't exist.
func (s *SQLiteSettingsStore) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	stmt, err := s.conn.Prepare(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare create table statement: %w", err)
	}
	defer stmt.Reset()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute create table statement: %w", err)
	}
	return nil
}

func (s *SQLiteSettingsStore) migrate(rows map[string]string) error {
	stored, err := decodeStored(rows)
	if err != nil {
		return err
	}

	merged := settings.Merge(stored)
	_, legacy := rows[KeyLegacyAPIKey]
	if legacy {
		s.logger.Info("migrating legacy api key", "provider", string(merged.APIType))
	}

	encoded, err := encodeSettings(merged)
	if err != nil {
		return err
	}
	return s.writeRows(encoded, legacy)
}

// readRows returns every stored key/value pair.
func (s *SQLiteSettingsStore) readRows() (map[string]string, error) {
	stmt, err := s.conn.Prepare(`SELECT key, value FROM settings;`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	rows := make(map[string]string)
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			break
		}
		rows[stmt.ColumnText(0)] = stmt.ColumnText(1)
	}
	return rows, nil
}

// writeRows upserts rows in one savepoint, optionally dropping the legacy key.
func (s *SQLiteSettingsStore) writeRows(rows map[string]string, dropLegacy bool) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := s.upsert(key, rows[key]); err != nil {
			return err
		}
	}

	if dropLegacy {
		if err := sqlitex.Exec(s.conn, `DELETE FROM settings WHERE key = ?;`, nil, KeyLegacyAPIKey); err != nil {
			return fmt.Errorf("failed to delete legacy key: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSettingsStore) upsert(key, value string) error {
	stmt, err := s.conn.Prepare(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	// indices in sqlite are 1-based
	stmt.BindText(1, key)
	stmt.BindText(2, value)

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Load returns the stored settings with defaults filled in. Every call
// reads the database.
func (s *SQLiteSettingsStore) Load(ctx context.Context) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return settings.Settings{}, errortypes.DatabaseError(ErrNotInitialized, "failed to load settings")
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	rows, err := s.readRows()
	if err != nil {
		return settings.Settings{}, errortypes.DatabaseError(err, "failed to load settings")
	}
	stored, err := decodeStored(rows)
	if err != nil {
		return settings.Settings{}, errortypes.DatabaseError(err, "failed to decode settings")
	}
	return settings.Merge(stored), nil
}

// Save normalizes snapshot and writes it in a single savepoint.
func (s *SQLiteSettingsStore) Save(ctx context.Context, snapshot settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return errortypes.DatabaseError(ErrNotInitialized, "failed to save settings")
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	encoded, err := encodeSettings(snapshot.Normalized())
	if err != nil {
		return errortypes.InternalError(err, "failed to encode settings")
	}
	if err := s.writeRows(encoded, true); err != nil {
		return errortypes.DatabaseError(err, "failed to save settings")
	}

	s.logger.Debug("settings saved", "provider", string(snapshot.APIType))
	return nil
}

// Close closes the store and releases any resources.
func (s *SQLiteSettingsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func mustEncode(snapshot settings.Settings) map[string]string {
	rows, err := encodeSettings(snapshot)
	if err != nil {
		panic(err)
	}
	return rows
}
