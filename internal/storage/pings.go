package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrStorage indicates the ping log could not be read or written.
var ErrStorage = errors.New("storage failure")

const currentVersion = 1

// PingLog is an append-only store of activity timestamps. Timestamps are
// unique: recording one that already exists is a no-op.
type PingLog struct {
	db *sql.DB
}

// OpenPingLog opens (or creates) the SQLite database at dbPath and runs
// migrations.
func OpenPingLog(dbPath string) (*PingLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	log := &PingLog{db: db}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return log, nil
}

// OpenMemoryPingLog creates an in-memory ping log for testing.
func OpenMemoryPingLog() (*PingLog, error) {
	return OpenPingLog(":memory:")
}

// Close releases the underlying database handle.
func (log *PingLog) Close() error {
	return log.db.Close()
}

// RecordPing inserts the timestamp if absent. Duplicate inserts are silently
// ignored.
func (log *PingLog) RecordPing(timestamp int64) error {
	_, err := log.db.Exec(`INSERT OR IGNORE INTO usage_pings (timestamp) VALUES (?)`, timestamp)
	if err != nil {
		return fmt.Errorf("record ping: %w: %v", ErrStorage, err)
	}
	return nil
}

// PingsBetween returns all recorded timestamps in [start, end] inclusive,
// ascending. An empty range yields an empty sequence.
func (log *PingLog) PingsBetween(start, end int64) ([]int64, error) {
	rows, err := log.db.Query(
		`SELECT timestamp FROM usage_pings WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query pings: %w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var pings []int64
	for rows.Next() {
		var timestamp int64
		if err := rows.Scan(&timestamp); err != nil {
			return nil, fmt.Errorf("scan ping: %w: %v", ErrStorage, err)
		}
		pings = append(pings, timestamp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pings: %w: %v", ErrStorage, err)
	}
	return pings, nil
}

func (log *PingLog) migrate() error {
	var version int
	if err := log.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		const ddl = `
		CREATE TABLE IF NOT EXISTS usage_pings (
			timestamp INTEGER PRIMARY KEY
		);`
		if _, err := log.db.Exec(ddl); err != nil {
			return err
		}
	}

	_, err := log.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// DefaultDBPath returns the ping database location under the user config dir.
func DefaultDBPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, "usage.db"), nil
}
