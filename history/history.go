// Package history keeps finished transcriptions in a SQLite database under
// the user data directory so past dictations can be listed and searched.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one transcribed segment as it was injected.
type Entry struct {
	ID        int64
	SessionID string
	Index     uint64
	Text      string
	Audio     time.Duration
	Elapsed   time.Duration
	CreatedAt time.Time
}

type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// DefaultPath is the database location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "murmur", "history.db"), nil
}

// Open creates or opens the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, clock: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	ddl := `
CREATE TABLE IF NOT EXISTS transcriptions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    segment_index INTEGER NOT NULL,
    text TEXT NOT NULL,
    audio_ms INTEGER NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_created ON transcriptions(created_at);
`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record implements session.Recorder.
func (s *Store) Record(sessionID string, index uint64, text string, audio, elapsed time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO transcriptions(session_id, segment_index, text, audio_ms, elapsed_ms, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		sessionID, index, text, audio.Milliseconds(), elapsed.Milliseconds(),
		s.clock().UTC().Format(time.RFC3339Nano))
	return err
}

// Recent returns the latest limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, segment_index, text, audio_ms, elapsed_ms, created_at
		 FROM transcriptions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var audioMS, elapsedMS int64
		var created string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Index, &e.Text, &audioMS, &elapsedMS, &created); err != nil {
			return nil, err
		}
		e.Audio = time.Duration(audioMS) * time.Millisecond
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
