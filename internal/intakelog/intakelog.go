// Package intakelog keeps an append-only operational record of intake
// activity: uploads, report generations, escalations, and notification
// outcomes. It records events only; session state itself is never persisted
// and dies with the process.
package intakelog

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type EventKind string

const (
	EventUploaded          EventKind = "uploaded"
	EventUploadNoticeError EventKind = "upload_notice_error"
	EventReportGenerated   EventKind = "report_generated"
	EventGenerationError   EventKind = "generation_error"
	EventEscalated         EventKind = "escalated"
	EventEscalationError   EventKind = "escalation_error"
)

type Event struct {
	ID        int64  `db:"id"`
	Token     string `db:"token"`
	Kind      string `db:"kind"`
	Filename  string `db:"filename"`
	Detail    string `db:"detail"`
	CreatedAt string `db:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS intake_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	token      TEXT NOT NULL,
	kind       TEXT NOT NULL,
	filename   TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_intake_events_token ON intake_events(token);
`

type Log struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Log, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init intake log schema: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one event. Failures here must never block the workflow;
// callers log and move on.
func (l *Log) Record(token string, kind EventKind, filename, detail string) error {
	_, err := l.db.Exec(
		`INSERT INTO intake_events (token, kind, filename, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		token, string(kind), filename, detail, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record intake event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	var events []Event
	err := l.db.Select(&events,
		`SELECT id, token, kind, filename, detail, created_at FROM intake_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query intake events: %w", err)
	}
	return events, nil
}

// ForToken returns all events for one session token, oldest first.
func (l *Log) ForToken(token string) ([]Event, error) {
	var events []Event
	err := l.db.Select(&events,
		`SELECT id, token, kind, filename, detail, created_at FROM intake_events WHERE token = ? ORDER BY id ASC`, token)
	if err != nil {
		return nil, fmt.Errorf("query intake events: %w", err)
	}
	return events, nil
}
