// ABOUTME: Sync journal persistence
// ABOUTME: Records every remote sync attempt and its outcome for inspection
package db

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// SyncEntry is one recorded remote sync attempt. Entries are observational
// only: nothing reconciles the local collection from them.
type SyncEntry struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id,omitempty"`
	Operation string    `json:"operation"`
	Stage     string    `json:"stage,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// newEntryID generates a time-sortable ulid so the journal reads in order.
func newEntryID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func RecordSync(db *sql.DB, entry *SyncEntry) error {
	entry.ID = newEntryID()
	entry.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO sync_journal (id, deal_id, operation, stage, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.DealID, entry.Operation, entry.Stage, entry.Outcome, entry.Detail, entry.CreatedAt)

	return err
}

func RecentEntries(db *sql.DB, limit int) ([]SyncEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, deal_id, operation, stage, outcome, detail, created_at
		FROM sync_journal
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SyncEntry
	for rows.Next() {
		var e SyncEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Operation, &e.Stage, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
