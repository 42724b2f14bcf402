// ABOUTME: Store construction shared by every subcommand
// ABOUTME: Wires the Zoho adapter, sync journal, and persisted config into one store
package cli

import (
	"database/sql"
	"log"

	"github.com/leduardoseverino/performancy/config"
	"github.com/leduardoseverino/performancy/db"
	"github.com/leduardoseverino/performancy/store"
	"github.com/leduardoseverino/performancy/zoho"
)

// journalRecorder bridges the store's sync records into the SQLite journal.
type journalRecorder struct {
	conn *sql.DB
}

func (j *journalRecorder) RecordSync(r store.SyncRecord) {
	entry := &db.SyncEntry{
		DealID:    r.DealID,
		Operation: r.Operation,
		Stage:     r.Stage,
		Outcome:   r.Outcome,
		Detail:    r.Detail,
	}
	if err := db.RecordSync(j.conn, entry); err != nil {
		log.Printf("failed to record sync entry: %v", err)
	}
}

// BuildStore constructs the process-wide store: Zoho adapter injected,
// journal attached when the database opens, demo data seeded, and the CRM
// connected when a valid saved config exists. The returned cleanup closes
// the journal database.
func BuildStore(journalPath string) (*store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	var opts []store.Option
	cleanup := func() {}

	database, err := db.OpenDatabase(journalPath)
	if err != nil {
		// The journal is observability, not a dependency; run without it.
		log.Printf("warning: sync journal unavailable: %v", err)
	} else {
		opts = append(opts, store.WithJournal(&journalRecorder{conn: database}))
		cleanup = func() { _ = database.Close() }
	}

	st := store.New(zoho.New(), opts...)
	st.SeedDemo()

	if cfg.Zoho != nil {
		if err := config.ValidateZoho(*cfg.Zoho); err != nil {
			log.Printf("warning: saved zoho config invalid, staying offline: %v", err)
		} else {
			st.Connect(*cfg.Zoho)
		}
	}

	return st, cleanup, nil
}
