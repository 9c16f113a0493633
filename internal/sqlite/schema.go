// Package sqlite implements the SQLite backend for the deeds ledger.
package sqlite

// Schema DDL for all tables. Statements are idempotent so Attach can run
// them against an existing database file.
const (
	createProperties = `CREATE TABLE IF NOT EXISTS properties (
    property_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    location TEXT NOT NULL,
    total_shares INTEGER NOT NULL CHECK (total_shares > 0),
    price_per_share INTEGER NOT NULL CHECK (price_per_share >= 0),
    minted_by TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createHoldings = `CREATE TABLE IF NOT EXISTS holdings (
    property_id INTEGER NOT NULL,
    holder TEXT NOT NULL,
    shares INTEGER NOT NULL CHECK (shares >= 0),
    PRIMARY KEY (property_id, holder),
    FOREIGN KEY (property_id) REFERENCES properties(property_id)
);`

	createJournal = `CREATE TABLE IF NOT EXISTS journal (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id TEXT NOT NULL UNIQUE,
    operation TEXT NOT NULL,
    property_id INTEGER NOT NULL,
    sender TEXT,
    recipient TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    created_at TEXT NOT NULL,
    FOREIGN KEY (property_id) REFERENCES properties(property_id)
);`
)

// Index DDL for common queries.
const (
	idxJournalProperty = `CREATE INDEX IF NOT EXISTS idx_journal_property ON journal(property_id, seq);`
)

// Trigger DDL. Property records and journal entries are write-once.
const (
	trgPropertiesNoUpdate = `CREATE TRIGGER IF NOT EXISTS trg_properties_no_update
BEFORE UPDATE ON properties
BEGIN
    SELECT RAISE(ABORT, 'properties are immutable');
END;`

	trgPropertiesNoDelete = `CREATE TRIGGER IF NOT EXISTS trg_properties_no_delete
BEFORE DELETE ON properties
BEGIN
    SELECT RAISE(ABORT, 'properties are never deleted');
END;`

	trgJournalNoUpdate = `CREATE TRIGGER IF NOT EXISTS trg_journal_no_update
BEFORE UPDATE ON journal
BEGIN
    SELECT RAISE(ABORT, 'journal is append-only');
END;`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createProperties,
	createHoldings,
	createJournal,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxJournalProperty,
}

// triggerDDL lists all CREATE TRIGGER statements.
var triggerDDL = []string{
	trgPropertiesNoUpdate,
	trgPropertiesNoDelete,
	trgJournalNoUpdate,
}
