package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Problems and answers are stored as JSON arrays; answer order is
// significant and must survive round-trips.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conferences (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    abbr TEXT NOT NULL,
    logo TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assignments (
    id TEXT PRIMARY KEY,
    conference_id TEXT NOT NULL,
    title TEXT NOT NULL,
    problems TEXT NOT NULL,
    deadline INTEGER NOT NULL,
    assignee_id TEXT NOT NULL,
    submitted INTEGER NOT NULL DEFAULT 0,
    answers TEXT,
    answers_seq INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (conference_id) REFERENCES conferences(id) ON DELETE CASCADE,
    FOREIGN KEY (assignee_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    conference_id TEXT NOT NULL,
    payee_id TEXT NOT NULL,
    ident TEXT NOT NULL,
    total REAL NOT NULL,
    description TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('waiting', 'paid', 'closed')),
    created_at INTEGER NOT NULL,
    confirmed_at INTEGER,
    FOREIGN KEY (conference_id) REFERENCES conferences(id) ON DELETE CASCADE,
    FOREIGN KEY (payee_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS discounts (
    payment_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    until INTEGER,
    PRIMARY KEY (payment_id, position),
    FOREIGN KEY (payment_id) REFERENCES payments(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assignments_assignee_id ON assignments(assignee_id);
CREATE INDEX IF NOT EXISTS idx_assignments_conference_id ON assignments(conference_id);
CREATE INDEX IF NOT EXISTS idx_payments_payee_id ON payments(payee_id);
CREATE INDEX IF NOT EXISTS idx_discounts_payment_id ON discounts(payment_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
