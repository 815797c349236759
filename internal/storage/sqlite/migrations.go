package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Monetary values are stored as
// decimal TEXT, dates as unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    balance TEXT NOT NULL,
    currency TEXT NOT NULL,
    bank_info TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    wallet_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    type TEXT NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_splits (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    total_amount TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    payer_name TEXT NOT NULL DEFAULT '',
    split_type TEXT NOT NULL,
    date INTEGER NOT NULL,
    settled INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_participants (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    contact TEXT NOT NULL DEFAULT '',
    share TEXT NOT NULL,
    amount TEXT NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    FOREIGN KEY (bill_id) REFERENCES bill_splits(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS loans (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    type TEXT NOT NULL,
    counterpart TEXT NOT NULL,
    counterpart_contact TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL,
    interest_rate TEXT NOT NULL,
    start_date INTEGER NOT NULL,
    due_date INTEGER NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL,
    paid_amount TEXT NOT NULL,
    paid_at INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wallets_account_id ON wallets(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions(wallet_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_bill_splits_account_id ON bill_splits(account_id);
CREATE INDEX IF NOT EXISTS idx_bill_participants_bill_id ON bill_participants(bill_id);
CREATE INDEX IF NOT EXISTS idx_loans_account_id ON loans(account_id);
CREATE INDEX IF NOT EXISTS idx_loans_due_date ON loans(due_date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
