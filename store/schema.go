package store

// schemaSQL is the DDL for all tables.
const schemaSQL = `
-- Conversion runs, one row per processed source document
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    mode TEXT NOT NULL,
    id_width INTEGER NOT NULL,
    pages INTEGER DEFAULT 0,
    sections INTEGER DEFAULT 0,
    modules INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0,
    status TEXT DEFAULT 'running',
    error TEXT,
    output_dir TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Manifest rows for the data modules produced by each run
CREATE TABLE IF NOT EXISTS modules (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,
    filename TEXT NOT NULL,
    title TEXT NOT NULL,
    domain TEXT NOT NULL,
    domain_code TEXT NOT NULL,
    content_type TEXT NOT NULL,
    applicability TEXT,
    has_graphics INTEGER DEFAULT 0,
    start_page INTEGER,
    end_page INTEGER,
    summary TEXT,
    PRIMARY KEY (run_id, sequence)
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`
