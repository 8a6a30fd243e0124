package store

// The id column is the resequenced insert position assigned during a
// refresh, not the catalog identifier; authors rows link back through
// it. Both tables are rebuilt wholesale on every refresh.
const Schema = `
CREATE TABLE IF NOT EXISTS publications (
	id INTEGER PRIMARY KEY,
	oclc TEXT NOT NULL,
	title TEXT NOT NULL,
	isbns TEXT,  -- JSON array
	description TEXT,
	cover BLOB
);

CREATE TABLE IF NOT EXISTS authors (
	id INTEGER NOT NULL,
	author TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_authors_id ON authors(id);
`
