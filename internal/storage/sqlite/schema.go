package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	project_name TEXT NOT NULL,
	status       TEXT NOT NULL,
	created      TIMESTAMP NOT NULL,
	last_updated TIMESTAMP NOT NULL,
	document     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created);
`
