// Package sqlite adapts the upstream index database: the capture stage
// stores per-request rows in current_network_requests and
// archive_network_requests, and this package reads those plus persists the
// comparison output back into the same file.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the index database and creates the comparison output tables if
// they are missing. The capture-stage tables are never created here; their
// schema belongs to the upstream tooling.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index database %s: %w", path, err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comparison_requests (
			archiveID INT, urlID INT, label TEXT, side TEXT, url TEXT,
			counterpartURL TEXT, currentStatus INT, archivedStatus INT,
			similarity REAL)`,
		`CREATE TABLE IF NOT EXISTS page_scores (
			archiveID INT, urlID INT, matchedSame INT, matchedChanged INT,
			unmatched INT, extra INT, score REAL,
			PRIMARY KEY (archiveID, urlID))`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating comparison tables: %w", err)
		}
	}
	return db, nil
}
