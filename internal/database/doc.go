// Package database provides SQLite-based storage for selfcheck.
//
// This package implements the ReportDB, an archive of generated assessment
// reports used by the history and compare commands. Only derived reports
// are stored; an archived report is never turned back into a session.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
