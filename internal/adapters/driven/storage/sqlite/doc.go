// Package sqlite provides the SQLite-backed state database for folio.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It currently implements driven.SchedulerStore: scheduled
// task state and execution history, so task timing and failures survive
// restarts and can be inspected with `folio tasks`.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database is stored at <state.dir>/state.db. Without state.dir no
// database is opened and state is kept in memory.
package sqlite
