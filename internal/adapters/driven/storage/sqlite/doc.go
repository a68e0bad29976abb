// Package sqlite stores the sync journal in SQLite.
//
// The journal has one row per committed change of the shopping list: its
// origin, the entry count, whether it was published and the persistence
// error, if any. It backs the history command and is never read by the
// sync path itself.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.shoplist/files/journal.db
package sqlite
