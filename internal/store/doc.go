// Package store provides SQLite-backed durable storage for queue records.
//
// The store is a row store keyed by an auto-incrementing integer id:
//   - Records: (id INTEGER PRIMARY KEY AUTOINCREMENT, value TEXT)
//   - Ids are allocated by SQLite and never reused, even after deletes
//   - Range queries (MIN/MAX/next id) give the ascending-id order
//
// The store knows nothing about queue semantics. FIFO order, head access and
// iteration are built on top of it by package table.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance (configurable)
//   - busy_timeout=5000: Wait for locks up to 5 seconds (configurable)
//   - One pooled connection: SQLite has a single writer
//
// # Schema Versioning
//
// PRAGMA user_version holds the schema version. A database stamped with a
// different non-zero version has its queue table dropped and recreated.
// There is no data-preserving migration path.
package store
