// Package keys persists per-video encryption key records in the local
// SQLite database. Bulk imports run inside a single transaction.
package keys
