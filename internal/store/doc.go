// Package store provides the SQLite-backed generation ledger.
//
// The ledger records, per destination path, the fingerprint of the content
// ev-cli last wrote there. The update strategy compares it with the file on
// disk to tell regenerated files from hand-edited ones.
//
// # Patterns
//
//   - Paths are absolute and cleaned; they are the primary key.
//   - Writes are upserts, so recording the same generation twice is harmless.
//   - Listing queries use ORDER BY path ASC COLLATE BINARY for stable output.
//
// # Database Configuration
//
//   - WAL mode: Atomic commits survive an interrupted run
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Fingerprints are computed by ir.Fingerprint.
package store
