// Package history provides SQLite-based storage for training runs.
//
// Every completed training run is recorded with its parameters, holdout
// metrics, and the digest of the artifact it produced, so model provenance
// can be audited after the fact: which dataset, which seed, and which
// exact model bytes a deployment is serving.
//
// Design decision: SQLite via modernc.org/sqlite. The database is a single
// file, the driver is CGO-free for easy cross-compilation, and WAL mode
// gives good concurrent read performance for the history listing.
package history
