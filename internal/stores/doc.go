// Package stores implements [reconcile.Store] over three backends.
//
// Key Implementations:
//   - [MemoryStore] : In-memory table used for dry runs and tests
//   - [SQLStore] : Hand-written statements over database/sql, driven by a [Table] descriptor
//   - [GormStore] : gorm.io/gorm models, works with any dialect gorm supports
//
// All three track entities passed to SetValues as pending and write them on Commit.
// Discard drops pending changes without writing them; MemoryStore also restores the values
// they overwrote. SQLStore and GormStore split key lookups and deletes into batches so no
// IN list exceeds the configured batch size.
//
// [reconcile.Store]: github.com/desertthunder/reconcile/internal/reconcile.Store
package stores
