// Package repositories holds the SQLite mappings for every table the reconcile service touches.
//
// Catalog tables are described as [stores.Table] values so the generic SQL store can reconcile them:
//   - [TrackTable] : tracks keyed by service-qualified string ID
//   - [PlaylistTable] : playlists keyed by numeric ID
//
// The sync run journal is a conventional repository:
//   - [RunRepository] : Append-only history of synchronization attempts
//
// Sequence numbers provide stable, human-readable ordering (e.g. run #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
