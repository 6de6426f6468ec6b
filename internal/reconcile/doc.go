// Package reconcile synchronizes transfer objects against persisted entities.
//
// A [Synchronizer] receives the entities a caller already knows about, a slice of transfer
// objects describing desired state, and an [Operation]:
//
//   - [Add] inserts transfer objects whose identifier is not among the known entities.
//   - [Update] overwrites stored entities whose identifier matches a transfer object.
//   - [Delete] removes stored entities whose identifier matches a transfer object.
//
// Every routine performs a single batched write through a [Store] and reports a [Result].
// Store and mapping failures never escape as errors: they are logged and reported as a
// [Failed] result. Only caller mistakes (nil slices, nil store, missing mapper) are returned
// as errors.
package reconcile
