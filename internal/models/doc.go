// Package models defines the entities and transfer objects reconciled by the reconcile service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs describing desired state, usually decoded from an import file
//   - [Track] : Song metadata keyed by a service-qualified string ID
//   - [Playlist] : Playlist metadata keyed by a numeric ID
//
// 2. Persistent Entities: Database-backed records owned by a store
//   - [PersistedTrack] : Stored track row
//   - [PersistedPlaylist] : Stored playlist row
//   - [SyncRun] : Journal entry describing one synchronization attempt
//
// DTOs and entities share an identifier type through [Identifiable]; a DTO names the entity it maps onto through [Transfer].
// Identifier equality is the only join key used when reconciling the two.
package models
