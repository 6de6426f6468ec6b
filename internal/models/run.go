package models

import (
	"errors"
	"time"
)

// SyncRun records one synchronization attempt and how it ended.
//
// Runs are written once, after the attempt completes, and never updated.
type SyncRun struct {
	id           string
	sequence     int
	entity       string
	operation    string
	backend      string
	dryRun       bool
	outcome      string
	affected     int64
	message      string
	errorMessage string
	startedAt    time.Time
	completedAt  *time.Time
	createdAt    time.Time
}

// NewSyncRun creates a run for entity and operation that started now.
func NewSyncRun(sequence int, entity, operation, backend string, dryRun bool) *SyncRun {
	now := time.Now()
	return &SyncRun{
		sequence:  sequence,
		entity:    entity,
		operation: operation,
		backend:   backend,
		dryRun:    dryRun,
		startedAt: now,
		createdAt: now,
	}
}

func (r *SyncRun) ID() string              { return r.id }
func (r *SyncRun) Sequence() int           { return r.sequence }
func (r *SyncRun) Entity() string          { return r.entity }
func (r *SyncRun) Operation() string       { return r.operation }
func (r *SyncRun) Backend() string         { return r.backend }
func (r *SyncRun) DryRun() bool            { return r.dryRun }
func (r *SyncRun) Outcome() string         { return r.outcome }
func (r *SyncRun) Affected() int64         { return r.affected }
func (r *SyncRun) Message() string         { return r.message }
func (r *SyncRun) ErrorMessage() string    { return r.errorMessage }
func (r *SyncRun) StartedAt() time.Time    { return r.startedAt }
func (r *SyncRun) CompletedAt() *time.Time { return r.completedAt }
func (r *SyncRun) CreatedAt() time.Time    { return r.createdAt }

func (r *SyncRun) SetID(id string)                { r.id = id }
func (r *SyncRun) SetSequence(sequence int)       { r.sequence = sequence }
func (r *SyncRun) SetStartedAt(t time.Time)       { r.startedAt = t }
func (r *SyncRun) SetCreatedAt(t time.Time)       { r.createdAt = t }
func (r *SyncRun) SetCompletedAt(t *time.Time)    { r.completedAt = t }
func (r *SyncRun) SetErrorMessage(message string) { r.errorMessage = message }

// Complete stamps the run with its outcome. errorMessage may be empty.
func (r *SyncRun) Complete(outcome string, affected int64, message, errorMessage string) {
	now := time.Now()
	r.outcome = outcome
	r.affected = affected
	r.message = message
	r.errorMessage = errorMessage
	r.completedAt = &now
}

// Validate checks that the run names what was synchronized and how it ended.
func (r *SyncRun) Validate() error {
	if r.entity == "" {
		return errors.New("entity is required")
	}
	if r.operation == "" {
		return errors.New("operation is required")
	}
	if r.outcome == "" {
		return errors.New("outcome is required")
	}
	if r.affected < 0 {
		return errors.New("affected count must not be negative")
	}
	return nil
}
