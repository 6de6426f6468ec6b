// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
)

// ErrInjected is returned by [FaultyStore] for every operation configured to fail.
var ErrInjected = errors.New("injected failure")

// store mirrors reconcile.Store so this package does not depend on it.
type store[K comparable, E any] interface {
	InsertAll(ctx context.Context, entities []E) (int64, error)
	FindByIDs(ctx context.Context, ids []K) ([]E, error)
	RemoveAll(ctx context.Context, entities []E) (int64, error)
	SetValues(entity E, values any) error
	Commit(ctx context.Context) (int64, error)
}

// Calls counts the operations a [FaultyStore] received.
type Calls struct {
	Insert, Find, Remove, SetValues, Commit, Discard int
}

// Total is the number of persistence calls (Discard excluded).
func (c Calls) Total() int {
	return c.Insert + c.Find + c.Remove + c.SetValues + c.Commit
}

// FaultyStore wraps a store, counts calls and fails the operations named in Fail.
//
// Valid names are "insert", "find", "remove", "set", "commit" and "panic:<name>" to panic instead.
type FaultyStore[K comparable, E any] struct {
	Inner store[K, E]
	Fail  map[string]bool
	Calls Calls
}

// NewFaultyStore wraps inner and fails the named operations.
func NewFaultyStore[K comparable, E any](inner store[K, E], fail ...string) *FaultyStore[K, E] {
	f := &FaultyStore[K, E]{Inner: inner, Fail: make(map[string]bool, len(fail))}
	for _, name := range fail {
		f.Fail[name] = true
	}
	return f
}

func (f *FaultyStore[K, E]) check(name string) error {
	if f.Fail["panic:"+name] {
		panic("injected panic in " + name)
	}
	if f.Fail[name] {
		return ErrInjected
	}
	return nil
}

func (f *FaultyStore[K, E]) InsertAll(ctx context.Context, entities []E) (int64, error) {
	f.Calls.Insert++
	if err := f.check("insert"); err != nil {
		return 0, err
	}
	return f.Inner.InsertAll(ctx, entities)
}

func (f *FaultyStore[K, E]) FindByIDs(ctx context.Context, ids []K) ([]E, error) {
	f.Calls.Find++
	if err := f.check("find"); err != nil {
		return nil, err
	}
	return f.Inner.FindByIDs(ctx, ids)
}

func (f *FaultyStore[K, E]) RemoveAll(ctx context.Context, entities []E) (int64, error) {
	f.Calls.Remove++
	if err := f.check("remove"); err != nil {
		return 0, err
	}
	return f.Inner.RemoveAll(ctx, entities)
}

func (f *FaultyStore[K, E]) SetValues(entity E, values any) error {
	f.Calls.SetValues++
	if err := f.check("set"); err != nil {
		return err
	}
	return f.Inner.SetValues(entity, values)
}

func (f *FaultyStore[K, E]) Commit(ctx context.Context) (int64, error) {
	f.Calls.Commit++
	if err := f.check("commit"); err != nil {
		return 0, err
	}
	return f.Inner.Commit(ctx)
}

// Discard forwards to the inner store when it supports discarding.
func (f *FaultyStore[K, E]) Discard() {
	f.Calls.Discard++
	if d, ok := f.Inner.(interface{ Discard() }); ok {
		d.Discard()
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}
