package reconcile

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/shared"
)

// Synchronizer reconciles transfer objects D against entities E keyed by K.
//
// It holds no state between calls; concurrent callers sharing one store must serialize themselves.
type Synchronizer[K comparable, E models.Identifiable[K], D models.Transfer[K, E]] struct {
	store  Store[K, E]
	mapper Mapper[D, E]
	logger *log.Logger
}

// New creates a Synchronizer over store. mapper may be nil when the caller never adds;
// logger defaults to [shared.NewLogger] on stderr.
func New[K comparable, E models.Identifiable[K], D models.Transfer[K, E]](store Store[K, E], mapper Mapper[D, E], logger *log.Logger) *Synchronizer[K, E, D] {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Synchronizer[K, E, D]{store: store, mapper: mapper, logger: logger}
}

// Synchronize runs op over known and dtos and reports the outcome.
//
// The returned error is non-nil only for caller-contract violations, checked before the store
// is touched. Every other outcome, including store failures and unsupported operations, is
// reported through the [Result].
func (s *Synchronizer[K, E, D]) Synchronize(ctx context.Context, known []E, dtos []D, op Operation) (res Result, err error) {
	switch {
	case known == nil:
		return Result{}, ErrNilEntities
	case dtos == nil:
		return Result{}, ErrNilTransfers
	case s.store == nil:
		return Result{}, ErrMissingStore
	case op == Add && s.mapper == nil:
		return Result{}, ErrMissingMapper
	}

	defer func() {
		if rec := recover(); rec != nil {
			res, err = s.fail(op, fmt.Errorf("%w: %v", ErrPanic, rec), debug.Stack()), nil
		}
	}()

	switch op {
	case Add:
		res = s.add(ctx, known, dtos)
	case Update:
		res = s.update(ctx, dtos)
	case Delete:
		res = s.delete(ctx, dtos)
	default:
		s.logger.Warn("rejected synchronization", "op", op)
		return rejectedResult(op), nil
	}

	if res.Outcome() == Applied {
		s.logger.Debug("synchronized", "op", op, "affected", res.Affected())
	}
	return res, nil
}

// add inserts every DTO whose identifier is absent from known.
func (s *Synchronizer[K, E, D]) add(ctx context.Context, known []E, dtos []D) (res Result) {
	defer s.recoverInto(Add, &res)

	existing := make(map[K]struct{}, len(known))
	for _, entity := range known {
		existing[entity.Identifier()] = struct{}{}
	}

	var fresh []E
	for _, dto := range dtos {
		if _, ok := existing[dto.Identifier()]; ok {
			continue
		}
		entity, err := s.mapper.ToEntity(dto)
		if err != nil {
			return s.fail(Add, err, debug.Stack())
		}
		fresh = append(fresh, entity)
	}

	if len(fresh) == 0 {
		return noopResult(Add)
	}

	n, err := s.store.InsertAll(ctx, fresh)
	if err != nil {
		return s.fail(Add, err, debug.Stack())
	}
	return appliedResult(Add, n)
}

// update overwrites each stored entity with the first DTO sharing its identifier.
func (s *Synchronizer[K, E, D]) update(ctx context.Context, dtos []D) (res Result) {
	defer s.recoverInto(Update, &res)

	ids, first := index[K, E](dtos)
	if len(ids) == 0 {
		return noopResult(Update)
	}

	entities, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return s.fail(Update, err, debug.Stack())
	}

	var touched int64
	for _, entity := range entities {
		i, ok := first[entity.Identifier()]
		if !ok {
			continue
		}
		if err := s.store.SetValues(entity, dtos[i]); err != nil {
			return s.fail(Update, err, debug.Stack())
		}
		touched++
	}

	if touched == 0 {
		return noopResult(Update)
	}

	if _, err := s.store.Commit(ctx); err != nil {
		return s.fail(Update, err, debug.Stack())
	}
	return appliedResult(Update, touched)
}

// delete removes every stored entity whose identifier appears among dtos.
func (s *Synchronizer[K, E, D]) delete(ctx context.Context, dtos []D) (res Result) {
	defer s.recoverInto(Delete, &res)

	ids, _ := index[K, E](dtos)
	if len(ids) == 0 {
		return noopResult(Delete)
	}

	entities, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return s.fail(Delete, err, debug.Stack())
	}
	if len(entities) == 0 {
		return noopResult(Delete)
	}

	n, err := s.store.RemoveAll(ctx, entities)
	if err != nil {
		return s.fail(Delete, err, debug.Stack())
	}
	return appliedResult(Delete, n)
}

// recoverInto turns a panic inside a routine into a failed result.
func (s *Synchronizer[K, E, D]) recoverInto(op Operation, res *Result) {
	if rec := recover(); rec != nil {
		*res = s.fail(op, fmt.Errorf("%w: %v", ErrPanic, rec), debug.Stack())
	}
}

// fail logs err with its stack, drops pending store changes and builds the failed result.
func (s *Synchronizer[K, E, D]) fail(op Operation, err error, stack []byte) Result {
	if d, ok := s.store.(Discarder); ok {
		d.Discard()
	}
	res := failedResult(op, err)
	s.logger.Error(res.Message(), "op", op, "error", err, "stack", string(stack))
	return res
}

// index returns the distinct identifiers of dtos in first-seen order and, for each,
// the position of the first DTO carrying it.
func index[K comparable, E any, D models.Transfer[K, E]](dtos []D) ([]K, map[K]int) {
	ids := make([]K, 0, len(dtos))
	first := make(map[K]int, len(dtos))
	for i, dto := range dtos {
		id := dto.Identifier()
		if _, seen := first[id]; seen {
			continue
		}
		first[id] = i
		ids = append(ids, id)
	}
	return ids, first
}
