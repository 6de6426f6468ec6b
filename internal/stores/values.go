package stores

import (
	"fmt"
	"reflect"
	"time"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/jinzhu/copier"
)

// Overwrite copies every field of src into the same-named field of dst, zero values included.
// dst must be a pointer.
func Overwrite(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{IgnoreEmpty: false, DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to overwrite values: %w", err)
	}
	return nil
}

// clone returns a new entity of the same pointer type holding a copy of entity's values.
func clone[E any](entity E) (E, error) {
	var zero E
	t := reflect.TypeOf(entity)
	if t == nil || t.Kind() != reflect.Pointer {
		return zero, fmt.Errorf("cannot snapshot %T: entities must be pointers", entity)
	}

	copied, ok := reflect.New(t.Elem()).Interface().(E)
	if !ok {
		return zero, fmt.Errorf("cannot snapshot %T", entity)
	}
	if err := Overwrite(copied, entity); err != nil {
		return zero, err
	}
	return copied, nil
}

// prepare stamps and validates entity ahead of a write.
func prepare(entity any, now time.Time) error {
	if ts, ok := entity.(models.Timestamped); ok {
		ts.Touch(now)
	}
	if v, ok := entity.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}
