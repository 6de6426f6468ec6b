package reconcile

import (
	"fmt"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/jinzhu/copier"
)

// Mapper converts a transfer object into a new entity.
type Mapper[D, E any] interface {
	ToEntity(dto D) (E, error)
}

// MapperFunc adapts a plain function to [Mapper].
type MapperFunc[D, E any] func(dto D) (E, error)

func (f MapperFunc[D, E]) ToEntity(dto D) (E, error) { return f(dto) }

// CopierMapper projects a DTO onto dto.NewEntity() field by field, matching fields by name.
//
// E must be a pointer type for the copy to land.
func CopierMapper[K comparable, E any, D models.Transfer[K, E]]() Mapper[D, E] {
	return MapperFunc[D, E](func(dto D) (E, error) {
		entity := dto.NewEntity()
		if err := copier.Copy(entity, dto); err != nil {
			var zero E
			return zero, fmt.Errorf("failed to map %v: %w", dto.Identifier(), err)
		}
		return entity, nil
	})
}
