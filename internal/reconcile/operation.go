package reconcile

import (
	"fmt"
	"strings"
)

// Operation selects the reconciliation routine. The zero value is not a valid operation.
type Operation int

const (
	Add Operation = iota + 1
	Update
	Delete
)

// Operations lists every supported operation in dispatch order.
var Operations = []Operation{Add, Update, Delete}

func (o Operation) String() string {
	switch o {
	case Add:
		return "add"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Valid reports whether o is one of [Add], [Update] or [Delete].
func (o Operation) Valid() bool {
	return o == Add || o == Update || o == Delete
}

// ParseOperation maps "add", "update" or "delete" (any case) to an [Operation].
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if strings.EqualFold(strings.TrimSpace(s), op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperation, s)
}

// past is the verb used in result messages.
func (o Operation) past() string {
	switch o {
	case Add:
		return "added"
	case Update:
		return "updated"
	case Delete:
		return "deleted"
	default:
		return "synchronized"
	}
}
