package reconcile

import (
	"errors"
	"testing"
)

func TestParseOperation(t *testing.T) {
	tt := []struct {
		input   string
		want    Operation
		wantErr bool
	}{
		{input: "add", want: Add},
		{input: "UPDATE", want: Update},
		{input: " delete ", want: Delete},
		{input: "upsert", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOperation(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedOperation) {
					t.Errorf("expected ErrUnsupportedOperation, got %v", err)
				}
				if got.Valid() {
					t.Errorf("expected invalid operation, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOperation(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseOperation(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestOperationString(t *testing.T) {
	for _, op := range Operations {
		if !op.Valid() {
			t.Errorf("%v should be valid", op)
		}
		parsed, err := ParseOperation(op.String())
		if err != nil || parsed != op {
			t.Errorf("round trip of %v gave %v, %v", op, parsed, err)
		}
	}

	var zero Operation
	if zero.Valid() {
		t.Error("zero operation should be invalid")
	}
	if zero.String() != "Operation(0)" {
		t.Errorf("unexpected string for zero operation: %q", zero.String())
	}
}
